// Package scoring composes the base factors (combat power, environment fit,
// threat response, resources, assets) into one weighted total with a full
// per-factor breakdown.
package scoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"coarank/adapters/resources"
	"coarank/domain/coa"
	"coarank/domain/decision"
	"coarank/domain/situation"
	"coarank/ports"
)

// Merge policy for the second pass: the recomputed total blends the base
// total with the METT-C composite at a fixed ratio. METT-C sub-scores are
// always reported under their own field; the base factor breakdown is never
// overwritten.
const (
	BaseShare  = 0.6
	MettCShare = 0.4
)

// NeutralAssetScore is used when a COA declares no specific asset needs.
const NeutralAssetScore = 0.5

// MettCEvaluator is the second-pass evaluator dependency. Satisfied by
// mettc.Evaluator; declared here so the scorer owns the contract it consumes.
type MettCEvaluator interface {
	Evaluate(c *coa.Coa, sit *situation.Context) (decision.MettCScores, []string)
}

// Scorer computes base score breakdowns. Dependencies are injected and
// treated as immutable snapshots; the scorer itself holds no mutable state.
type Scorer struct {
	relevance ports.RelevanceSource
	parser    *resources.Parser
	weights   Weights
}

// NewScorer creates a scorer over the given lookups.
func NewScorer(relevance ports.RelevanceSource, parser *resources.Parser, weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{relevance: relevance, parser: parser, weights: weights}, nil
}

// NewDefaultScorer creates a scorer with DefaultWeights.
func NewDefaultScorer(relevance ports.RelevanceSource, parser *resources.Parser) *Scorer {
	s, err := NewScorer(relevance, parser, DefaultWeights())
	if err != nil {
		panic(fmt.Sprintf("default scoring weights invalid: %v", err))
	}
	return s
}

// Score computes the base breakdown for one candidate. Rule adjustment is
// applied across the whole list afterwards by the rule engine, not here.
func (s *Scorer) Score(c *coa.Coa, sit *situation.Context) decision.ScoreBreakdown {
	breakdown := decision.ScoreBreakdown{
		CoaID:   c.ID,
		CoaType: c.Type.String(),
	}

	threatResponse, warnings := s.relevance.Relevance(c.Type, sit.DominantThreat)
	for _, w := range warnings {
		breakdown.AddWarning(w)
	}

	resourceScore, warnings := s.parser.MatchScore(c.RequiredResources, sit.AvailableResources)
	for _, w := range warnings {
		breakdown.AddWarning(w)
	}

	assetScore := NeutralAssetScore
	if len(c.RequiredAssets) > 0 {
		assetScore, warnings = s.parser.MatchScore(c.RequiredAssets, sit.AvailableResources)
		for _, w := range warnings {
			breakdown.AddWarning(w)
		}
	}

	breakdown.Factors = decision.FactorScores{
		CombatPower:    combatSufficiency(c.CombatPower, sit.ThreatLevel),
		Mobility:       decision.Clamp01(c.Mobility),
		ConstraintFit:  constraintFit(c, sit),
		ThreatResponse: threatResponse,
		Resources:      resourceScore,
		Assets:         assetScore,
	}
	breakdown.Total = s.total(breakdown.Factors)
	return breakdown
}

// total is the weighted dot product of the factor vector. Mobility and
// constraint fit enter as one averaged environment factor.
func (s *Scorer) total(f decision.FactorScores) float64 {
	environment := (f.Mobility + f.ConstraintFit) / 2.0
	values := []float64{f.CombatPower, f.ThreatResponse, environment, f.Resources, f.Assets}
	return decision.Clamp01(floats.Dot(values, s.weights.vector()))
}

// WithMettC attaches second-pass METT-C scores to an existing breakdown and
// recomputes the total under the blend policy. The input breakdown's factors
// and warnings are preserved.
func (s *Scorer) WithMettC(breakdown decision.ScoreBreakdown, evaluator MettCEvaluator, c *coa.Coa, sit *situation.Context) decision.ScoreBreakdown {
	scores, warnings := evaluator.Evaluate(c, sit)
	for _, w := range warnings {
		breakdown.AddWarning(w)
	}
	breakdown.MettC = &scores
	breakdown.Total = decision.Clamp01(BaseShare*breakdown.Total + MettCShare*scores.Total)
	return breakdown
}

// combatSufficiency compares declared combat power against the threat level:
// full score when power covers the threat, linear shortfall penalty below it.
func combatSufficiency(power, threatLevel float64) float64 {
	shortfall := math.Max(0, threatLevel-decision.Clamp01(power))
	return decision.Clamp01(1.0 - shortfall)
}

// constraintFit is the COA's declared tolerance, halved when it overruns an
// active duration ceiling.
func constraintFit(c *coa.Coa, sit *situation.Context) float64 {
	fit := decision.Clamp01(c.ConstraintTolerance)
	if con, ok := sit.TimeConstraint(); ok && con.MaxDurationHours > 0 &&
		c.EstimatedDurationHours > con.MaxDurationHours {
		fit *= 0.5
	}
	return fit
}
