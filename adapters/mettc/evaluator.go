// Package mettc computes the six METT-C sub-scores (Mission, Enemy, Terrain,
// Troops, Civilian, Time) for a (COA, situation) pair. Each sub-score and the
// weighted composite lie in [0,1].
package mettc

import (
	"fmt"
	"math"
	"strings"

	"coarank/adapters/resources"
	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/decision"
	"coarank/domain/situation"
)

// Weights defines the relative importance of each METT-C dimension.
// All weights must sum to 1.0 (±0.001 tolerance).
type Weights struct {
	Mission  float64
	Enemy    float64
	Terrain  float64
	Troops   float64
	Civilian float64
	Time     float64
}

// DefaultWeights returns the documented default distribution: mission and
// troops carry slightly more weight than the remaining four dimensions.
func DefaultWeights() Weights {
	return Weights{
		Mission:  0.20,
		Enemy:    0.15,
		Terrain:  0.15,
		Troops:   0.20,
		Civilian: 0.15,
		Time:     0.15,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Mission + w.Enemy + w.Terrain + w.Troops + w.Civilian + w.Time
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("mett-c weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Mission, w.Enemy, w.Terrain, w.Troops, w.Civilian, w.Time} {
		if v < 0 {
			return fmt.Errorf("negative mett-c weight: %f", v)
		}
	}
	return nil
}

// Tuning constants for the individual sub-scores.
const (
	// terrainBase is the neutral terrain score before tag adjustments.
	terrainBase = 0.5
	// terrainTagStep is the per-tag adjustment for (in)compatible terrain.
	terrainTagStep = 0.15
	// densityReference is the population density at which the civilian
	// density factor saturates at 1.0.
	densityReference = 5000.0
	// missionDataGapScore is substituted when objective or purpose tags
	// are missing entirely.
	missionDataGapScore = 0.5
)

// Evaluator computes METT-C sub-scores. It is stateless apart from its
// injected parser and weights; one instance serves concurrent scoring runs.
type Evaluator struct {
	parser  *resources.Parser
	weights Weights
}

// NewEvaluator creates an evaluator with the given weights.
func NewEvaluator(parser *resources.Parser, weights Weights) (*Evaluator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{parser: parser, weights: weights}, nil
}

// NewDefaultEvaluator creates an evaluator with DefaultWeights.
func NewDefaultEvaluator(parser *resources.Parser) *Evaluator {
	e, err := NewEvaluator(parser, DefaultWeights())
	if err != nil {
		panic(fmt.Sprintf("default mett-c weights invalid: %v", err))
	}
	return e
}

// Evaluate computes all six sub-scores and their weighted composite.
func (e *Evaluator) Evaluate(c *coa.Coa, sit *situation.Context) (decision.MettCScores, []string) {
	var warnings []string

	mission, w := e.missionScore(c, sit)
	warnings = append(warnings, w...)
	troops, w := e.troopsScore(c, sit)
	warnings = append(warnings, w...)
	civilian, w := e.civilianScore(c, sit)
	warnings = append(warnings, w...)

	scores := decision.MettCScores{
		Mission:  mission,
		Enemy:    e.enemyScore(sit),
		Terrain:  e.terrainScore(c, sit),
		Troops:   troops,
		Civilian: civilian,
		Time:     e.timeScore(c, sit),
	}
	scores.Total = decision.Clamp01(
		scores.Mission*e.weights.Mission +
			scores.Enemy*e.weights.Enemy +
			scores.Terrain*e.weights.Terrain +
			scores.Troops*e.weights.Troops +
			scores.Civilian*e.weights.Civilian +
			scores.Time*e.weights.Time)
	return scores, warnings
}

// missionScore is the set-intersection ratio between the COA's purpose tags
// and the mission's objective tags.
func (e *Evaluator) missionScore(c *coa.Coa, sit *situation.Context) (float64, []string) {
	if len(sit.Mission.ObjectiveTags) == 0 || len(c.PurposeTags) == 0 {
		return missionDataGapScore, []string{core.WarnNoMissionTags}
	}

	purpose := make(map[string]bool, len(c.PurposeTags))
	for _, tag := range c.PurposeTags {
		purpose[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	matched := 0
	for _, tag := range sit.Mission.ObjectiveTags {
		if purpose[strings.ToLower(strings.TrimSpace(tag))] {
			matched++
		}
	}
	return float64(matched) / float64(len(sit.Mission.ObjectiveTags)), nil
}

// enemyScore rises as the force ratio becomes favorable and the threat level
// falls: a high enemy score means an aggressive response is applicable.
func (e *Evaluator) enemyScore(sit *situation.Context) float64 {
	ratioScore := math.Min(1.0, sit.EnemyForceRatio/2.0)
	return decision.Clamp01(0.6*(1.0-sit.ThreatLevel) + 0.4*ratioScore)
}

// terrainScore starts neutral and shifts per declared compatible/incompatible
// terrain tag present in the context.
func (e *Evaluator) terrainScore(c *coa.Coa, sit *situation.Context) float64 {
	present := make(map[string]bool, len(sit.TerrainTags))
	for _, tag := range sit.TerrainTags {
		present[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	score := terrainBase
	for _, tag := range c.CompatibleTerrain {
		if present[strings.ToLower(strings.TrimSpace(tag))] {
			score += terrainTagStep
		}
	}
	for _, tag := range c.IncompatibleTerrain {
		if present[strings.ToLower(strings.TrimSpace(tag))] {
			score -= terrainTagStep
		}
	}
	return decision.Clamp01(score)
}

// troopsScore delegates to the resource matcher.
func (e *Evaluator) troopsScore(c *coa.Coa, sit *situation.Context) (float64, []string) {
	return e.parser.MatchScore(c.RequiredResources, sit.AvailableResources)
}

// civilianScore starts at 1.0 and multiplies in a penalty for every civilian
// area whose covered cells intersect the COA's impact footprint. Overlap with
// a high-priority dense area drives the score into the 0.1–0.2 range; that is
// the intended penalty, not an error.
func (e *Evaluator) civilianScore(c *coa.Coa, sit *situation.Context) (float64, []string) {
	if len(sit.CivilianAreas) == 0 {
		return 1.0, []string{core.WarnNoCivilianData}
	}

	score := 1.0
	for i := range sit.CivilianAreas {
		area := &sit.CivilianAreas[i]
		if !area.CoversAny(c.ImpactTerrainCellIDs) {
			continue
		}
		score *= 1.0 - area.ProtectionPriority*densityFactor(area.PopulationDensity)
	}
	return decision.Clamp01(score), nil
}

// densityFactor scales the protection penalty by population density,
// saturating at densityReference. Unknown (non-positive) density is treated
// conservatively as fully dense.
func densityFactor(density float64) float64 {
	if density <= 0 {
		return 1.0
	}
	return math.Min(1.0, density/densityReference)
}

// timeScore returns 0.0 for a hard violation of a time-critical constraint,
// otherwise degrades linearly with the overrun ratio against the stated
// ceiling. No ceiling means no time pressure.
func (e *Evaluator) timeScore(c *coa.Coa, sit *situation.Context) float64 {
	con, ok := sit.TimeConstraint()
	if !ok || con.MaxDurationHours <= 0 {
		return 1.0
	}
	if con.TimeCritical && c.EstimatedDurationHours > con.MaxDurationHours {
		return 0.0
	}
	overrun := (c.EstimatedDurationHours - con.MaxDurationHours) / con.MaxDurationHours
	if overrun <= 0 {
		return 1.0
	}
	return 1.0 - math.Min(1.0, overrun)
}
