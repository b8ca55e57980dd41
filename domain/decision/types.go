package decision

import (
	"sort"
	"time"

	"coarank/domain/core"
)

// Phase tracks a pipeline run through the two-pass protocol.
type Phase string

const (
	PhaseGenerated     Phase = "generated"
	PhasePass1Scored   Phase = "pass1_scored"
	PhasePass2Filtered Phase = "pass2_filtered"
	PhaseRanked        Phase = "ranked"
)

// Exclusion reasons attached by the second pass.
const (
	ExcludeCivilianProtection = "civilian_protection_below_threshold"
	ExcludeTimeConstraint     = "time_constraint_violated"
)

// FactorScores are the base scoring factors, each in [0,1].
type FactorScores struct {
	CombatPower    float64 `json:"combat_power"`
	Mobility       float64 `json:"mobility"`
	ConstraintFit  float64 `json:"constraint_fit"`
	ThreatResponse float64 `json:"threat_response"`
	Resources      float64 `json:"resources"`
	Assets         float64 `json:"assets"`
}

// MettCScores are the six METT-C sub-scores plus their weighted composite,
// each in [0,1].
type MettCScores struct {
	Mission  float64 `json:"mission"`
	Enemy    float64 `json:"enemy"`
	Terrain  float64 `json:"terrain"`
	Troops   float64 `json:"troops"`
	Civilian float64 `json:"civilian"`
	Time     float64 `json:"time"`
	Total    float64 `json:"total"`
}

// ScoreBreakdown is the full, explainable scoring record for one COA.
// Invariant: Excluded implies a non-empty ExcludeReason; all scores lie in [0,1].
type ScoreBreakdown struct {
	CoaID               core.CoaID    `json:"coa_id"`
	CoaType             string        `json:"coa_type"`
	Factors             FactorScores  `json:"factors"`
	AppliedRule         core.RuleName `json:"applied_rule,omitempty"`
	RuleAdjustment      float64       `json:"rule_adjustment"`
	MettC               *MettCScores  `json:"mett_c,omitempty"`
	Total               float64       `json:"total"`
	Excluded            bool          `json:"excluded"`
	ExcludeReason       string        `json:"exclude_reason,omitempty"`
	MettCFilterBypassed bool          `json:"mett_c_filter_bypassed,omitempty"`
	Warnings            []string      `json:"warnings,omitempty"`
}

// AddWarning appends a warning, skipping consecutive duplicates.
func (b *ScoreBreakdown) AddWarning(w string) {
	if w == "" {
		return
	}
	if n := len(b.Warnings); n > 0 && b.Warnings[n-1] == w {
		return
	}
	b.Warnings = append(b.Warnings, w)
}

// RankedCoa is one entry of the pipeline's final ordering.
type RankedCoa struct {
	Rank      int            `json:"rank"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// RankingResult is the terminal output of a pipeline run.
type RankingResult struct {
	RunID     core.RunID  `json:"run_id"`
	Phase     Phase       `json:"phase"`
	Ranked    []RankedCoa `json:"ranked"`
	Warnings  []string    `json:"warnings,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Top returns the highest-ranked breakdown, if any.
func (r *RankingResult) Top() (RankedCoa, bool) {
	if len(r.Ranked) == 0 {
		return RankedCoa{}, false
	}
	return r.Ranked[0], true
}

// SortBreakdowns orders breakdowns by descending total with a stable
// lexical-ascending tie-break on COA id, so identical inputs always produce
// identical orderings.
func SortBreakdowns(breakdowns []ScoreBreakdown) {
	sort.SliceStable(breakdowns, func(i, j int) bool {
		if breakdowns[i].Total != breakdowns[j].Total {
			return breakdowns[i].Total > breakdowns[j].Total
		}
		return breakdowns[i].CoaID < breakdowns[j].CoaID
	})
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
