// Package rules evaluates declarative condition/action rules over situation
// scalars to recommend a COA type and adjust candidate scores. Conditions are
// expr expressions compiled to bytecode once at load time, never re-parsed
// per evaluation.
package rules

import (
	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/situation"

	"github.com/expr-lang/expr/vm"
)

// Action is what a matched rule recommends.
type Action struct {
	CoaType  coa.CoaType `json:"coa_type"`
	Priority int         `json:"priority"` // lower = higher precedence
}

// Definition is one declarative rule as loaded from the rule file.
type Definition struct {
	Name      core.RuleName `json:"name"`
	Condition string        `json:"condition"`
	Action    Action        `json:"action"`
}

// RuleSet is the on-disk rule file shape: ordered rules plus named scalar
// gains consumed by the engine.
type RuleSet struct {
	Rules   []Definition       `json:"rules"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// compiledRule pairs a definition with its compiled condition bytecode.
type compiledRule struct {
	def     Definition
	program *vm.Program
}

// Env is the typed evaluation environment exposed to rule conditions.
// Field names below are the identifiers available in condition expressions.
type Env struct {
	ThreatLevel      float64 `expr:"threat_level"`
	EnemyForceRatio  float64 `expr:"enemy_force_ratio"`
	TimeCritical     bool    `expr:"time_critical"`
	CivilianPresence float64 `expr:"civilian_presence"` // highest protection priority in context
	ResourceCount    int     `expr:"resource_count"`
	AxisPenetrated   bool    `expr:"axis_penetrated"`
}

// NewEnv projects a situation context onto the rule evaluation environment.
func NewEnv(sit *situation.Context) Env {
	env := Env{
		ThreatLevel:     sit.ThreatLevel,
		EnemyForceRatio: sit.EnemyForceRatio,
		ResourceCount:   len(sit.AvailableResources),
	}
	if con, ok := sit.TimeConstraint(); ok {
		env.TimeCritical = con.TimeCritical
	}
	for _, area := range sit.CivilianAreas {
		if area.ProtectionPriority > env.CivilianPresence {
			env.CivilianPresence = area.ProtectionPriority
		}
	}
	for _, axis := range sit.AxisStates {
		if axis.Status == situation.AxisPenetrated {
			env.AxisPenetrated = true
		}
	}
	return env
}

// DefaultRuleSet returns the built-in rules used when no rule file is loaded.
// Priorities follow doctrine ordering: immediate-threat responses first.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Rules: []Definition{
			{
				Name:      "high-threat-defense",
				Condition: `threat_level > 0.7`,
				Action:    Action{CoaType: coa.TypeDefense, Priority: 1},
			},
			{
				Name:      "penetration-counterattack",
				Condition: `axis_penetrated and threat_level >= 0.5`,
				Action:    Action{CoaType: coa.TypeCounterAttack, Priority: 2},
			},
			{
				Name:      "favorable-ratio-offensive",
				Condition: `enemy_force_ratio >= 1.5 and threat_level >= 0.4`,
				Action:    Action{CoaType: coa.TypeOffensive, Priority: 3},
			},
			{
				Name:      "civilian-heavy-infoops",
				Condition: `civilian_presence >= 0.8 and threat_level < 0.5`,
				Action:    Action{CoaType: coa.TypeInformationOps, Priority: 4},
			},
			{
				Name:      "low-threat-deterrence",
				Condition: `threat_level < 0.3`,
				Action:    Action{CoaType: coa.TypeDeterrence, Priority: 5},
			},
		},
		Weights: map[string]float64{
			"rule_bonus":   DefaultRuleBonus,
			"rule_penalty": DefaultRulePenalty,
		},
	}
}
