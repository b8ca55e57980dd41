package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"coarank/domain/core"
	"coarank/domain/decision"
	"coarank/domain/situation"
	"coarank/internal"
)

// Score adjustment defaults, overridable via the rule file's weights map.
const (
	DefaultRuleBonus   = 0.10
	DefaultRulePenalty = 0.05
)

// Recommendation is the outcome of a matched rule.
type Recommendation struct {
	RuleName core.RuleName
	Action   Action
}

// Engine evaluates rules in ascending priority order and returns the first
// match. The compiled rule set is an immutable snapshot; Swap replaces it
// wholesale so in-flight evaluations keep the set they started with.
type Engine struct {
	mu       sync.RWMutex
	snapshot *snapshot
	logger   *internal.Logger
}

type snapshot struct {
	rules        []compiledRule
	bonus        float64
	penalty      float64
	loadWarnings []string
}

// NewEngine compiles a rule set. Rules with conditions that fail to compile
// are skipped individually with a warning, matching the degrade-don't-fail
// policy for configuration problems.
func NewEngine(set RuleSet) *Engine {
	e := &Engine{logger: internal.DefaultLogger}
	e.snapshot = compile(set, e.logger)
	return e
}

// NewDegradedEngine builds an engine with no rules. Used when the rule file
// cannot be loaded at all: scoring proceeds without adjustment and every
// evaluation carries the load warning.
func NewDegradedEngine(reason string) *Engine {
	e := &Engine{logger: internal.DefaultLogger}
	e.snapshot = &snapshot{
		bonus:        DefaultRuleBonus,
		penalty:      DefaultRulePenalty,
		loadWarnings: []string{fmt.Sprintf("%s: %s", core.WarnRuleFileMissing, reason)},
	}
	return e
}

func compile(set RuleSet, logger *internal.Logger) *snapshot {
	snap := &snapshot{
		bonus:   DefaultRuleBonus,
		penalty: DefaultRulePenalty,
	}
	if v, ok := set.Weights["rule_bonus"]; ok && v > 0 {
		snap.bonus = v
	}
	if v, ok := set.Weights["rule_penalty"]; ok && v > 0 {
		snap.penalty = v
	}

	for _, def := range set.Rules {
		program, err := expr.Compile(def.Condition, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			warning := fmt.Sprintf("rule %q condition rejected: %v", def.Name, err)
			logger.Warn("%s", warning)
			snap.loadWarnings = append(snap.loadWarnings, warning)
			continue
		}
		if !def.Action.CoaType.IsValid() {
			warning := fmt.Sprintf("rule %q recommends unknown coa type %q", def.Name, def.Action.CoaType)
			logger.Warn("%s", warning)
			snap.loadWarnings = append(snap.loadWarnings, warning)
			continue
		}
		snap.rules = append(snap.rules, compiledRule{def: def, program: program})
	}

	// Ascending priority; stable on name so equal priorities stay deterministic.
	sort.SliceStable(snap.rules, func(i, j int) bool {
		if snap.rules[i].def.Action.Priority != snap.rules[j].def.Action.Priority {
			return snap.rules[i].def.Action.Priority < snap.rules[j].def.Action.Priority
		}
		return snap.rules[i].def.Name < snap.rules[j].def.Name
	})
	return snap
}

// Swap atomically replaces the rule set. The new set compiles first; rules
// that fail compilation are skipped exactly as at construction.
func (e *Engine) Swap(set RuleSet) {
	snap := compile(set, e.logger)
	e.mu.Lock()
	e.snapshot = snap
	e.mu.Unlock()
	e.logger.Info("rule set swapped: %d rules active", len(snap.rules))
}

func (e *Engine) current() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// RuleCount reports how many rules compiled into the active snapshot.
func (e *Engine) RuleCount() int {
	return len(e.current().rules)
}

// Evaluate returns the first rule whose condition holds for the context,
// in ascending priority order, or nil when nothing matches. Runtime
// evaluation errors skip the offending rule with a warning.
func (e *Engine) Evaluate(sit *situation.Context) (*Recommendation, []string) {
	snap := e.current()
	warnings := append([]string(nil), snap.loadWarnings...)

	env := NewEnv(sit)
	for _, r := range snap.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rule %q evaluation error: %v", r.def.Name, err))
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}
		e.logger.Debug("rule fired: %s -> %s (priority %d)", r.def.Name, r.def.Action.CoaType, r.def.Action.Priority)
		return &Recommendation{RuleName: r.def.Name, Action: r.def.Action}, warnings
	}

	warnings = append(warnings, core.WarnNoRuleMatch)
	return nil, warnings
}

// ApplyScoring applies the matched rule's adjustment across a scored list:
// the recommended COA type gains the bonus, every other type takes the
// penalty, totals clamped to [0,1]. With no match the list passes through
// unmodified apart from the evaluation warnings.
func (e *Engine) ApplyScoring(breakdowns []decision.ScoreBreakdown, sit *situation.Context) []decision.ScoreBreakdown {
	rec, warnings := e.Evaluate(sit)
	if rec == nil {
		for i := range breakdowns {
			for _, w := range warnings {
				breakdowns[i].AddWarning(w)
			}
		}
		return breakdowns
	}

	snap := e.current()
	for i := range breakdowns {
		if breakdowns[i].CoaType == rec.Action.CoaType.String() {
			breakdowns[i].RuleAdjustment = snap.bonus
		} else {
			breakdowns[i].RuleAdjustment = -snap.penalty
		}
		breakdowns[i].AppliedRule = rec.RuleName
		breakdowns[i].Total = decision.Clamp01(breakdowns[i].Total + breakdowns[i].RuleAdjustment)
		for _, w := range warnings {
			breakdowns[i].AddWarning(w)
		}
	}
	return breakdowns
}
