package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"coarank/adapters/rules"
	"coarank/domain/core"
	"coarank/internal"
)

// ReadRuleSet parses a JSON rule file. The file shape is rules.RuleSet:
// an ordered rule list plus a weights map of named scalar gains.
func ReadRuleSet(filePath string) (rules.RuleSet, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return rules.RuleSet{}, core.NewConfigError("rule file", err)
	}

	var set rules.RuleSet
	if err := json.Unmarshal(data, &set); err != nil {
		return rules.RuleSet{}, core.NewConfigError("rule file", fmt.Errorf("malformed JSON: %w", err))
	}
	if len(set.Rules) == 0 {
		return rules.RuleSet{}, core.NewConfigError("rule file", fmt.Errorf("no rules defined"))
	}
	for i, def := range set.Rules {
		if def.Name == "" {
			return rules.RuleSet{}, core.NewConfigError("rule file", fmt.Errorf("rule %d has no name", i))
		}
		if def.Condition == "" {
			return rules.RuleSet{}, core.NewConfigError("rule file", fmt.Errorf("rule %q has no condition", def.Name))
		}
	}
	return set, nil
}

// LoadRuleEngine builds a rule engine from the file, degrading to the
// built-in rule set when the path is empty and to a no-adjustment engine when
// the file is malformed. Rule-based adjustment is strictly optional; a bad
// file never fails the pipeline.
func LoadRuleEngine(filePath string) *rules.Engine {
	if filePath == "" {
		return rules.NewEngine(rules.DefaultRuleSet())
	}

	set, err := ReadRuleSet(filePath)
	if err != nil {
		internal.DefaultLogger.Warn("rule file load failed, scoring without adjustment: %v", err)
		return rules.NewDegradedEngine(err.Error())
	}
	return rules.NewEngine(set)
}
