package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"coarank/adapters/resources"
	"coarank/adapters/rules"
	"coarank/domain/coa"
	"coarank/domain/situation"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestRelevanceReader_CSV(t *testing.T) {
	path := writeFile(t, "relevance.csv",
		"coaType,threatType,baseRelevance,description\n"+
			"Defense,ArmoredAssault,0.9,prepared defense\n"+
			"Offensive,ArmoredAssault,0.6,spoiling attack\n")

	mappings, warnings, err := NewRelevanceReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(mappings) != 2 {
		t.Fatalf("Expected 2 mappings, got %d", len(mappings))
	}
	if mappings[0].CoaType != coa.TypeDefense || mappings[0].Relevance != 0.9 {
		t.Errorf("First mapping wrong: %+v", mappings[0])
	}
	if mappings[0].ThreatType != situation.ThreatArmoredAssault {
		t.Errorf("Threat type wrong: %+v", mappings[0])
	}
}

func TestRelevanceReader_BadRowsSkippedWithWarnings(t *testing.T) {
	path := writeFile(t, "relevance.csv",
		"coaType,threatType,baseRelevance\n"+
			"Defense,ArmoredAssault,0.9\n"+
			"NotACoaType,ArmoredAssault,0.5\n"+
			"Offensive,ArmoredAssault,1.7\n"+
			"Maneuver,ArmoredAssault,abc\n")

	mappings, warnings, err := NewRelevanceReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(mappings) != 1 {
		t.Errorf("Expected 1 good mapping, got %d", len(mappings))
	}
	if len(warnings) != 3 {
		t.Errorf("Expected 3 row warnings, got %v", warnings)
	}
}

func TestRelevanceReader_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relevance.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"coaType", "threatType", "baseRelevance", "description"},
		{"Defense", "MissileThreat", 0.85, "layered defense"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("building fixture: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving fixture: %v", err)
	}
	f.Close()

	mappings, _, err := NewRelevanceReader(path).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(mappings) != 1 || mappings[0].Relevance != 0.85 {
		t.Fatalf("Expected one mapping at 0.85, got %+v", mappings)
	}
}

func TestLoadMapper_MissingFileFallsBack(t *testing.T) {
	mapper, warnings := LoadMapper("/nonexistent/relevance.csv")
	if mapper == nil {
		t.Fatal("LoadMapper must always return a usable mapper")
	}
	if mapper.Stats().TotalMappings == 0 {
		t.Error("Fallback mapper should carry the built-in table")
	}
	if len(warnings) == 0 {
		t.Error("Fallback should surface a warning")
	}
}

func TestDecodeCandidates_RawPriorityStrings(t *testing.T) {
	data := []byte(`[
		{"id": "coa-1", "type": "Defense",
		 "resource_priorities": "포병대대(필수), 공격헬기(권장)",
		 "asset_priorities": "전자전팀(선택)"}
	]`)

	candidates, warnings, err := DecodeCandidates(data, resources.NewParser())
	if err != nil {
		t.Fatalf("DecodeCandidates failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}

	reqs := candidates[0].RequiredResources
	if len(reqs) != 2 || reqs[0].Tier != coa.TierRequired || reqs[0].Weight != 1.0 {
		t.Errorf("Required resources wrong: %+v", reqs)
	}
	if reqs[1].Resource != "공격헬기" || reqs[1].Weight != 0.6 {
		t.Errorf("Second requirement wrong: %+v", reqs[1])
	}

	assets := candidates[0].RequiredAssets
	if len(assets) != 1 || assets[0].Tier != coa.TierOptional || assets[0].Weight != 0.3 {
		t.Errorf("Required assets wrong: %+v", assets)
	}
}

func TestDecodeCandidates_NormalizesStructuredWeights(t *testing.T) {
	// Caller omits the weight entirely; the tier must restore it.
	data := []byte(`[
		{"id": "coa-1", "type": "Defense",
		 "required_resources": [{"resource": "포병대대", "tier": "Required"}]}
	]`)

	candidates, _, err := DecodeCandidates(data, resources.NewParser())
	if err != nil {
		t.Fatalf("DecodeCandidates failed: %v", err)
	}
	req := candidates[0].RequiredResources[0]
	if req.Weight != 1.0 {
		t.Errorf("Expected tier-derived weight 1.0, got %f", req.Weight)
	}
}

func TestDecodeCandidates_MalformedTokensWarnPerCandidate(t *testing.T) {
	data := []byte(`[
		{"id": "coa-1", "type": "Defense",
		 "resource_priorities": "포병대대 필수, 공격헬기(권장)"}
	]`)

	candidates, warnings, err := DecodeCandidates(data, resources.NewParser())
	if err != nil {
		t.Fatalf("DecodeCandidates failed: %v", err)
	}
	if len(candidates[0].RequiredResources) != 1 {
		t.Errorf("Expected the well-formed token to survive, got %+v", candidates[0].RequiredResources)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "coa-1") {
		t.Errorf("Expected one warning naming the candidate, got %v", warnings)
	}
}

func TestDecodeCandidates_MalformedJSON(t *testing.T) {
	if _, _, err := DecodeCandidates([]byte(`[{`), resources.NewParser()); err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestReadRuleSet_ValidFile(t *testing.T) {
	path := writeFile(t, "rules.json", `{
		"rules": [
			{"name": "high-threat-defense", "condition": "threat_level > 0.7",
			 "action": {"coa_type": "Defense", "priority": 1}}
		],
		"weights": {"rule_bonus": 0.1, "rule_penalty": 0.05}
	}`)

	set, err := ReadRuleSet(path)
	if err != nil {
		t.Fatalf("ReadRuleSet failed: %v", err)
	}
	if len(set.Rules) != 1 {
		t.Fatalf("Expected 1 rule, got %d", len(set.Rules))
	}
	if set.Rules[0].Action.CoaType != coa.TypeDefense || set.Rules[0].Action.Priority != 1 {
		t.Errorf("Action wrong: %+v", set.Rules[0].Action)
	}
	if set.Weights["rule_bonus"] != 0.1 {
		t.Errorf("Weights not loaded: %v", set.Weights)
	}
}

func TestReadRuleSet_MalformedFile(t *testing.T) {
	path := writeFile(t, "rules.json", `{"rules": [`)
	if _, err := ReadRuleSet(path); err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestLoadRuleEngine_DegradesOnBadFile(t *testing.T) {
	path := writeFile(t, "rules.json", `not json`)
	engine := LoadRuleEngine(path)
	if engine.RuleCount() != 0 {
		t.Errorf("Degraded engine should carry no rules, got %d", engine.RuleCount())
	}
}

func TestLoadRuleEngine_EmptyPathUsesDefaults(t *testing.T) {
	engine := LoadRuleEngine("")
	if engine.RuleCount() != len(rules.DefaultRuleSet().Rules) {
		t.Errorf("Expected built-in rules, got %d", engine.RuleCount())
	}
}
