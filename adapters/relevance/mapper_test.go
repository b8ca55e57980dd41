package relevance

import (
	"strings"
	"testing"

	"coarank/domain/coa"
	"coarank/domain/situation"
)

func TestMapper_KnownPair(t *testing.T) {
	m := NewDefaultMapper()

	score, warnings := m.Relevance(coa.TypeDefense, situation.ThreatArmoredAssault)
	if score != 0.90 {
		t.Errorf("Expected 0.90 for (Defense, ArmoredAssault), got %f", score)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings for a mapped pair, got %v", warnings)
	}
}

func TestMapper_UnmappedPairReturnsDefault(t *testing.T) {
	m := NewDefaultMapper()

	score, warnings := m.Relevance(coa.TypeDefense, situation.ThreatType("UnknownThreatXYZ"))
	if score != DefaultRelevance {
		t.Errorf("Expected default %f for unmapped pair, got %f", DefaultRelevance, score)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected one warning for unmapped pair, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "unmapped relevance pair") {
		t.Errorf("Warning should name the unmapped pair condition, got %q", warnings[0])
	}
}

func TestMapper_Stats(t *testing.T) {
	rows := []Mapping{
		{coa.TypeDefense, situation.ThreatArmoredAssault, 1.0, ""},
		{coa.TypeOffensive, situation.ThreatArmoredAssault, 0.5, ""},
	}
	m, err := NewMapper(rows)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	st := m.Stats()
	if st.TotalMappings != 2 {
		t.Errorf("Expected 2 mappings, got %d", st.TotalMappings)
	}
	if st.AvgRelevance != 0.75 {
		t.Errorf("Expected avg 0.75, got %f", st.AvgRelevance)
	}
}

func TestNewMapper_RejectsOutOfRange(t *testing.T) {
	_, err := NewMapper([]Mapping{
		{coa.TypeDefense, situation.ThreatArmoredAssault, 1.5, ""},
	})
	if err == nil {
		t.Fatal("Expected error for relevance outside [0,1]")
	}
}

func TestNewMapper_EmptyTableAnswersEveryPair(t *testing.T) {
	m, err := NewMapper(nil)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	score, warnings := m.Relevance(coa.TypeManeuver, situation.ThreatCyberAttack)
	if score != DefaultRelevance || len(warnings) != 1 {
		t.Errorf("Empty table should degrade to default + warning, got %f %v", score, warnings)
	}
	if m.Stats().TotalMappings != 0 {
		t.Errorf("Expected zero mappings, got %d", m.Stats().TotalMappings)
	}
}

func TestDefaultTable_AllValuesInRange(t *testing.T) {
	for _, row := range DefaultTable() {
		if row.Relevance < 0 || row.Relevance > 1 {
			t.Errorf("Row (%s, %s) relevance %f outside [0,1]", row.CoaType, row.ThreatType, row.Relevance)
		}
		if !row.CoaType.IsValid() {
			t.Errorf("Row carries unknown coa type %q", row.CoaType)
		}
	}
}
