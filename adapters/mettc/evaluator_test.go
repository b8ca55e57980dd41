package mettc

import (
	"math"
	"testing"

	"coarank/adapters/resources"
	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/situation"
)

func newTestEvaluator() *Evaluator {
	return NewDefaultEvaluator(resources.NewParser())
}

func baseCoa() *coa.Coa {
	return &coa.Coa{
		ID:                     "coa-test",
		Type:                   coa.TypeDefense,
		PurposeTags:            []string{"hold-terrain", "protect-force"},
		EstimatedDurationHours: 12,
	}
}

func baseContext() *situation.Context {
	return &situation.Context{
		ThreatLevel:     0.5,
		EnemyForceRatio: 1.0,
		Mission: situation.MissionProfile{
			ObjectiveTags: []string{"hold-terrain", "protect-force"},
		},
		AvailableResources: []string{"포병대대"},
	}
}

func TestEvaluate_AllScoresInUnitInterval(t *testing.T) {
	e := newTestEvaluator()
	scores, _ := e.Evaluate(baseCoa(), baseContext())

	for name, v := range map[string]float64{
		"mission":  scores.Mission,
		"enemy":    scores.Enemy,
		"terrain":  scores.Terrain,
		"troops":   scores.Troops,
		"civilian": scores.Civilian,
		"time":     scores.Time,
		"total":    scores.Total,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s score %f outside [0,1]", name, v)
		}
	}
}

func TestMissionScore_IntersectionRatio(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	c.PurposeTags = []string{"hold-terrain"}
	sit := baseContext()
	sit.Mission.ObjectiveTags = []string{"hold-terrain", "protect-force"}

	scores, _ := e.Evaluate(c, sit)
	if scores.Mission != 0.5 {
		t.Errorf("Expected mission 0.5 for 1-of-2 objectives covered, got %f", scores.Mission)
	}
}

func TestMissionScore_MissingTagsDataGap(t *testing.T) {
	e := newTestEvaluator()
	sit := baseContext()
	sit.Mission.ObjectiveTags = nil

	scores, warnings := e.Evaluate(baseCoa(), sit)
	if scores.Mission != missionDataGapScore {
		t.Errorf("Expected fallback %f, got %f", missionDataGapScore, scores.Mission)
	}
	found := false
	for _, w := range warnings {
		if w == core.WarnNoMissionTags {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %q warning, got %v", core.WarnNoMissionTags, warnings)
	}
}

func TestEnemyScore_MonotonicInThreatAndRatio(t *testing.T) {
	e := newTestEvaluator()

	low := baseContext()
	low.ThreatLevel = 0.2
	low.EnemyForceRatio = 2.0
	high := baseContext()
	high.ThreatLevel = 0.9
	high.EnemyForceRatio = 0.5

	lowScores, _ := e.Evaluate(baseCoa(), low)
	highScores, _ := e.Evaluate(baseCoa(), high)
	if lowScores.Enemy <= highScores.Enemy {
		t.Errorf("Favorable situation should score higher: %f vs %f", lowScores.Enemy, highScores.Enemy)
	}
}

func TestTerrainScore_TagAdjustments(t *testing.T) {
	e := newTestEvaluator()
	sit := baseContext()
	sit.TerrainTags = []string{"mountain", "urban"}

	c := baseCoa()
	c.CompatibleTerrain = []string{"mountain"}
	scores, _ := e.Evaluate(c, sit)
	if math.Abs(scores.Terrain-0.65) > 1e-9 {
		t.Errorf("One compatible tag should yield 0.65, got %f", scores.Terrain)
	}

	c.IncompatibleTerrain = []string{"urban", "mountain"}
	scores, _ = e.Evaluate(c, sit)
	// 0.5 + 0.15 - 0.15 - 0.15
	if math.Abs(scores.Terrain-0.35) > 1e-9 {
		t.Errorf("Expected 0.35 after incompatible tags, got %f", scores.Terrain)
	}

	// Tags absent from the context do not move the score.
	c2 := baseCoa()
	c2.CompatibleTerrain = []string{"coastal"}
	scores, _ = e.Evaluate(c2, sit)
	if scores.Terrain != 0.5 {
		t.Errorf("Absent tags must not adjust, got %f", scores.Terrain)
	}
}

func TestCivilianScore_HighPriorityOverlapPenalty(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	c.ImpactTerrainCellIDs = map[core.CellID]bool{"cell-7": true, "cell-8": true}

	sit := baseContext()
	sit.CivilianAreas = []situation.CivilianArea{
		{
			ID:                 "area-1",
			ProtectionPriority: 0.8,
			PopulationDensity:  8000,
			CoveredCellIDs:     map[core.CellID]bool{"cell-7": true},
		},
	}

	scores, _ := e.Evaluate(c, sit)
	// density factor saturates at 1.0: 1 - 0.8*1.0
	if math.Abs(scores.Civilian-0.2) > 1e-9 {
		t.Errorf("Expected 0.2 penalty result, got %f", scores.Civilian)
	}
	if scores.Civilian >= 0.3 {
		t.Errorf("High-priority overlap must score below the 0.3 exclusion threshold, got %f", scores.Civilian)
	}
}

func TestCivilianScore_NoOverlapNoPenalty(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	c.ImpactTerrainCellIDs = map[core.CellID]bool{"cell-1": true}

	sit := baseContext()
	sit.CivilianAreas = []situation.CivilianArea{
		{ID: "area-1", ProtectionPriority: 0.9, PopulationDensity: 9000,
			CoveredCellIDs: map[core.CellID]bool{"cell-99": true}},
	}

	scores, _ := e.Evaluate(c, sit)
	if scores.Civilian != 1.0 {
		t.Errorf("No overlap should keep civilian at 1.0, got %f", scores.Civilian)
	}
}

func TestCivilianScore_NoAreasIsDataGap(t *testing.T) {
	e := newTestEvaluator()
	scores, warnings := e.Evaluate(baseCoa(), baseContext())
	if scores.Civilian != 1.0 {
		t.Errorf("No civilian data should score 1.0, got %f", scores.Civilian)
	}
	found := false
	for _, w := range warnings {
		if w == core.WarnNoCivilianData {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %q warning, got %v", core.WarnNoCivilianData, warnings)
	}
}

func TestTimeScore_HardViolation(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	c.EstimatedDurationHours = 30

	sit := baseContext()
	sit.Constraints = []situation.Constraint{
		{ID: "c-1", TimeCritical: true, MaxDurationHours: 20},
	}

	scores, _ := e.Evaluate(c, sit)
	if scores.Time != 0.0 {
		t.Errorf("Time-critical overrun must score 0.0, got %f", scores.Time)
	}
}

func TestTimeScore_SoftOverrun(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	c.EstimatedDurationHours = 25

	sit := baseContext()
	sit.Constraints = []situation.Constraint{
		{ID: "c-1", TimeCritical: false, MaxDurationHours: 20},
	}

	scores, _ := e.Evaluate(c, sit)
	// overrun ratio 0.25
	if math.Abs(scores.Time-0.75) > 1e-9 {
		t.Errorf("Expected 0.75 for 25%% overrun, got %f", scores.Time)
	}
}

func TestTimeScore_WithinBudget(t *testing.T) {
	e := newTestEvaluator()
	sit := baseContext()
	sit.Constraints = []situation.Constraint{
		{ID: "c-1", TimeCritical: true, MaxDurationHours: 20},
	}

	scores, _ := e.Evaluate(baseCoa(), sit) // 12h estimate
	if scores.Time != 1.0 {
		t.Errorf("Within budget should score 1.0, got %f", scores.Time)
	}
}

func TestWeights_Validate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("Default weights should validate: %v", err)
	}

	bad := DefaultWeights()
	bad.Mission = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("Expected validation failure for weights not summing to 1.0")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEvaluator()
	c := baseCoa()
	sit := baseContext()

	first, _ := e.Evaluate(c, sit)
	second, _ := e.Evaluate(c, sit)
	if first != second {
		t.Errorf("Repeated evaluation must be bit-identical: %+v vs %+v", first, second)
	}
}
