package report

import (
	"strings"
	"testing"
	"time"

	"coarank/domain/decision"
)

func sampleResult() *decision.RankingResult {
	return &decision.RankingResult{
		RunID:     "run-1",
		Phase:     decision.PhaseRanked,
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Warnings:  []string{"audit ledger write failed: connection refused"},
		Ranked: []decision.RankedCoa{
			{Rank: 1, Breakdown: decision.ScoreBreakdown{
				CoaID: "coa-defense", CoaType: "Defense", Total: 0.82,
				AppliedRule: "high-threat-defense",
				MettC:       &decision.MettCScores{Mission: 1, Enemy: 0.4, Terrain: 0.5, Troops: 1, Civilian: 1, Time: 1, Total: 0.81},
			}},
			{Rank: 2, Breakdown: decision.ScoreBreakdown{
				CoaID: "coa-offense", CoaType: "Offensive", Total: 0.44,
				Excluded: true, ExcludeReason: decision.ExcludeTimeConstraint,
			}},
		},
	}
}

func TestMarkdown_ContainsRankingAndWarnings(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"Decision Briefing run-1",
		"Recommended: coa-defense",
		"high-threat-defense",
		"time_constraint_violated",
		"coa-defense — METT-C",
		"audit ledger write failed",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Briefing missing %q", want)
		}
	}
}

func TestHTML_RendersTable(t *testing.T) {
	out := string(HTML(sampleResult()))
	if !strings.Contains(out, "<table>") {
		t.Errorf("Expected an HTML table, got: %.200s", out)
	}
	if !strings.Contains(out, "coa-defense") {
		t.Error("Expected candidate ids in rendered HTML")
	}
}
