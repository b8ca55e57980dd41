// Package memory provides an in-memory decision ledger for tests and the CLI.
package memory

import (
	"context"
	"sort"
	"sync"

	"coarank/domain/core"
	"coarank/domain/decision"
	"coarank/ports"
)

// DecisionLedger is a threadsafe in-memory ports.DecisionLedger.
type DecisionLedger struct {
	mu   sync.RWMutex
	runs map[core.RunID]*decision.RankingResult
}

// NewDecisionLedger creates an empty in-memory ledger.
func NewDecisionLedger() *DecisionLedger {
	return &DecisionLedger{runs: make(map[core.RunID]*decision.RankingResult)}
}

// SaveRun stores a copy of the result keyed by run id.
func (l *DecisionLedger) SaveRun(_ context.Context, result *decision.RankingResult, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored := *result
	stored.Ranked = append([]decision.RankedCoa(nil), result.Ranked...)
	l.runs[result.RunID] = &stored
	return nil
}

// GetRun retrieves a stored run by id.
func (l *DecisionLedger) GetRun(_ context.Context, runID core.RunID) (*decision.RankingResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result, ok := l.runs[runID]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return result, nil
}

// ListRuns returns run summaries, most recent first.
func (l *DecisionLedger) ListRuns(_ context.Context, limit int) ([]ports.RunSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summaries := make([]ports.RunSummary, 0, len(l.runs))
	for _, result := range l.runs {
		top, ok := result.Top()
		if !ok {
			continue
		}
		summaries = append(summaries, ports.RunSummary{
			RunID:        result.RunID,
			TopCoaID:     top.Breakdown.CoaID,
			TopScore:     top.Breakdown.Total,
			CandidateCnt: len(result.Ranked),
			CreatedAt:    result.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
		}
		return summaries[i].RunID < summaries[j].RunID
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
