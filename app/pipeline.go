// Package app orchestrates the two-pass COA decision protocol: Pass 1 scores
// and ranks every candidate, Pass 2 re-evaluates the top-K with METT-C,
// applies exclusion rules, and re-ranks.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"coarank/adapters/rules"
	"coarank/adapters/scoring"
	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/decision"
	"coarank/domain/situation"
	"coarank/internal"
	"coarank/ports"
)

const (
	// DefaultTopK is how many Pass-1 leaders receive METT-C evaluation.
	DefaultTopK = 3
	// DefaultWorkers bounds Pass-1 scoring concurrency.
	DefaultWorkers = 8

	// civilianExclusionThreshold excludes a candidate whose civilian
	// sub-score falls below it.
	civilianExclusionThreshold = 0.3
)

// Option configures a DecisionPipeline.
type Option func(*DecisionPipeline)

// WithTopK overrides the Pass-2 candidate count.
func WithTopK(k int) Option {
	return func(p *DecisionPipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithWorkers overrides the Pass-1 worker bound.
func WithWorkers(n int) Option {
	return func(p *DecisionPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLedger attaches an audit ledger. Ledger failures degrade to warnings;
// they never fail a ranking run.
func WithLedger(ledger ports.DecisionLedger) Option {
	return func(p *DecisionPipeline) { p.ledger = ledger }
}

// DecisionPipeline composes the scorer, rule engine and METT-C evaluator into
// the two-pass protocol. All dependencies are immutable snapshots, so a
// pipeline is safe for concurrent Rank calls.
type DecisionPipeline struct {
	scorer    *scoring.Scorer
	ruleEng   *rules.Engine
	evaluator scoring.MettCEvaluator
	ledger    ports.DecisionLedger
	topK      int
	workers   int
	logger    *internal.Logger
}

// NewDecisionPipeline creates a pipeline over the given components.
func NewDecisionPipeline(scorer *scoring.Scorer, ruleEng *rules.Engine, evaluator scoring.MettCEvaluator, opts ...Option) *DecisionPipeline {
	p := &DecisionPipeline{
		scorer:    scorer,
		ruleEng:   ruleEng,
		evaluator: evaluator,
		topK:      DefaultTopK,
		workers:   DefaultWorkers,
		logger:    internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rank runs the full protocol. It always returns at least one ranked COA for
// a non-empty, valid candidate list; recoverable problems surface only as
// warnings on the breakdowns or the result.
func (p *DecisionPipeline) Rank(ctx context.Context, candidates []coa.Coa, sit *situation.Context) (*decision.RankingResult, error) {
	if len(candidates) == 0 {
		return nil, core.ErrEmptyCandidates
	}
	if err := sit.Validate(); err != nil {
		return nil, err
	}
	for i := range candidates {
		if err := candidates[i].Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	result := &decision.RankingResult{
		RunID:     core.RunID(core.NewID()),
		Phase:     decision.PhaseGenerated,
		CreatedAt: time.Now().UTC(),
	}

	// Pass 1: score everything, apply rule adjustment, rank.
	breakdowns, err := p.pass1(ctx, candidates, sit)
	if err != nil {
		return nil, err
	}
	result.Phase = decision.PhasePass1Scored

	// Pass 2: METT-C over the leaders, exclusion, re-rank.
	breakdowns = p.pass2(breakdowns, candidates, sit, result)
	result.Phase = decision.PhasePass2Filtered

	result.Ranked = make([]decision.RankedCoa, len(breakdowns))
	for i, b := range breakdowns {
		result.Ranked[i] = decision.RankedCoa{Rank: i + 1, Breakdown: b}
	}
	result.Phase = decision.PhaseRanked

	p.persist(ctx, result, sit)
	return result, nil
}

// pass1 scores candidates under a bounded worker pool. Results are written by
// index, so scheduling order never affects the outcome.
func (p *DecisionPipeline) pass1(ctx context.Context, candidates []coa.Coa, sit *situation.Context) ([]decision.ScoreBreakdown, error) {
	breakdowns := make([]decision.ScoreBreakdown, len(candidates))
	sem := semaphore.NewWeighted(int64(p.workers))

	for i := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(idx int) {
			defer sem.Release(1)
			breakdowns[idx] = p.scorer.Score(&candidates[idx], sit)
		}(i)
	}
	// Draining the semaphore waits for every worker.
	if err := sem.Acquire(ctx, int64(p.workers)); err != nil {
		return nil, err
	}
	sem.Release(int64(p.workers))

	breakdowns = p.ruleEng.ApplyScoring(breakdowns, sit)
	decision.SortBreakdowns(breakdowns)
	p.logPass1(breakdowns)
	return breakdowns, nil
}

// pass2 re-evaluates the top-K with METT-C, marks exclusions, and re-ranks.
// Ordering after the pass: surviving leaders by blended total, then excluded
// leaders, then the untouched Pass-1 remainder.
func (p *DecisionPipeline) pass2(breakdowns []decision.ScoreBreakdown, candidates []coa.Coa, sit *situation.Context, result *decision.RankingResult) []decision.ScoreBreakdown {
	byID := make(map[core.CoaID]*coa.Coa, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	k := p.topK
	if k > len(breakdowns) {
		k = len(breakdowns)
	}

	var survivors, excluded []decision.ScoreBreakdown
	for _, b := range breakdowns[:k] {
		merged := p.scorer.WithMettC(b, p.evaluator, byID[b.CoaID], sit)
		switch {
		case merged.MettC.Civilian < civilianExclusionThreshold:
			merged.Excluded = true
			merged.ExcludeReason = decision.ExcludeCivilianProtection
			excluded = append(excluded, merged)
		case merged.MettC.Time == 0.0:
			merged.Excluded = true
			merged.ExcludeReason = decision.ExcludeTimeConstraint
			excluded = append(excluded, merged)
		default:
			survivors = append(survivors, merged)
		}
	}

	// Fallback: never return an empty ranking. When every leader is
	// excluded, the Pass-1 leader proceeds with the filter bypassed. The
	// excluded slice still follows the Pass-1 ordering here, so its first
	// entry is that leader.
	if len(survivors) == 0 && len(excluded) > 0 {
		bypass := excluded[0]
		excluded = excluded[1:]
		p.logger.Warn("all top-%d candidates excluded, bypassing mett-c filter for %s", k, bypass.CoaID)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("mett-c filter bypassed for %s: all leading candidates excluded", bypass.CoaID))

		bypass.Excluded = false
		bypass.ExcludeReason = ""
		bypass.MettCFilterBypassed = true
		survivors = append(survivors, bypass)
	}

	decision.SortBreakdowns(survivors)
	decision.SortBreakdowns(excluded)

	ordered := make([]decision.ScoreBreakdown, 0, len(breakdowns))
	ordered = append(ordered, survivors...)
	ordered = append(ordered, excluded...)
	ordered = append(ordered, breakdowns[k:]...)
	return ordered
}

func (p *DecisionPipeline) logPass1(breakdowns []decision.ScoreBreakdown) {
	if p.logger.GetLevel() < internal.LogLevelDebug {
		return
	}
	totals := make([]float64, len(breakdowns))
	for i, b := range breakdowns {
		totals[i] = b.Total
	}
	mean, _ := stats.Mean(totals)
	stddev, _ := stats.StandardDeviation(totals)
	p.logger.Debug("pass1 complete: %d candidates, mean=%.3f stddev=%.3f leader=%s",
		len(breakdowns), mean, stddev, breakdowns[0].CoaID)
}

// persist writes the finished run to the audit ledger, degrading to a result
// warning on failure.
func (p *DecisionPipeline) persist(ctx context.Context, result *decision.RankingResult, sit *situation.Context) {
	if p.ledger == nil {
		return
	}
	digest := contextDigest(sit)
	if err := p.ledger.SaveRun(ctx, result, digest); err != nil {
		p.logger.Warn("audit ledger write failed for run %s: %v", result.RunID, err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("audit ledger write failed: %v", err))
	}
}

// contextDigest fingerprints the situation for the audit trail.
func contextDigest(sit *situation.Context) string {
	data, err := json.Marshal(sit)
	if err != nil {
		return ""
	}
	return core.NewHash(data).String()
}
