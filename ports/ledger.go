package ports

import (
	"context"
	"time"

	"coarank/domain/core"
	"coarank/domain/decision"
)

// RunSummary is a lightweight listing record for stored ranking runs.
type RunSummary struct {
	RunID        core.RunID `json:"run_id"`
	TopCoaID     core.CoaID `json:"top_coa_id"`
	TopScore     float64    `json:"top_score"`
	CandidateCnt int        `json:"candidate_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DecisionLedger provides append-only persistence of finished ranking runs.
// The ledger is an audit trail: runs are written once after the pipeline
// reaches its terminal phase and are never updated.
type DecisionLedger interface {
	SaveRun(ctx context.Context, result *decision.RankingResult, contextDigest string) error
	GetRun(ctx context.Context, runID core.RunID) (*decision.RankingResult, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
