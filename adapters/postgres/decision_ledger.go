// Package postgres persists finished ranking runs as an append-only audit
// trail. Schema:
//
//	CREATE TABLE ranking_runs (
//	    id              TEXT PRIMARY KEY,
//	    context_digest  TEXT NOT NULL,
//	    top_coa_id      TEXT NOT NULL,
//	    top_score       DOUBLE PRECISION NOT NULL,
//	    candidate_count INTEGER NOT NULL,
//	    payload         JSONB NOT NULL,
//	    created_at      TIMESTAMPTZ NOT NULL
//	);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"coarank/domain/core"
	"coarank/domain/decision"
	"coarank/ports"
)

// DecisionLedgerImpl implements ports.DecisionLedger for PostgreSQL.
type DecisionLedgerImpl struct {
	db *sqlx.DB
}

// NewDecisionLedger creates a new PostgreSQL decision ledger.
func NewDecisionLedger(db *sqlx.DB) ports.DecisionLedger {
	return &DecisionLedgerImpl{db: db}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

// SaveRun stores a finished run. Runs are immutable; a duplicate id is an error.
func (l *DecisionLedgerImpl) SaveRun(ctx context.Context, result *decision.RankingResult, contextDigest string) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling ranking result: %w", err)
	}

	top, ok := result.Top()
	if !ok {
		return fmt.Errorf("refusing to store run %s with empty ranking", result.RunID)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO ranking_runs (id, context_digest, top_coa_id, top_score, candidate_count, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, result.RunID.String(), contextDigest, top.Breakdown.CoaID.String(), top.Breakdown.Total,
		len(result.Ranked), payload, result.CreatedAt)
	return err
}

// GetRun retrieves a stored run by id.
func (l *DecisionLedgerImpl) GetRun(ctx context.Context, runID core.RunID) (*decision.RankingResult, error) {
	var payload []byte
	err := l.db.GetContext(ctx, &payload, `
		SELECT payload FROM ranking_runs WHERE id = $1
	`, runID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	var result decision.RankingResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling stored run %s: %w", runID, err)
	}
	return &result, nil
}

// ListRuns returns the most recent run summaries.
func (l *DecisionLedgerImpl) ListRuns(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows := []struct {
		ID           string       `db:"id"`
		TopCoaID     string       `db:"top_coa_id"`
		TopScore     float64      `db:"top_score"`
		CandidateCnt int          `db:"candidate_count"`
		CreatedAt    sql.NullTime `db:"created_at"`
	}{}
	err := l.db.SelectContext(ctx, &rows, `
		SELECT id, top_coa_id, top_score, candidate_count, created_at
		FROM ranking_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.RunSummary, len(rows))
	for i, row := range rows {
		summaries[i] = ports.RunSummary{
			RunID:        core.RunID(row.ID),
			TopCoaID:     core.CoaID(row.TopCoaID),
			TopScore:     row.TopScore,
			CandidateCnt: row.CandidateCnt,
			CreatedAt:    row.CreatedAt.Time,
		}
	}
	return summaries, nil
}
