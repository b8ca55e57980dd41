package ports

import (
	"context"

	"coarank/domain/coa"
	"coarank/domain/decision"
	"coarank/domain/situation"
)

// Ranker runs the full two-pass decision protocol over a candidate list.
// Implemented by app.DecisionPipeline; consumed by the API and CLI surfaces.
type Ranker interface {
	Rank(ctx context.Context, candidates []coa.Coa, sit *situation.Context) (*decision.RankingResult, error)
}

// RelevanceStats exposes observability counters for the loaded relevance table.
type RelevanceStats struct {
	TotalMappings int     `json:"total_mappings"`
	AvgRelevance  float64 `json:"avg_relevance"`
}

// RelevanceSource maps (coaType, threatType) pairs to a base relevance in [0,1].
// Implementations are immutable after load and safe for concurrent reads.
type RelevanceSource interface {
	Relevance(coaType coa.CoaType, threat situation.ThreatType) (float64, []string)
	Stats() RelevanceStats
}
