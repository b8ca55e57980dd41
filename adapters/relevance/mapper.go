// Package relevance provides the static (coaType, threatType) → base relevance
// lookup used as the threat-response factor of COA scoring.
package relevance

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"coarank/domain/coa"
	"coarank/domain/core"
	"coarank/domain/situation"
	"coarank/ports"
)

// DefaultRelevance is substituted for pairs absent from the loaded table.
// Missing mappings are a data gap, not an error: the pair is scored neutrally
// and reported in the breakdown's warnings.
const DefaultRelevance = 0.5

// Mapping is one row of the relevance table.
type Mapping struct {
	CoaType     coa.CoaType          `json:"coa_type"`
	ThreatType  situation.ThreatType `json:"threat_type"`
	Relevance   float64              `json:"relevance"`
	Description string               `json:"description,omitempty"`
}

type pairKey struct {
	coaType coa.CoaType
	threat  situation.ThreatType
}

// Mapper is an immutable relevance lookup table. Construct once per snapshot;
// reloads build a new Mapper rather than mutating an existing one, so readers
// never observe a partially updated table.
type Mapper struct {
	table map[pairKey]float64
	stats ports.RelevanceStats
}

// NewMapper builds a mapper from table rows. Rows with relevance outside [0,1]
// are rejected; duplicates keep the last row. An empty or nil row set yields a
// mapper that answers every pair with DefaultRelevance.
func NewMapper(rows []Mapping) (*Mapper, error) {
	table := make(map[pairKey]float64, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Relevance < 0 || row.Relevance > 1 {
			return nil, core.NewConfigError("relevance table",
				fmt.Errorf("relevance %.3f for (%s, %s) outside [0,1]", row.Relevance, row.CoaType, row.ThreatType))
		}
		if !row.CoaType.IsValid() {
			return nil, core.NewConfigError("relevance table",
				fmt.Errorf("unknown coa type %q", row.CoaType))
		}
		table[pairKey{row.CoaType, row.ThreatType}] = row.Relevance
	}
	for _, v := range table {
		values = append(values, v)
	}

	avg := 0.0
	if len(values) > 0 {
		avg, _ = stats.Mean(values)
	}
	return &Mapper{
		table: table,
		stats: ports.RelevanceStats{TotalMappings: len(table), AvgRelevance: avg},
	}, nil
}

// NewDefaultMapper builds a mapper over the built-in doctrine table. The
// built-in rows are known-valid, so construction cannot fail.
func NewDefaultMapper() *Mapper {
	m, err := NewMapper(DefaultTable())
	if err != nil {
		panic(fmt.Sprintf("built-in relevance table invalid: %v", err))
	}
	return m
}

// Relevance looks up the base relevance for the pair. Unmapped pairs return
// DefaultRelevance plus a warning; the lookup never fails.
func (m *Mapper) Relevance(coaType coa.CoaType, threat situation.ThreatType) (float64, []string) {
	if v, ok := m.table[pairKey{coaType, threat}]; ok {
		return v, nil
	}
	return DefaultRelevance, []string{
		fmt.Sprintf("%s: (%s, %s)", core.WarnUnmappedRelevance, coaType, threat),
	}
}

// Stats reports table-level counters for observability.
func (m *Mapper) Stats() ports.RelevanceStats {
	return m.stats
}
