package ingest

import (
	"encoding/json"
	"fmt"

	"coarank/adapters/resources"
	"coarank/domain/coa"
	"coarank/domain/core"
)

// candidateRecord is the wire shape of one candidate COA. Resource needs
// arrive either as a structured required_resources list or as a raw priority
// string ("포병대대(필수), 공격헬기(권장)"); the raw form is parsed here so the
// scoring core only ever sees tier-derived weights.
type candidateRecord struct {
	coa.Coa
	ResourcePriorities string `json:"resource_priorities,omitempty"`
	AssetPriorities    string `json:"asset_priorities,omitempty"`
}

// DecodeCandidates parses candidate COA records from JSON. Malformed tokens
// inside raw priority strings are skipped individually; the returned warnings
// name each skipped token and the candidate carrying it. Structured
// requirement lists get their weights restored from the tier regardless of
// what the caller supplied.
func DecodeCandidates(data []byte, parser *resources.Parser) ([]coa.Coa, []string, error) {
	if len(data) == 0 {
		return nil, nil, nil
	}

	var records []candidateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("decoding candidates: %w", err)
	}

	candidates := make([]coa.Coa, 0, len(records))
	var warnings []string
	for _, rec := range records {
		c := rec.Coa
		if len(c.RequiredResources) == 0 && rec.ResourcePriorities != "" {
			reqs, w := parser.Parse(rec.ResourcePriorities)
			c.RequiredResources = reqs
			warnings = append(warnings, prefixWarnings(c.ID, w)...)
		}
		if len(c.RequiredAssets) == 0 && rec.AssetPriorities != "" {
			reqs, w := parser.Parse(rec.AssetPriorities)
			c.RequiredAssets = reqs
			warnings = append(warnings, prefixWarnings(c.ID, w)...)
		}
		normalizeWeights(c.RequiredResources)
		normalizeWeights(c.RequiredAssets)
		candidates = append(candidates, c)
	}
	return candidates, warnings, nil
}

func normalizeWeights(reqs []coa.ResourceRequirement) {
	for i := range reqs {
		reqs[i].Weight = reqs[i].Tier.Weight()
	}
}

func prefixWarnings(id core.CoaID, warnings []string) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = fmt.Sprintf("candidate %s: %s", id, w)
	}
	return out
}
