// Package resources parses free-text resource-priority strings into weighted
// requirement lists and computes requirement-vs-availability match scores.
package resources

import (
	"fmt"
	"strings"

	"coarank/domain/coa"
	"coarank/domain/core"
)

// UnknownAvailabilityScore is returned by MatchScore when requirements exist
// but the available-resource list is empty. Missing telemetry is treated as
// "unknown", not "zero match", so a COA is not eliminated by a reporting gap.
const UnknownAvailabilityScore = 0.2

// tierLabels maps raw tier labels (Korean doctrine labels and their English
// equivalents) to priority tiers. Matching is case-insensitive for the
// English labels.
var tierLabels = map[string]coa.PriorityTier{
	"필수":          coa.TierRequired,
	"required":    coa.TierRequired,
	"권장":          coa.TierRecommended,
	"recommended": coa.TierRecommended,
	"선택":          coa.TierOptional,
	"optional":    coa.TierOptional,
}

// Parser converts raw priority strings into structured requirements. It holds
// no mutable state; one Parser can serve concurrent scoring runs.
type Parser struct{}

// NewParser creates a resource priority parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse splits a raw string of the form "name(tier), name(tier), ..." into
// requirements. Malformed tokens are skipped individually and reported as
// warnings; Parse never fails and always returns whatever parsed cleanly.
func (p *Parser) Parse(raw string) ([]coa.ResourceRequirement, []string) {
	var reqs []coa.ResourceRequirement
	var warnings []string

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		open := strings.Index(token, "(")
		close := strings.LastIndex(token, ")")
		if open <= 0 || close <= open {
			warnings = append(warnings, fmt.Sprintf("%s: %q", core.WarnMalformedToken, token))
			continue
		}

		name := strings.TrimSpace(token[:open])
		label := strings.TrimSpace(token[open+1 : close])
		tier, ok := lookupTier(label)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: %q in token %q", core.WarnUnknownTier, label, token))
			continue
		}

		reqs = append(reqs, coa.ResourceRequirement{
			Resource: name,
			Tier:     tier,
			Weight:   tier.Weight(),
		})
	}
	return reqs, warnings
}

func lookupTier(label string) (coa.PriorityTier, bool) {
	if tier, ok := tierLabels[label]; ok {
		return tier, true
	}
	tier, ok := tierLabels[strings.ToLower(label)]
	return tier, ok
}

// MatchScore computes Σ(weight of satisfied requirements) / Σ(weight of all
// requirements). Weights come from the requirement tiers, never from the
// stored Weight field, so an unset field cannot soften a required entry.
// An empty requirement list means no constraint and scores 1.0. A non-empty
// requirement list against an empty availability list scores
// UnknownAvailabilityScore with a warning.
func (p *Parser) MatchScore(required []coa.ResourceRequirement, available []string) (float64, []string) {
	if len(required) == 0 {
		return 1.0, nil
	}
	if len(available) == 0 {
		return UnknownAvailabilityScore, []string{core.WarnNoResourceData}
	}

	availSet := make(map[string]bool, len(available))
	for _, name := range available {
		availSet[normalize(name)] = true
	}

	var matched, total float64
	for _, req := range required {
		weight := req.Tier.Weight()
		total += weight
		if availSet[normalize(req.Resource)] {
			matched += weight
		}
	}
	if total == 0 {
		return 1.0, nil
	}
	return matched / total, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
