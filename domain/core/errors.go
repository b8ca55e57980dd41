package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: malformed rule/relevance sources. Callers degrade
	// to defaults and surface a warning, never abort a scoring run.
	ErrConfiguration    = errors.New("configuration error")
	ErrRuleFileInvalid  = fmt.Errorf("%w: rule file", ErrConfiguration)
	ErrRelevanceInvalid = fmt.Errorf("%w: relevance table", ErrConfiguration)

	// Data-gap errors: missing mappings or context data. Substituted with
	// documented fallback constants plus a warning.
	ErrDataGap           = errors.New("data gap")
	ErrUnmappedRelevance = fmt.Errorf("%w: unmapped relevance pair", ErrDataGap)
	ErrNoResourceData    = fmt.Errorf("%w: available resources unknown", ErrDataGap)

	// Fatal input errors: rejected at the boundary, never inside the core.
	ErrMissingCoaID     = errors.New("coa record missing identifier")
	ErrEmptyCandidates  = errors.New("candidate list is empty")
	ErrMissingSituation = errors.New("situation context is required")

	// Ledger errors
	ErrRunNotFound = errors.New("ranking run not found")
)

// Warning codes attached to score breakdowns. Kept as stable strings so the
// dashboard and audit trail can match on them.
const (
	WarnUnmappedRelevance = "unmapped relevance pair"
	WarnMalformedToken    = "malformed resource token"
	WarnUnknownTier       = "unknown priority tier"
	WarnNoResourceData    = "available resources unknown"
	WarnNoRuleMatch       = "no rule matched context"
	WarnRuleFileMissing   = "rule file unavailable, no adjustment applied"
	WarnNoMissionTags     = "mission objective tags missing"
	WarnNoCivilianData    = "no civilian area data"
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewConfigError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfiguration, source, err)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDataGapError(err error) bool {
	return errors.Is(err, ErrDataGap)
}

func IsFatalInputError(err error) bool {
	return errors.Is(err, ErrMissingCoaID) ||
		errors.Is(err, ErrEmptyCandidates) ||
		errors.Is(err, ErrMissingSituation)
}
