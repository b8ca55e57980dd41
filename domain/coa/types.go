package coa

import (
	"fmt"
	"strings"

	"coarank/domain/core"
)

// CoaType classifies a course of action by its operational posture.
type CoaType string

const (
	TypeDefense        CoaType = "Defense"
	TypeOffensive      CoaType = "Offensive"
	TypeCounterAttack  CoaType = "CounterAttack"
	TypeManeuver       CoaType = "Maneuver"
	TypeDeterrence     CoaType = "Deterrence"
	TypePreemptive     CoaType = "Preemptive"
	TypeInformationOps CoaType = "InformationOps"
)

// AllTypes lists every known COA type in a fixed order.
var AllTypes = []CoaType{
	TypeDefense,
	TypeOffensive,
	TypeCounterAttack,
	TypeManeuver,
	TypeDeterrence,
	TypePreemptive,
	TypeInformationOps,
}

// ParseType parses a string into a CoaType
func ParseType(s string) (CoaType, error) {
	for _, t := range AllTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown coa type: %q", s)
}

// IsValid reports whether the type is one of the known COA types.
func (t CoaType) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t CoaType) String() string { return string(t) }

// PriorityTier classifies a resource requirement by how critical it is.
type PriorityTier string

const (
	TierRequired    PriorityTier = "Required"
	TierRecommended PriorityTier = "Recommended"
	TierOptional    PriorityTier = "Optional"
)

// IsValid reports whether the tier is one of the known priority tiers.
func (t PriorityTier) IsValid() bool {
	switch t {
	case TierRequired, TierRecommended, TierOptional:
		return true
	}
	return false
}

// Weight returns the fixed weight carried by each tier.
func (t PriorityTier) Weight() float64 {
	switch t {
	case TierRequired:
		return 1.0
	case TierRecommended:
		return 0.6
	case TierOptional:
		return 0.3
	default:
		return 0.0
	}
}

// ResourceRequirement is one parsed entry of a COA's resource-priority string.
// Weight always equals Tier.Weight(); match scoring derives it from the tier,
// so a caller-supplied value carries no authority.
type ResourceRequirement struct {
	Resource string       `json:"resource"`
	Tier     PriorityTier `json:"tier"`
	Weight   float64      `json:"weight"`
}

// Coa is a candidate course of action. Instances are produced by the external
// candidate generator and are immutable once handed to the scoring core.
type Coa struct {
	ID                     core.CoaID            `json:"id"`
	Type                   CoaType               `json:"type"`
	Name                   string                `json:"name"`
	Description            string                `json:"description"`
	PurposeTags            []string              `json:"purpose_tags"`
	RequiredResources      []ResourceRequirement `json:"required_resources"`
	RequiredAssets         []ResourceRequirement `json:"required_assets,omitempty"`
	CompatibleTerrain      []string              `json:"compatible_terrain,omitempty"`
	IncompatibleTerrain    []string              `json:"incompatible_terrain,omitempty"`
	ImpactTerrainCellIDs   map[core.CellID]bool  `json:"impact_terrain_cell_ids"`
	EstimatedDurationHours float64               `json:"estimated_duration_hours"`
	CombatPower            float64               `json:"combat_power"`
	Mobility               float64               `json:"mobility"`
	ConstraintTolerance    float64               `json:"constraint_tolerance"`
}

// Validate checks the invariants the scoring core assumes. Candidates failing
// this are rejected at the boundary and never reach the pipeline.
func (c *Coa) Validate() error {
	if strings.TrimSpace(c.ID.String()) == "" {
		return core.ErrMissingCoaID
	}
	if !c.Type.IsValid() {
		return core.NewValidationError("type", fmt.Sprintf("unknown coa type %q", c.Type))
	}
	if c.EstimatedDurationHours < 0 {
		return core.NewValidationError("estimated_duration_hours", "must be non-negative")
	}
	if err := validateRequirements("required_resources", c.RequiredResources); err != nil {
		return err
	}
	if err := validateRequirements("required_assets", c.RequiredAssets); err != nil {
		return err
	}
	return nil
}

func validateRequirements(field string, reqs []ResourceRequirement) error {
	for _, req := range reqs {
		if strings.TrimSpace(req.Resource) == "" {
			return core.NewValidationError(field, "requirement with empty resource name")
		}
		if !req.Tier.IsValid() {
			return core.NewValidationError(field,
				fmt.Sprintf("unknown priority tier %q for %s", req.Tier, req.Resource))
		}
	}
	return nil
}

// ImpactsCell reports whether the COA's impact footprint covers the cell.
func (c *Coa) ImpactsCell(cell core.CellID) bool {
	return c.ImpactTerrainCellIDs[cell]
}
