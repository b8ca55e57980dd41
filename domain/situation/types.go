package situation

import (
	"fmt"
	"strings"

	"coarank/domain/core"
)

// ThreatType classifies the dominant threat described by a situation.
type ThreatType string

const (
	ThreatArmoredAssault  ThreatType = "ArmoredAssault"
	ThreatArtilleryStrike ThreatType = "ArtilleryStrike"
	ThreatMissileThreat   ThreatType = "MissileThreat"
	ThreatInfiltration    ThreatType = "Infiltration"
	ThreatAirThreat       ThreatType = "AirThreat"
	ThreatAmphibious      ThreatType = "Amphibious"
	ThreatCyberAttack     ThreatType = "CyberAttack"
	ThreatProvocation     ThreatType = "Provocation"
)

func (t ThreatType) String() string { return string(t) }

// AxisStatus describes activity on one avenue of approach.
type AxisStatus string

const (
	AxisQuiet      AxisStatus = "quiet"
	AxisContested  AxisStatus = "contested"
	AxisPenetrated AxisStatus = "penetrated"
)

// AxisState is the reported state of a single operational axis.
type AxisState struct {
	Axis   string     `json:"axis"`
	Status AxisStatus `json:"status"`
}

// MissionProfile summarizes the friendly mission the COAs must serve.
type MissionProfile struct {
	Summary       string   `json:"summary"`
	ObjectiveTags []string `json:"objective_tags"`
}

// Constraint limits which COAs are acceptable. MaxDurationHours of zero means
// no duration ceiling was stated.
type Constraint struct {
	ID               string  `json:"id"`
	Scope            string  `json:"scope"`
	TimeCritical     bool    `json:"time_critical"`
	MaxDurationHours float64 `json:"max_duration_hours,omitempty"`
}

// CivilianArea is a populated area whose covered terrain cells may overlap a
// COA's impact footprint.
type CivilianArea struct {
	ID                 core.AreaID          `json:"id"`
	ProtectionPriority float64              `json:"protection_priority"`
	PopulationDensity  float64              `json:"population_density"`
	CoveredCellIDs     map[core.CellID]bool `json:"covered_cell_ids"`
}

// CoversAny reports whether the area covers any cell in the given footprint.
func (a *CivilianArea) CoversAny(cells map[core.CellID]bool) bool {
	// Iterate the smaller set
	small, large := a.CoveredCellIDs, cells
	if len(large) < len(small) {
		small, large = large, small
	}
	for cell := range small {
		if large[cell] {
			return true
		}
	}
	return false
}

// Context is the validated situation record the scoring core consumes.
// Everything is plain typed data; collaborators that build it from the
// knowledge graph or operator input validate it once at the boundary.
type Context struct {
	ThreatLevel        float64        `json:"threat_level"`
	DominantThreat     ThreatType     `json:"dominant_threat"`
	EnemyForceRatio    float64        `json:"enemy_force_ratio"` // friendly:enemy, 1.0 = parity
	Mission            MissionProfile `json:"mission"`
	AxisStates         []AxisState    `json:"axis_states,omitempty"`
	AvailableResources []string       `json:"available_resources"`
	TerrainTags        []string       `json:"terrain_tags,omitempty"`
	Constraints        []Constraint   `json:"constraints,omitempty"`
	CivilianAreas      []CivilianArea `json:"civilian_areas,omitempty"`
}

// Validate checks boundary invariants before the context enters the core.
func (c *Context) Validate() error {
	if c == nil {
		return core.ErrMissingSituation
	}
	if c.ThreatLevel < 0 || c.ThreatLevel > 1 {
		return core.NewValidationError("threat_level", fmt.Sprintf("%.3f outside [0,1]", c.ThreatLevel))
	}
	if c.EnemyForceRatio < 0 {
		return core.NewValidationError("enemy_force_ratio", "must be non-negative")
	}
	for _, area := range c.CivilianAreas {
		if area.ProtectionPriority < 0 || area.ProtectionPriority > 1 {
			return core.NewValidationError("civilian_areas",
				fmt.Sprintf("area %s protection priority %.3f outside [0,1]", area.ID, area.ProtectionPriority))
		}
	}
	return nil
}

// TimeConstraint returns the strictest time constraint, if any. When several
// constraints carry a duration ceiling the lowest ceiling wins; a time-critical
// constraint dominates a non-critical one.
func (c *Context) TimeConstraint() (Constraint, bool) {
	var best Constraint
	found := false
	for _, con := range c.Constraints {
		if con.MaxDurationHours <= 0 && !con.TimeCritical {
			continue
		}
		if !found {
			best = con
			found = true
			continue
		}
		if con.TimeCritical && !best.TimeCritical {
			best = con
			continue
		}
		if con.TimeCritical == best.TimeCritical &&
			con.MaxDurationHours > 0 &&
			(best.MaxDurationHours <= 0 || con.MaxDurationHours < best.MaxDurationHours) {
			best = con
		}
	}
	return best, found
}

// HasResource reports whether the named resource is available, matched
// case-insensitively after trimming.
func (c *Context) HasResource(name string) bool {
	for _, res := range c.AvailableResources {
		if strings.EqualFold(strings.TrimSpace(res), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
