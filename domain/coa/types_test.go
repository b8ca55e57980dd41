package coa

import (
	"errors"
	"testing"

	"coarank/domain/core"
)

func TestParseType(t *testing.T) {
	typ, err := ParseType("defense")
	if err != nil || typ != TypeDefense {
		t.Errorf("Expected Defense for case-insensitive parse, got %v %v", typ, err)
	}
	if _, err := ParseType("Blockade"); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestPriorityTier_Weights(t *testing.T) {
	tests := []struct {
		tier   PriorityTier
		weight float64
	}{
		{TierRequired, 1.0},
		{TierRecommended, 0.6},
		{TierOptional, 0.3},
		{PriorityTier("bogus"), 0.0},
	}
	for _, tc := range tests {
		if got := tc.tier.Weight(); got != tc.weight {
			t.Errorf("%s weight: expected %f, got %f", tc.tier, tc.weight, got)
		}
	}
}

func TestCoa_Validate(t *testing.T) {
	valid := Coa{ID: "coa-1", Type: TypeDefense}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid coa rejected: %v", err)
	}

	missing := Coa{Type: TypeDefense}
	if err := missing.Validate(); !errors.Is(err, core.ErrMissingCoaID) {
		t.Errorf("Expected ErrMissingCoaID, got %v", err)
	}

	badType := Coa{ID: "coa-1", Type: CoaType("Blockade")}
	if err := badType.Validate(); err == nil {
		t.Error("Expected error for unknown type")
	}

	negative := Coa{ID: "coa-1", Type: TypeDefense, EstimatedDurationHours: -1}
	if err := negative.Validate(); err == nil {
		t.Error("Expected error for negative duration")
	}

	badTier := Coa{ID: "coa-1", Type: TypeDefense, RequiredResources: []ResourceRequirement{
		{Resource: "포병대대", Tier: PriorityTier("핵심")},
	}}
	if err := badTier.Validate(); err == nil {
		t.Error("Expected error for unknown priority tier")
	}

	noName := Coa{ID: "coa-1", Type: TypeDefense, RequiredAssets: []ResourceRequirement{
		{Resource: "  ", Tier: TierRequired},
	}}
	if err := noName.Validate(); err == nil {
		t.Error("Expected error for requirement with empty resource name")
	}
}

func TestCoa_ImpactsCell(t *testing.T) {
	c := Coa{ID: "coa-1", Type: TypeDefense,
		ImpactTerrainCellIDs: map[core.CellID]bool{"cell-1": true}}
	if !c.ImpactsCell("cell-1") {
		t.Error("Expected cell-1 impacted")
	}
	if c.ImpactsCell("cell-2") {
		t.Error("cell-2 should not be impacted")
	}

	empty := Coa{ID: "coa-2", Type: TypeDefense}
	if empty.ImpactsCell("cell-1") {
		t.Error("Nil footprint should impact nothing")
	}
}
