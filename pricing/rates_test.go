package pricing

import (
	"testing"

	"backend/models"
)

func TestInferLaborCategory(t *testing.T) {
	tests := []struct {
		surfaceType string
		want        string
	}{
		{"Walls", CategoryWalls},
		{"Living Room Walls", CategoryWalls},
		{"Ceilings", CategoryCeilings},
		{"vaulted ceiling", CategoryCeilings},
		{"Trim", CategoryTrim},
		{"Baseboard Trim", CategoryTrim},
		{"Front Door", CategoryTrim},
		{"Window Frames", CategoryTrim},
		{"Kitchen Cabinets", CategoryCabinets},
		{"", CategoryWalls},
		{"Deck", CategoryWalls},
		// ceiling wins over trim when both keywords appear
		{"Ceiling Trim", CategoryCeilings},
	}
	for _, tt := range tests {
		if got := InferLaborCategory(tt.surfaceType); got != tt.want {
			t.Errorf("InferLaborCategory(%q) = %q, want %q", tt.surfaceType, got, tt.want)
		}
	}
}

func TestResolveLaborRate(t *testing.T) {
	rates := models.LaborRateTable{
		"interior": {
			{Category: "Walls", Rate: 0.65},
			{Category: "Ceilings", Rate: 0.85},
			{Category: "Trim", Rate: 2.25},
			{Category: "Cabinets", Rate: 45},
		},
		"exterior": {
			{Category: "Walls", Rate: 1.10},
		},
	}

	tests := []struct {
		name        string
		surfaceType string
		jobType     string
		want        float64
	}{
		{"interior walls", "Walls", "interior", 0.65},
		{"interior ceiling", "Master Bedroom Ceiling", "interior", 0.85},
		{"interior door maps to trim", "Closet Doors", "interior", 2.25},
		{"cabinets", "Kitchen Cabinets", "interior", 45},
		{"exterior walls", "Siding Walls", "exterior", 1.10},
		{"exterior ceiling falls back to first entry", "Porch Ceiling", "exterior", 1.10},
		{"unknown job type", "Walls", "garage", 0},
		{"job type case insensitive", "Walls", "Interior", 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLaborRate(rates, tt.surfaceType, tt.jobType); got != tt.want {
				t.Errorf("ResolveLaborRate(%q, %q) = %v, want %v", tt.surfaceType, tt.jobType, got, tt.want)
			}
		})
	}
}

func TestResolveLaborRate_FirstEntryFallback(t *testing.T) {
	// Only a Cabinets entry exists; a wall surface infers Walls, finds no match
	// and must fall back to the first entry, not zero.
	rates := models.LaborRateTable{
		"interior": {{Category: "Cabinets", Rate: 2}},
	}
	if got := ResolveLaborRate(rates, "Exterior Walls", "interior"); got != 2 {
		t.Errorf("expected first-entry fallback rate 2, got %v", got)
	}
}

func TestResolveLaborRate_EmptyTable(t *testing.T) {
	if got := ResolveLaborRate(nil, "Walls", "interior"); got != 0 {
		t.Errorf("expected 0 for nil table, got %v", got)
	}
	if got := ResolveLaborRate(models.LaborRateTable{"interior": {}}, "Walls", "interior"); got != 0 {
		t.Errorf("expected 0 for empty rate list, got %v", got)
	}
}
