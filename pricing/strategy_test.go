package pricing

import (
	"math"
	"testing"

	"backend/models"
)

func nearlyEqual(a, b float64) bool { return math.Abs(a-b) <= 1e-6 }

func scheme(schemeType string, rules models.PricingRules) *models.PricingScheme {
	return &models.PricingScheme{ID: 1, Name: "test", Type: schemeType, Rules: rules, Active: true}
}

func TestComputeSurfaceCost_Turnkey(t *testing.T) {
	s := scheme(models.SchemeSqftTurnkey, models.PricingRules{
		"walls": {Price: 2.5},
	})
	got := ComputeSurfaceCost(SurfaceCostParams{Sqft: 200, Scheme: s, SurfaceType: "Walls"})
	if !nearlyEqual(got.Total, 500) {
		t.Errorf("total = %v, want 500", got.Total)
	}
	if !nearlyEqual(got.LaborCost, 300) {
		t.Errorf("labor = %v, want 300 (60%% of total)", got.LaborCost)
	}
	if !nearlyEqual(got.MaterialCost, 200) {
		t.Errorf("material = %v, want 200 (40%% of total)", got.MaterialCost)
	}
}

func TestComputeSurfaceCost_TurnkeyDefaults(t *testing.T) {
	// No rule for walls: the 2.0 default applies. Ceilings hit their own key.
	s := scheme(models.SchemeSqftTurnkey, models.PricingRules{
		"ceilings": {Price: 1.5},
	})
	walls := ComputeSurfaceCost(SurfaceCostParams{Sqft: 100, Scheme: s, SurfaceType: "Walls"})
	if !nearlyEqual(walls.Total, 200) {
		t.Errorf("walls total = %v, want 200 (default rate 2.0)", walls.Total)
	}
	ceiling := ComputeSurfaceCost(SurfaceCostParams{Sqft: 100, Scheme: s, SurfaceType: "Bedroom Ceiling"})
	if !nearlyEqual(ceiling.Total, 150) {
		t.Errorf("ceiling total = %v, want 150", ceiling.Total)
	}
}

func TestComputeSurfaceCost_LaborPaint(t *testing.T) {
	s := scheme(models.SchemeSqftLaborPaint, nil)
	got := ComputeSurfaceCost(SurfaceCostParams{
		Sqft:          100,
		LaborRate:     0.60,
		SheenPrice:    40,
		SheenCoverage: 350,
		Scheme:        s,
		SurfaceType:   "Walls",
	})
	if !nearlyEqual(got.LaborCost, 60) {
		t.Errorf("labor = %v, want 60", got.LaborCost)
	}
	wantMaterial := (100.0 / 350.0) * 40 // 0.2857 gallons at $40
	if !nearlyEqual(got.MaterialCost, wantMaterial) {
		t.Errorf("material = %v, want %v", got.MaterialCost, wantMaterial)
	}
	if !nearlyEqual(got.Total, 60+wantMaterial) {
		t.Errorf("total = %v, want %v", got.Total, 60+wantMaterial)
	}
}

func TestComputeSurfaceCost_LaborPaintFallbacks(t *testing.T) {
	// No resolved labor rate and no labor_rate rule: 0.55 default. No coverage: 350.
	s := scheme(models.SchemeSqftLaborPaint, nil)
	got := ComputeSurfaceCost(SurfaceCostParams{Sqft: 100, SheenPrice: 35, Scheme: s, SurfaceType: "Walls"})
	if !nearlyEqual(got.LaborCost, 55) {
		t.Errorf("labor = %v, want 55", got.LaborCost)
	}
	if !nearlyEqual(got.MaterialCost, (100.0/350.0)*35) {
		t.Errorf("material = %v, want %v", got.MaterialCost, (100.0/350.0)*35)
	}

	// Rule-supplied labor rate beats the 0.55 default.
	s = scheme(models.SchemeSqftLaborPaint, models.PricingRules{"labor_rate": {Price: 0.75}})
	got = ComputeSurfaceCost(SurfaceCostParams{Sqft: 100, SheenPrice: 35, Scheme: s, SurfaceType: "Walls"})
	if !nearlyEqual(got.LaborCost, 75) {
		t.Errorf("labor = %v, want 75 from labor_rate rule", got.LaborCost)
	}
}

func TestComputeSurfaceCost_HourlyTimeMaterials(t *testing.T) {
	s := scheme(models.SchemeHourlyTimeMaterials, models.PricingRules{
		"hourly_rate":     {Price: 65},
		"material_markup": {Value: 25},
	})
	got := ComputeSurfaceCost(SurfaceCostParams{
		Sqft:          250,
		SheenPrice:    40,
		SheenCoverage: 400,
		Scheme:        s,
		SurfaceType:   "Walls",
	})
	wantLabor := (250.0 / 100.0) * 65
	if !nearlyEqual(got.LaborCost, wantLabor) {
		t.Errorf("labor = %v, want %v", got.LaborCost, wantLabor)
	}
	wantMaterial := (250.0 / 400.0) * 40 * 1.25
	if !nearlyEqual(got.MaterialCost, wantMaterial) {
		t.Errorf("material = %v, want %v", got.MaterialCost, wantMaterial)
	}
}

func TestComputeSurfaceCost_HourlyDefaults(t *testing.T) {
	// $50/hr, 20% material markup, 350 coverage when nothing is configured.
	s := scheme(models.SchemeHourlyTimeMaterials, nil)
	got := ComputeSurfaceCost(SurfaceCostParams{Sqft: 100, SheenPrice: 35, Scheme: s, SurfaceType: "Walls"})
	if !nearlyEqual(got.LaborCost, 50) {
		t.Errorf("labor = %v, want 50", got.LaborCost)
	}
	if !nearlyEqual(got.MaterialCost, (100.0/350.0)*35*1.2) {
		t.Errorf("material = %v, want %v", got.MaterialCost, (100.0/350.0)*35*1.2)
	}
}

func TestComputeSurfaceCost_UnitPricing(t *testing.T) {
	s := scheme(models.SchemeUnitPricing, models.PricingRules{
		"door":   {Price: 85},
		"window": {Price: 45},
	})

	// Quantity is a unit count here, not literal square footage.
	doors := ComputeSurfaceCost(SurfaceCostParams{Sqft: 4, Scheme: s, SurfaceType: "Interior Doors"})
	if !nearlyEqual(doors.Total, 340) {
		t.Errorf("doors total = %v, want 340", doors.Total)
	}
	if !nearlyEqual(doors.LaborCost, 340*0.70) {
		t.Errorf("doors labor = %v, want %v (70%%)", doors.LaborCost, 340*0.70)
	}
	if !nearlyEqual(doors.MaterialCost, 340*0.30) {
		t.Errorf("doors material = %v, want %v (30%%)", doors.MaterialCost, 340*0.30)
	}

	// No rule and no labor rate: $5 default per unit.
	generic := ComputeSurfaceCost(SurfaceCostParams{Sqft: 10, Scheme: s, SurfaceType: "Shutters"})
	if !nearlyEqual(generic.Total, 50) {
		t.Errorf("generic total = %v, want 50", generic.Total)
	}

	// No rule but a resolved labor rate: labor rate wins over the default.
	rated := ComputeSurfaceCost(SurfaceCostParams{Sqft: 10, LaborRate: 7, Scheme: s, SurfaceType: "Shutters"})
	if !nearlyEqual(rated.Total, 70) {
		t.Errorf("rated total = %v, want 70", rated.Total)
	}
}

func TestComputeSurfaceCost_RoomFlatRate(t *testing.T) {
	s := scheme(models.SchemeRoomFlatRate, models.PricingRules{
		"medium_room": {Price: 600},
	})
	got := ComputeSurfaceCost(SurfaceCostParams{Sqft: 999, Scheme: s, SurfaceType: "Walls"})
	// 20% surface share of the room rate, regardless of sqft.
	if !nearlyEqual(got.Total, 120) {
		t.Errorf("total = %v, want 120", got.Total)
	}
	if !nearlyEqual(got.LaborCost, 120*0.65) {
		t.Errorf("labor = %v, want %v (65%%)", got.LaborCost, 120*0.65)
	}
	if !nearlyEqual(got.MaterialCost, 120*0.35) {
		t.Errorf("material = %v, want %v (35%%)", got.MaterialCost, 120*0.35)
	}

	// 500 default when the rule is absent.
	bare := ComputeSurfaceCost(SurfaceCostParams{Sqft: 1, Scheme: scheme(models.SchemeRoomFlatRate, nil), SurfaceType: "Walls"})
	if !nearlyEqual(bare.Total, 100) {
		t.Errorf("default total = %v, want 100", bare.Total)
	}
}

func TestComputeSurfaceCost_UnknownScheme(t *testing.T) {
	got := ComputeSurfaceCost(SurfaceCostParams{
		Sqft:        500,
		LaborRate:   2,
		SheenPrice:  40,
		Scheme:      scheme("unknown_scheme", nil),
		SurfaceType: "Walls",
	})
	if got.LaborCost != 0 || got.MaterialCost != 0 || got.Total != 0 {
		t.Errorf("unknown scheme type must price to zero, got %+v", got)
	}

	if got := ComputeSurfaceCost(SurfaceCostParams{Sqft: 500}); got.Total != 0 {
		t.Errorf("nil scheme must price to zero, got %+v", got)
	}
}
