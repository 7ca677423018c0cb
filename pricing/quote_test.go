package pricing

import (
	"encoding/json"
	"testing"

	"backend/models"
)

func testContext() QuoteContext {
	markup := 18.0
	return QuoteContext{
		Scheme: &models.PricingScheme{
			ID:     1,
			Name:   "Labor + Paint",
			Type:   models.SchemeSqftLaborPaint,
			Active: true,
		},
		Products: map[int]*models.ProductConfig{
			1: {
				ID:   1,
				Name: "ProMar 200",
				Sheens: []models.SheenOption{
					{Name: "Eggshell", PricePerGallon: 40, Coverage: 350},
					{Name: "Semi-Gloss", PricePerGallon: 46, Coverage: 300},
				},
				LaborRates: models.LaborRateTable{
					"interior": {
						{Category: "Walls", Rate: 0.60},
						{Category: "Ceilings", Rate: 0.80},
					},
				},
				MarkupPercent: &markup,
				TaxPercent:    8,
			},
		},
		Settings: &models.ContractorSettings{DefaultMarkupPercent: 15, TaxPercent: 8},
	}
}

func testAreas() []models.Area {
	return []models.Area{
		{
			Name:    "Living Room",
			JobType: "interior",
			Surfaces: []models.Surface{
				{SurfaceType: "Walls", Sqft: 100, ProductID: 1, Sheen: "Eggshell", Selected: true},
				{SurfaceType: "Ceiling", Sqft: 50, ProductID: 1, Sheen: "Eggshell", Selected: true},
				{SurfaceType: "Trim", Sqft: 40, ProductID: 1, Sheen: "Semi-Gloss", Selected: false},
			},
		},
	}
}

func TestCalculateQuote_EmptyAreas(t *testing.T) {
	_, err := CalculateQuote(QuoteInput{Areas: nil, PricingSchemeID: 1}, testContext())
	if err == nil || !IsValidationError(err) {
		t.Fatalf("expected ValidationError for empty areas, got %v", err)
	}
	if err.Error() != "areas array required" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCalculateQuote_MissingSchemeID(t *testing.T) {
	_, err := CalculateQuote(QuoteInput{Areas: testAreas()}, testContext())
	if err == nil || !IsValidationError(err) {
		t.Fatalf("expected ValidationError for missing scheme id, got %v", err)
	}
}

func TestCalculateQuote_SchemeNotFound(t *testing.T) {
	ctx := testContext()
	ctx.Scheme = nil
	_, err := CalculateQuote(QuoteInput{Areas: testAreas(), PricingSchemeID: 1}, ctx)
	if err == nil || !IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError for nil scheme, got %v", err)
	}

	ctx = testContext()
	ctx.Scheme.Active = false
	_, err = CalculateQuote(QuoteInput{Areas: testAreas(), PricingSchemeID: 1}, ctx)
	if err == nil || !IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError for inactive scheme, got %v", err)
	}

	ctx = testContext()
	_, err = CalculateQuote(QuoteInput{Areas: testAreas(), PricingSchemeID: 99}, ctx)
	if err == nil || !IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError for id mismatch, got %v", err)
	}
}

func TestCalculateQuote_Breakdown(t *testing.T) {
	got, err := CalculateQuote(QuoteInput{Areas: testAreas(), PricingSchemeID: 1}, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(got.Areas))
	}
	// The unselected trim surface must not produce a line item.
	if len(got.Areas[0].Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(got.Areas[0].Items))
	}

	// Walls: 100 sqft at interior walls rate 0.60 plus 100/350 gallons at $40.
	walls := got.Areas[0].Items[0]
	if !nearlyEqual(walls.LaborCost, 60) {
		t.Errorf("walls labor = %v, want 60", walls.LaborCost)
	}
	if !nearlyEqual(walls.MaterialCost, (100.0/350.0)*40) {
		t.Errorf("walls material = %v, want %v", walls.MaterialCost, (100.0/350.0)*40)
	}

	// Ceiling: the ceilings labor category applies.
	ceiling := got.Areas[0].Items[1]
	if !nearlyEqual(ceiling.LaborCost, 40) {
		t.Errorf("ceiling labor = %v, want 40 (50 sqft at 0.80)", ceiling.LaborCost)
	}

	s := got.Summary
	if !nearlyEqual(s.Subtotal, s.LaborTotal+s.MaterialTotal) {
		t.Errorf("subtotal %v != labor %v + material %v", s.Subtotal, s.LaborTotal, s.MaterialTotal)
	}
	if !nearlyEqual(s.Total, s.Subtotal+s.Markup+s.ZipMarkup+s.Tax) {
		t.Errorf("total %v is not additive", s.Total)
	}
	// Contractor-wide markup rate, not the product override.
	if s.MarkupPercent != 15 {
		t.Errorf("markup percent = %v, want contractor default 15", s.MarkupPercent)
	}
	if got.Scheme.ID != 1 || got.Scheme.Type != models.SchemeSqftLaborPaint {
		t.Errorf("scheme identity not echoed: %+v", got.Scheme)
	}
}

func TestCalculateQuote_MarkupTaxChain(t *testing.T) {
	// subtotal 1000 via turnkey: 500 sqft at $2/sqft.
	ctx := QuoteContext{
		Scheme: &models.PricingScheme{
			ID:     2,
			Name:   "Turnkey",
			Type:   models.SchemeSqftTurnkey,
			Rules:  models.PricingRules{"walls": {Price: 2}},
			Active: true,
		},
		Products: map[int]*models.ProductConfig{
			1: {ID: 1, Sheens: []models.SheenOption{{Name: "Flat", PricePerGallon: 30, Coverage: 350}}},
		},
		Settings: &models.ContractorSettings{DefaultMarkupPercent: 15, TaxPercent: 8},
	}
	in := QuoteInput{
		Areas: []models.Area{{
			Name:    "Exterior",
			JobType: "exterior",
			Surfaces: []models.Surface{
				{SurfaceType: "Walls", Sqft: 500, ProductID: 1, Sheen: "Flat", Selected: true},
			},
		}},
		PricingSchemeID:  2,
		ApplyZipMarkup:   true,
		ZipMarkupPercent: 5,
	}

	got, err := CalculateQuote(in, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.Summary
	if !nearlyEqual(s.Subtotal, 1000) {
		t.Fatalf("subtotal = %v, want 1000", s.Subtotal)
	}
	if !nearlyEqual(s.Markup, 150) {
		t.Errorf("markup = %v, want 150", s.Markup)
	}
	if !nearlyEqual(s.ZipMarkup, 57.5) {
		t.Errorf("zip markup = %v, want 57.5", s.ZipMarkup)
	}
	if !nearlyEqual(s.Tax, 96.6) {
		t.Errorf("tax = %v, want 96.6", s.Tax)
	}
	if !nearlyEqual(s.Total, 1304.1) {
		t.Errorf("total = %v, want 1304.1", s.Total)
	}
}

func TestCalculateQuote_SilentDegradation(t *testing.T) {
	ctx := testContext()
	in := QuoteInput{
		Areas: []models.Area{{
			Name:    "Hall",
			JobType: "interior",
			Surfaces: []models.Surface{
				{SurfaceType: "Walls", Sqft: 100, ProductID: 1, Sheen: "Eggshell", Selected: true},
				// unknown product config
				{SurfaceType: "Walls", Sqft: 100, ProductID: 42, Sheen: "Eggshell", Selected: true},
				// sheen the product does not carry
				{SurfaceType: "Walls", Sqft: 100, ProductID: 1, Sheen: "Gloss", Selected: true},
				// no sheen chosen at all
				{SurfaceType: "Walls", Sqft: 100, ProductID: 1, Selected: true},
			},
		}},
		PricingSchemeID: 1,
	}
	got, err := CalculateQuote(in, ctx)
	if err != nil {
		t.Fatalf("misconfigured lines must not abort the quote: %v", err)
	}
	if len(got.Areas[0].Items) != 1 {
		t.Errorf("expected only the valid line to survive, got %d items", len(got.Areas[0].Items))
	}
}

func TestCalculateQuote_SettingsFallback(t *testing.T) {
	ctx := testContext()
	ctx.Settings = nil
	got, err := CalculateQuote(QuoteInput{Areas: testAreas(), PricingSchemeID: 1}, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary.MarkupPercent != 15 || got.Summary.TaxPercent != 0 {
		t.Errorf("expected 15%% markup / 0%% tax defaults, got %+v", got.Summary)
	}
}

func TestCalculateQuote_Deterministic(t *testing.T) {
	in := QuoteInput{Areas: testAreas(), PricingSchemeID: 1, ApplyZipMarkup: true, ZipMarkupPercent: 3}
	first, err := CalculateQuote(in, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := json.Marshal(first)
	for i := 0; i < 5; i++ {
		next, err := CalculateQuote(in, testContext())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, _ := json.Marshal(next)
		if string(a) != string(b) {
			t.Fatalf("run %d produced a different breakdown", i)
		}
	}
}
