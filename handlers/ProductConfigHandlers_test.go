package handlers

import (
	"testing"

	"backend/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestProductConfigUpdatesTaxResetToZero(t *testing.T) {
	updates := productConfigUpdates(productConfigUpdateRequest{TaxPercent: floatPtr(0)})

	tax, ok := updates["tax_percent"]
	if !ok {
		t.Fatal("expected tax_percent in updates when the field is present in the body")
	}
	if tax != 0.0 {
		t.Errorf("expected tax_percent 0, got %v", tax)
	}
	if _, ok := updates["markup_percent"]; ok {
		t.Error("expected markup_percent to be omitted when absent from the body")
	}
}

func TestProductConfigUpdatesOmitsAbsentFields(t *testing.T) {
	updates := productConfigUpdates(productConfigUpdateRequest{Name: "Premium Interior"})

	if updates["name"] != "Premium Interior" {
		t.Errorf("expected name update, got %v", updates["name"])
	}
	for _, key := range []string{"tax_percent", "markup_percent", "sheens", "labor_rates"} {
		if _, ok := updates[key]; ok {
			t.Errorf("expected %s to be omitted when absent from the body", key)
		}
	}
	if _, ok := updates["updated_at"]; !ok {
		t.Error("expected updated_at to always be written")
	}
}

func TestProductConfigUpdatesPercentValues(t *testing.T) {
	updates := productConfigUpdates(productConfigUpdateRequest{
		MarkupPercent: floatPtr(22.5),
		TaxPercent:    floatPtr(8.25),
		Sheens:        models.SheenList{"Flat", "Eggshell"},
	})

	if updates["markup_percent"] != 22.5 {
		t.Errorf("expected markup_percent 22.5, got %v", updates["markup_percent"])
	}
	if updates["tax_percent"] != 8.25 {
		t.Errorf("expected tax_percent 8.25, got %v", updates["tax_percent"])
	}
	if _, ok := updates["sheens"]; !ok {
		t.Error("expected sheens update")
	}
}
