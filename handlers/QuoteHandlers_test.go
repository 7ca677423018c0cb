package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
)

func previewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/quotes/preview", PreviewQuote)
	return r
}

func postPreview(t *testing.T, r *gin.Engine, payload models.QuotePreviewRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/quotes/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func previewPayload() models.QuotePreviewRequest {
	return models.QuotePreviewRequest{
		Areas: []models.Area{
			{
				Name:    "Living Room",
				JobType: "interior",
				Surfaces: []models.Surface{
					{SurfaceType: "Walls", Sqft: 200, ProductID: 1, Sheen: "Eggshell", Selected: true},
				},
			},
		},
		PricingScheme: models.PricingScheme{
			ID:     1,
			Name:   "Standard Turnkey",
			Type:   models.SchemeSqftTurnkey,
			Rules:  models.PricingRules{"walls": {Price: 2.5}},
			Active: true,
		},
		Products: []models.ProductConfig{
			{
				ID:     1,
				Name:   "ProMar 200",
				Sheens: []models.SheenOption{{Name: "Eggshell", PricePerGallon: 40, Coverage: 350}},
			},
		},
		Settings: &models.ContractorSettings{DefaultMarkupPercent: 10, TaxPercent: 0},
	}
}

// TestPreviewQuote_Turnkey verifies the full breakdown of a single turnkey
// surface through the HTTP surface.
func TestPreviewQuote_Turnkey(t *testing.T) {
	r := previewRouter()
	rec := postPreview(t, r, previewPayload())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var breakdown models.QuoteBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if len(breakdown.Areas) != 1 || len(breakdown.Areas[0].Items) != 1 {
		t.Fatalf("expected 1 area with 1 item, got %+v", breakdown.Areas)
	}
	item := breakdown.Areas[0].Items[0]
	if math.Abs(item.Subtotal-500) > 1e-6 {
		t.Errorf("expected line subtotal 500, got %f", item.Subtotal)
	}
	if math.Abs(item.LaborCost-300) > 1e-6 {
		t.Errorf("expected labor 300, got %f", item.LaborCost)
	}

	sum := breakdown.Summary
	if math.Abs(sum.Subtotal-500) > 1e-6 {
		t.Errorf("expected subtotal 500, got %f", sum.Subtotal)
	}
	if math.Abs(sum.Markup-50) > 1e-6 {
		t.Errorf("expected markup 50, got %f", sum.Markup)
	}
	if math.Abs(sum.Total-550) > 1e-6 {
		t.Errorf("expected total 550, got %f", sum.Total)
	}
	if breakdown.Scheme.Type != models.SchemeSqftTurnkey {
		t.Errorf("expected scheme type echoed back, got %q", breakdown.Scheme.Type)
	}
}

// TestPreviewQuote_EmptyAreas expects a 400 with the engine's validation message.
func TestPreviewQuote_EmptyAreas(t *testing.T) {
	payload := previewPayload()
	payload.Areas = nil

	rec := postPreview(t, previewRouter(), payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	if resp["error"] != "areas array required" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

// TestPreviewQuote_InactiveScheme expects a 404 when the inline scheme is inactive.
func TestPreviewQuote_InactiveScheme(t *testing.T) {
	payload := previewPayload()
	payload.PricingScheme.Active = false

	rec := postPreview(t, previewRouter(), payload)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

// TestPreviewQuote_ZipMarkup verifies the ZIP markup is applied after the
// aggregate markup.
func TestPreviewQuote_ZipMarkup(t *testing.T) {
	payload := previewPayload()
	payload.ApplyZipMarkup = true
	payload.ZipMarkupPercent = 10

	rec := postPreview(t, previewRouter(), payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var breakdown models.QuoteBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// (500 + 50) * 10% = 55
	if math.Abs(breakdown.Summary.ZipMarkup-55) > 1e-6 {
		t.Errorf("expected zip markup 55, got %f", breakdown.Summary.ZipMarkup)
	}
	if math.Abs(breakdown.Summary.Total-605) > 1e-6 {
		t.Errorf("expected total 605, got %f", breakdown.Summary.Total)
	}
}

func TestMatchZipMarkupLongestPrefixWins(t *testing.T) {
	rows := []models.ZipMarkupGorm{
		{ZipPrefix: "9", MarkupPercent: 2},
		{ZipPrefix: "941", MarkupPercent: 8},
		{ZipPrefix: "94", MarkupPercent: 5},
	}

	percent, ok := matchZipMarkup(rows, "94110")
	if !ok {
		t.Fatal("expected a match for 94110")
	}
	if percent != 8 {
		t.Errorf("expected longest prefix 941 to win with 8%%, got %v", percent)
	}

	// Result must not depend on row order.
	reversed := []models.ZipMarkupGorm{rows[2], rows[1], rows[0]}
	percent, ok = matchZipMarkup(reversed, "94110")
	if !ok || percent != 8 {
		t.Errorf("expected 8%% regardless of row order, got %v (ok=%v)", percent, ok)
	}
}

func TestMatchZipMarkupNoMatch(t *testing.T) {
	rows := []models.ZipMarkupGorm{
		{ZipPrefix: "941", MarkupPercent: 8},
		{ZipPrefix: "606", MarkupPercent: 4},
	}
	if percent, ok := matchZipMarkup(rows, "30301"); ok || percent != 0 {
		t.Errorf("expected no match for 30301, got %v (ok=%v)", percent, ok)
	}
	if percent, ok := matchZipMarkup(nil, "94110"); ok || percent != 0 {
		t.Errorf("expected no match against empty table, got %v (ok=%v)", percent, ok)
	}
}

func TestResolveZipMarkupEmptyZip(t *testing.T) {
	// Blank ZIPs never hit the table; a nil DB proves no query runs.
	if percent, ok := resolveZipMarkup(nil, 1, "   "); ok || percent != 0 {
		t.Errorf("expected no markup for blank ZIP, got %v (ok=%v)", percent, ok)
	}
}

func TestZipAdjustedInputExplicitPercentWins(t *testing.T) {
	req := models.QuoteRequest{
		PricingSchemeID:  1,
		ApplyZipMarkup:   true,
		ZipMarkupPercent: 12.5,
		JobZip:           "94110",
	}

	// An explicit percent skips the table lookup entirely; a nil DB proves it.
	in := zipAdjustedInput(nil, 1, req)
	if in.ZipMarkupPercent != 12.5 {
		t.Errorf("expected explicit percent 12.5 to be kept, got %v", in.ZipMarkupPercent)
	}
	if !in.ApplyZipMarkup {
		t.Error("expected ApplyZipMarkup to carry through")
	}
}

func TestZipAdjustedInputSkipsLookupWhenNotApplied(t *testing.T) {
	req := models.QuoteRequest{
		PricingSchemeID: 1,
		ApplyZipMarkup:  false,
		JobZip:          "94110",
	}
	in := zipAdjustedInput(nil, 1, req)
	if in.ZipMarkupPercent != 0 {
		t.Errorf("expected no markup when apply_zip_markup is false, got %v", in.ZipMarkupPercent)
	}
}
