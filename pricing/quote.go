package pricing

import (
	"strings"

	"backend/models"
)

// Contractor-wide fallbacks used when no settings record exists.
const (
	DefaultMarkupPercent = 15.0
	DefaultTaxPercent    = 0.0
)

// QuoteInput is the caller-supplied part of a calculation.
type QuoteInput struct {
	Areas            []models.Area
	PricingSchemeID  int
	ApplyZipMarkup   bool
	ZipMarkupPercent float64
}

// QuoteContext is the externally resolved configuration the engine computes
// against. The engine never touches the database; the surrounding handlers
// fetch the scheme, product configs and settings and hand them in here.
type QuoteContext struct {
	Scheme   *models.PricingScheme
	Products map[int]*models.ProductConfig
	Settings *models.ContractorSettings
}

// findSheen resolves a sheen by name on a product config.
func findSheen(product *models.ProductConfig, name string) (models.SheenOption, bool) {
	for _, sheen := range product.Sheens {
		if strings.EqualFold(sheen.Name, name) {
			return sheen, true
		}
	}
	return models.SheenOption{}, false
}

// CalculateQuote prices every selected surface of every area and aggregates
// labor, material, markup, ZIP markup and tax into a full breakdown.
//
// Missing required input (no areas, no scheme id) fails with a ValidationError;
// an unresolved or inactive scheme fails with a NotFoundError. Everything else
// degrades to a zero contribution per line: a surface whose product config or
// sheen cannot be resolved is omitted from the totals rather than aborting the
// whole quote, so one misconfigured line never hides the rest of the estimate.
//
// The computation is deterministic and side-effect-free: identical inputs
// always produce an identical breakdown.
func CalculateQuote(in QuoteInput, ctx QuoteContext) (*models.QuoteBreakdown, error) {
	if len(in.Areas) == 0 {
		return nil, &ValidationError{Message: "areas array required"}
	}
	if in.PricingSchemeID == 0 {
		return nil, &ValidationError{Message: "pricing scheme id required"}
	}
	scheme := ctx.Scheme
	if scheme == nil || !scheme.Active || scheme.ID != in.PricingSchemeID {
		return nil, &NotFoundError{Message: "pricing scheme not found"}
	}

	markupPercent := DefaultMarkupPercent
	taxPercent := DefaultTaxPercent
	if ctx.Settings != nil {
		markupPercent = ctx.Settings.DefaultMarkupPercent
		taxPercent = ctx.Settings.TaxPercent
	}

	breakdown := &models.QuoteBreakdown{
		Areas: make([]models.AreaBreakdown, 0, len(in.Areas)),
		Scheme: models.SchemeInfo{
			ID:   scheme.ID,
			Name: scheme.Name,
			Type: scheme.Type,
		},
	}

	var laborTotal, materialTotal float64

	for _, area := range in.Areas {
		areaOut := models.AreaBreakdown{
			Name:    area.Name,
			JobType: area.JobType,
			Items:   []models.LineItem{},
		}

		for _, surface := range area.Surfaces {
			if !surface.Selected || surface.ProductID == 0 || surface.Sheen == "" {
				continue
			}
			product, ok := ctx.Products[surface.ProductID]
			if !ok || product == nil {
				// Unknown product config: the line is omitted, not fatal.
				continue
			}
			sheen, ok := findSheen(product, surface.Sheen)
			if !ok {
				continue
			}

			laborRate := ResolveLaborRate(product.LaborRates, surface.SurfaceType, area.JobType)
			cost := ComputeSurfaceCost(SurfaceCostParams{
				Sqft:          surface.Sqft,
				LaborRate:     laborRate,
				SheenPrice:    sheen.PricePerGallon,
				SheenCoverage: sheen.Coverage,
				Scheme:        scheme,
				SurfaceType:   surface.SurfaceType,
			})

			areaOut.Items = append(areaOut.Items, models.LineItem{
				SurfaceType:  surface.SurfaceType,
				Sqft:         surface.Sqft,
				Sheen:        sheen.Name,
				LaborCost:    cost.LaborCost,
				MaterialCost: cost.MaterialCost,
				Subtotal:     cost.Total,
			})
			laborTotal += cost.LaborCost
			materialTotal += cost.MaterialCost
		}

		breakdown.Areas = append(breakdown.Areas, areaOut)
	}

	subtotal := laborTotal + materialTotal
	// The aggregate markup is computed once at the contractor-wide rate even
	// when individual products carry their own overrides. Downstream reporting
	// depends on this figure; keep it.
	markup := subtotal * (markupPercent / 100)

	zipMarkup := 0.0
	zipMarkupPercent := 0.0
	if in.ApplyZipMarkup {
		zipMarkupPercent = in.ZipMarkupPercent
		zipMarkup = (subtotal + markup) * (zipMarkupPercent / 100)
	}

	tax := (subtotal + markup + zipMarkup) * (taxPercent / 100)

	breakdown.Summary = models.QuoteSummary{
		LaborTotal:       laborTotal,
		MaterialTotal:    materialTotal,
		Subtotal:         subtotal,
		Markup:           markup,
		MarkupPercent:    markupPercent,
		ZipMarkup:        zipMarkup,
		ZipMarkupPercent: zipMarkupPercent,
		Tax:              tax,
		TaxPercent:       taxPercent,
		Total:            subtotal + markup + zipMarkup + tax,
	}

	return breakdown, nil
}
