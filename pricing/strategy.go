package pricing

import (
	"strings"

	"backend/models"
)

// Formula constants. The labor/material splits are fixed parts of each formula,
// not configuration; changing them breaks parity with stored quotes.
const (
	defaultTurnkeyRate    = 2.0
	defaultLaborRate      = 0.55
	defaultCoverage       = 350.0
	defaultHourlyRate     = 50.0
	defaultMaterialMarkup = 20.0
	defaultUnitRate       = 5.0
	defaultRoomFlatRate   = 500.0

	sqftPerLaborHour = 100.0
	roomSurfaceShare = 0.20

	turnkeyLaborShare = 0.60
	unitLaborShare    = 0.70
	roomLaborShare    = 0.65
)

// SurfaceCostParams carries everything needed to price a single surface.
type SurfaceCostParams struct {
	Sqft          float64
	LaborRate     float64
	SheenPrice    float64
	SheenCoverage float64
	Scheme        *models.PricingScheme
	SurfaceType   string
}

// SurfaceCost is the priced result of one surface.
type SurfaceCost struct {
	LaborCost    float64
	MaterialCost float64
	Total        float64
}

// rulePrice returns the price constant for a rule key, or fallback when the key
// is absent or unset.
func rulePrice(rules models.PricingRules, key string, fallback float64) float64 {
	if rule, ok := rules[key]; ok && rule.Price > 0 {
		return rule.Price
	}
	return fallback
}

// ruleValue is rulePrice for the Value field (percentages and other non-price
// constants).
func ruleValue(rules models.PricingRules, key string, fallback float64) float64 {
	if rule, ok := rules[key]; ok && rule.Value > 0 {
		return rule.Value
	}
	return fallback
}

// turnkeySurfaceKey maps a surface type onto the rule keys of a turnkey scheme.
func turnkeySurfaceKey(surfaceType string) string {
	s := strings.ToLower(surfaceType)
	switch {
	case strings.Contains(s, "ceiling"):
		return "ceilings"
	case strings.Contains(s, "trim"), strings.Contains(s, "door"), strings.Contains(s, "window"):
		return "trim"
	default:
		return "walls"
	}
}

// unitTypeKey maps a surface type onto the unit-pricing rule keys. The sqft key
// doubles as a generic unit count for anything that is not a door/window/trim run.
func unitTypeKey(surfaceType string) string {
	s := strings.ToLower(surfaceType)
	switch {
	case strings.Contains(s, "door"):
		return "door"
	case strings.Contains(s, "window"):
		return "window"
	case strings.Contains(s, "trim"):
		return "trim"
	default:
		return "sqft"
	}
}

// ComputeSurfaceCost prices one surface under the scheme's formula family.
// An unrecognized scheme type yields a zero cost rather than an error, so a
// misconfigured scheme degrades one line instead of killing the whole quote.
func ComputeSurfaceCost(p SurfaceCostParams) SurfaceCost {
	if p.Scheme == nil {
		return SurfaceCost{}
	}
	rules := p.Scheme.Rules

	switch p.Scheme.Type {
	case models.SchemeSqftTurnkey:
		rate := rulePrice(rules, turnkeySurfaceKey(p.SurfaceType), defaultTurnkeyRate)
		total := p.Sqft * rate
		return SurfaceCost{
			LaborCost:    total * turnkeyLaborShare,
			MaterialCost: total * (1 - turnkeyLaborShare),
			Total:        total,
		}

	case models.SchemeSqftLaborPaint:
		rate := p.LaborRate
		if rate <= 0 {
			rate = rulePrice(rules, "labor_rate", defaultLaborRate)
		}
		labor := p.Sqft * rate
		coverage := p.SheenCoverage
		if coverage <= 0 {
			coverage = defaultCoverage
		}
		material := (p.Sqft / coverage) * p.SheenPrice
		return SurfaceCost{
			LaborCost:    labor,
			MaterialCost: material,
			Total:        labor + material,
		}

	case models.SchemeHourlyTimeMaterials:
		hours := p.Sqft / sqftPerLaborHour
		labor := hours * rulePrice(rules, "hourly_rate", defaultHourlyRate)
		coverage := p.SheenCoverage
		if coverage <= 0 {
			coverage = defaultCoverage
		}
		markupPct := ruleValue(rules, "material_markup", defaultMaterialMarkup)
		material := (p.Sqft / coverage) * p.SheenPrice * (1 + markupPct/100)
		return SurfaceCost{
			LaborCost:    labor,
			MaterialCost: material,
			Total:        labor + material,
		}

	case models.SchemeUnitPricing:
		rate := rulePrice(rules, unitTypeKey(p.SurfaceType), 0)
		if rate <= 0 {
			rate = p.LaborRate
		}
		if rate <= 0 {
			rate = defaultUnitRate
		}
		total := p.Sqft * rate
		return SurfaceCost{
			LaborCost:    total * unitLaborShare,
			MaterialCost: total * (1 - unitLaborShare),
			Total:        total,
		}

	case models.SchemeRoomFlatRate:
		// Coarse approximation: each surface is assumed to carry a fixed share
		// of the room rate.
		total := rulePrice(rules, "medium_room", defaultRoomFlatRate) * roomSurfaceShare
		return SurfaceCost{
			LaborCost:    total * roomLaborShare,
			MaterialCost: total * (1 - roomLaborShare),
			Total:        total,
		}
	}

	return SurfaceCost{}
}
