package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"
)

// Surface represents one paintable unit inside an area (e.g. "living room walls").
type Surface struct {
	SurfaceType string  `json:"surface_type" example:"Walls"`
	Sqft        float64 `json:"sqft" example:"320"`
	ProductID   int     `json:"product_id" example:"1"`
	Sheen       string  `json:"sheen" example:"Eggshell"`
	Selected    bool    `json:"selected" example:"true"`
}

// Area groups surfaces under one room/zone with an interior/exterior job type.
type Area struct {
	Name     string    `json:"name" example:"Living Room"`
	JobType  string    `json:"job_type" example:"interior"`
	Surfaces []Surface `json:"surfaces"`
}

// SheenOption is one finish level of a product with its price and coverage.
type SheenOption struct {
	Name           string  `json:"name" example:"Eggshell"`
	PricePerGallon float64 `json:"price_per_gallon" example:"42.50"`
	Coverage       float64 `json:"coverage" example:"350"`
}

// SheenList is a JSONB-stored list of sheen options.
type SheenList []SheenOption

// Value implements driver.Valuer for JSONB storage.
func (l SheenList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB columns.
func (l *SheenList) Scan(value interface{}) error {
	if value == nil {
		*l = SheenList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("sheen list: expected []byte from database")
	}
	return json.Unmarshal(b, l)
}

// LaborRate is a per-unit labor rate for one surface category.
type LaborRate struct {
	Category string  `json:"category" example:"Walls"`
	Rate     float64 `json:"rate" example:"0.65"`
}

// LaborRateTable is keyed by job type ("interior" / "exterior").
type LaborRateTable map[string][]LaborRate

// Value implements driver.Valuer so the table can be stored as JSONB.
func (t LaborRateTable) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB columns.
func (t *LaborRateTable) Scan(value interface{}) error {
	if value == nil {
		*t = LaborRateTable{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("labor rate table: expected []byte from database")
	}
	return json.Unmarshal(b, t)
}

// ProductConfig maps one product to its sheen options, labor rates and markup/tax.
type ProductConfig struct {
	ID            int            `json:"id" example:"1"`
	ContractorID  int            `json:"contractor_id" example:"1"`
	Name          string         `json:"name" example:"ProMar 200"`
	Sheens        []SheenOption  `json:"sheens"`
	LaborRates    LaborRateTable `json:"labor_rates"`
	MarkupPercent *float64       `json:"markup_percent,omitempty" example:"18"`
	TaxPercent    float64        `json:"tax_percent" example:"8.25"`
}

// PricingRule holds the scheme-specific constants for one rule key.
type PricingRule struct {
	Price float64 `json:"price,omitempty" example:"2.00"`
	Value float64 `json:"value,omitempty" example:"20"`
}

// PricingRules is the free-form rule map of a pricing scheme, stored as JSONB.
type PricingRules map[string]PricingRule

// Value implements driver.Valuer for JSONB storage.
func (r PricingRules) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB columns.
func (r *PricingRules) Scan(value interface{}) error {
	if value == nil {
		*r = PricingRules{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("pricing rules: expected []byte from database")
	}
	return json.Unmarshal(b, r)
}

// Recognized pricing scheme types.
const (
	SchemeSqftTurnkey         = "sqft_turnkey"
	SchemeSqftLaborPaint      = "sqft_labor_paint"
	SchemeHourlyTimeMaterials = "hourly_time_materials"
	SchemeUnitPricing         = "unit_pricing"
	SchemeRoomFlatRate        = "room_flat_rate"
)

// SchemeTypes lists every recognized pricing scheme type tag.
var SchemeTypes = []string{
	SchemeSqftTurnkey,
	SchemeSqftLaborPaint,
	SchemeHourlyTimeMaterials,
	SchemeUnitPricing,
	SchemeRoomFlatRate,
}

// IsSchemeType reports whether t is one of the recognized scheme type tags.
func IsSchemeType(t string) bool {
	for _, s := range SchemeTypes {
		if s == t {
			return true
		}
	}
	return false
}

// PricingScheme selects one formula family plus its rule constants.
type PricingScheme struct {
	ID           int          `json:"id" example:"1"`
	ContractorID int          `json:"contractor_id" example:"1"`
	Name         string       `json:"name" example:"Standard Turnkey"`
	Type         string       `json:"type" example:"sqft_turnkey"`
	Rules        PricingRules `json:"rules"`
	Active       bool         `json:"active" example:"true"`
}

// ContractorSettings holds the contractor-wide calculation defaults.
type ContractorSettings struct {
	ContractorID         int     `json:"contractor_id" example:"1"`
	DefaultMarkupPercent float64 `json:"default_markup_percent" example:"15"`
	TaxPercent           float64 `json:"tax_percent" example:"8.25"`
}

// ZipMarkup is a regional cost adjustment keyed by ZIP prefix.
type ZipMarkup struct {
	ID            int     `json:"id" example:"1"`
	ContractorID  int     `json:"contractor_id" example:"1"`
	ZipPrefix     string  `json:"zip_prefix" example:"941"`
	MarkupPercent float64 `json:"markup_percent" example:"5"`
}
