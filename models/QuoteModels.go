package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

// AreaList is a JSONB-stored list of quote areas.
type AreaList []Area

// Value implements driver.Valuer for JSONB storage.
func (l AreaList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB columns.
func (l *AreaList) Scan(value interface{}) error {
	if value == nil {
		*l = AreaList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("area list: expected []byte from database")
	}
	return json.Unmarshal(b, l)
}

// LineItem is the computed cost of one surface inside a quote breakdown.
type LineItem struct {
	SurfaceType  string  `json:"surface_type" example:"Walls"`
	Sqft         float64 `json:"sqft" example:"320"`
	Sheen        string  `json:"sheen" example:"Eggshell"`
	LaborCost    float64 `json:"labor_cost" example:"208.00"`
	MaterialCost float64 `json:"material_cost" example:"38.86"`
	Subtotal     float64 `json:"subtotal" example:"246.86"`
}

// AreaBreakdown groups the line items computed for one area.
type AreaBreakdown struct {
	Name    string     `json:"name" example:"Living Room"`
	JobType string     `json:"job_type" example:"interior"`
	Items   []LineItem `json:"items"`
}

// QuoteSummary carries all aggregate figures of a calculated quote.
type QuoteSummary struct {
	LaborTotal       float64 `json:"labor_total" example:"1200.00"`
	MaterialTotal    float64 `json:"material_total" example:"340.00"`
	Subtotal         float64 `json:"subtotal" example:"1540.00"`
	Markup           float64 `json:"markup" example:"231.00"`
	MarkupPercent    float64 `json:"markup_percent" example:"15"`
	ZipMarkup        float64 `json:"zip_markup" example:"88.55"`
	ZipMarkupPercent float64 `json:"zip_markup_percent" example:"5"`
	Tax              float64 `json:"tax" example:"148.76"`
	TaxPercent       float64 `json:"tax_percent" example:"8"`
	Total            float64 `json:"total" example:"2008.31"`
}

// SchemeInfo identifies the pricing scheme a breakdown was computed with.
type SchemeInfo struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Standard Turnkey"`
	Type string `json:"type" example:"sqft_turnkey"`
}

// QuoteBreakdown is the full output of a quote calculation.
type QuoteBreakdown struct {
	Areas   []AreaBreakdown `json:"areas"`
	Summary QuoteSummary    `json:"summary"`
	Scheme  SchemeInfo      `json:"scheme"`
}

// QuoteRequest is the calculation input accepted by the quote endpoints.
type QuoteRequest struct {
	CustomerID       int     `json:"customer_id" example:"1"`
	Title            string  `json:"title" example:"Garcia residence repaint"`
	Areas            []Area  `json:"areas"`
	PricingSchemeID  int     `json:"pricing_scheme_id" example:"1"`
	ApplyZipMarkup   bool    `json:"apply_zip_markup" example:"true"`
	ZipMarkupPercent float64 `json:"zip_markup_percent" example:"5"`
	JobZip           string  `json:"job_zip,omitempty" example:"94117"`
}

// QuotePreviewRequest is the self-contained payload of the preview endpoint:
// everything the engine needs is supplied inline, nothing is read from the database.
type QuotePreviewRequest struct {
	Areas            []Area              `json:"areas"`
	PricingScheme    PricingScheme       `json:"pricing_scheme"`
	Products         []ProductConfig     `json:"products"`
	Settings         *ContractorSettings `json:"settings,omitempty"`
	ApplyZipMarkup   bool                `json:"apply_zip_markup" example:"false"`
	ZipMarkupPercent float64             `json:"zip_markup_percent" example:"0"`
}

// Quote is a stored quote row together with its persisted breakdown.
type Quote struct {
	ID              int             `json:"id" example:"1"`
	ContractorID    int             `json:"contractor_id" example:"1"`
	CustomerID      int             `json:"customer_id" example:"1"`
	QuoteNumber     string          `json:"quote_number" example:"Q-AB12345"`
	Title           string          `json:"title" example:"Garcia residence repaint"`
	Status          string          `json:"status" example:"draft"`
	PricingSchemeID int             `json:"pricing_scheme_id" example:"1"`
	PortalToken     string          `json:"portal_token" example:"4f1c..."`
	Total           float64         `json:"total" example:"2008.31"`
	Breakdown       *QuoteBreakdown `json:"breakdown,omitempty"`
	CreatedAt       time.Time       `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt       time.Time       `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// TierComparison is one entry of the tier comparison endpoint: the same quote
// priced under a different active scheme.
type TierComparison struct {
	Scheme  SchemeInfo   `json:"scheme"`
	Summary QuoteSummary `json:"summary"`
}
