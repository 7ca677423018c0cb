package models

import (
	"time"
)

// GORM-compatible models with proper tags

// PricingSchemeGorm represents the pricing_schemes table with GORM tags
type PricingSchemeGorm struct {
	ID           int          `gorm:"primaryKey;column:id" json:"id"`
	ContractorID int          `gorm:"column:contractor_id;not null;index" json:"contractor_id"`
	Name         string       `gorm:"column:name;not null" json:"name"`
	Type         string       `gorm:"column:type;not null" json:"type"`
	Rules        PricingRules `gorm:"column:rules;type:jsonb" json:"rules"`
	Active       bool         `gorm:"column:active;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for PricingSchemeGorm
func (PricingSchemeGorm) TableName() string {
	return "pricing_schemes"
}

// Scheme converts the row into the engine's PricingScheme shape.
func (s PricingSchemeGorm) Scheme() *PricingScheme {
	return &PricingScheme{
		ID:           s.ID,
		ContractorID: s.ContractorID,
		Name:         s.Name,
		Type:         s.Type,
		Rules:        s.Rules,
		Active:       s.Active,
	}
}

// ProductConfigGorm represents the product_configs table with GORM tags
type ProductConfigGorm struct {
	ID            int            `gorm:"primaryKey;column:id" json:"id"`
	ContractorID  int            `gorm:"column:contractor_id;not null;index" json:"contractor_id"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Sheens        SheenList      `gorm:"column:sheens;type:jsonb" json:"sheens"`
	LaborRates    LaborRateTable `gorm:"column:labor_rates;type:jsonb" json:"labor_rates"`
	MarkupPercent *float64       `gorm:"column:markup_percent" json:"markup_percent,omitempty"`
	TaxPercent    float64        `gorm:"column:tax_percent;type:numeric(6,3);default:0" json:"tax_percent"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for ProductConfigGorm
func (ProductConfigGorm) TableName() string {
	return "product_configs"
}

// Config converts the row into the engine's ProductConfig shape.
func (p ProductConfigGorm) Config() *ProductConfig {
	return &ProductConfig{
		ID:            p.ID,
		ContractorID:  p.ContractorID,
		Name:          p.Name,
		Sheens:        p.Sheens,
		LaborRates:    p.LaborRates,
		MarkupPercent: p.MarkupPercent,
		TaxPercent:    p.TaxPercent,
	}
}

// ContractorSettingGorm represents the contractor_settings table with GORM tags
type ContractorSettingGorm struct {
	ContractorID         int       `gorm:"primaryKey;column:contractor_id" json:"contractor_id"`
	DefaultMarkupPercent float64   `gorm:"column:default_markup_percent;type:numeric(6,3);default:15" json:"default_markup_percent"`
	TaxPercent           float64   `gorm:"column:tax_percent;type:numeric(6,3);default:0" json:"tax_percent"`
	UpdatedAt            time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for ContractorSettingGorm
func (ContractorSettingGorm) TableName() string {
	return "contractor_settings"
}

// Settings converts the row into the engine's ContractorSettings shape.
func (s ContractorSettingGorm) Settings() *ContractorSettings {
	return &ContractorSettings{
		ContractorID:         s.ContractorID,
		DefaultMarkupPercent: s.DefaultMarkupPercent,
		TaxPercent:           s.TaxPercent,
	}
}

// ZipMarkupGorm represents the zip_markups table with GORM tags
type ZipMarkupGorm struct {
	ID            int       `gorm:"primaryKey;column:id" json:"id"`
	ContractorID  int       `gorm:"column:contractor_id;not null;index" json:"contractor_id"`
	ZipPrefix     string    `gorm:"column:zip_prefix;not null" json:"zip_prefix"`
	MarkupPercent float64   `gorm:"column:markup_percent;type:numeric(6,3);not null" json:"markup_percent"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for ZipMarkupGorm
func (ZipMarkupGorm) TableName() string {
	return "zip_markups"
}

// CustomerGorm represents the customers table with GORM tags
type CustomerGorm struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	ContractorID int       `gorm:"column:contractor_id;not null;index" json:"contractor_id"`
	FirstName    string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name" json:"last_name"`
	Email        string    `gorm:"column:email" json:"email"`
	PhoneNo      string    `gorm:"column:phone_no" json:"phone_no"`
	Address      string    `gorm:"column:address" json:"address"`
	City         string    `gorm:"column:city" json:"city"`
	State        string    `gorm:"column:state" json:"state"`
	ZipCode      string    `gorm:"column:zip_code" json:"zip_code"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for CustomerGorm
func (CustomerGorm) TableName() string {
	return "customers"
}

// QuoteGorm represents the quotes table with GORM tags. Areas and the computed
// breakdown are persisted as JSONB so a saved quote renders exactly what was
// shown when it was calculated.
type QuoteGorm struct {
	ID              int       `gorm:"primaryKey;column:id" json:"id"`
	ContractorID    int       `gorm:"column:contractor_id;not null;index" json:"contractor_id"`
	CustomerID      int       `gorm:"column:customer_id;index" json:"customer_id"`
	QuoteNumber     string    `gorm:"column:quote_number;uniqueIndex;not null" json:"quote_number"`
	Title           string    `gorm:"column:title" json:"title"`
	Status          string    `gorm:"column:status;not null;default:'draft'" json:"status"`
	PricingSchemeID int       `gorm:"column:pricing_scheme_id;not null" json:"pricing_scheme_id"`
	Revision        string    `gorm:"column:revision;not null;default:'RV-01'" json:"revision"`
	PortalToken     string    `gorm:"column:portal_token;uniqueIndex" json:"portal_token"`
	Areas           AreaList  `gorm:"column:areas;type:jsonb" json:"areas"`
	Breakdown       []byte    `gorm:"column:breakdown;type:jsonb" json:"-"`
	Total           float64   `gorm:"column:total;type:numeric(12,2);default:0" json:"total"`
	CreatedAt       time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for QuoteGorm
func (QuoteGorm) TableName() string {
	return "quotes"
}
