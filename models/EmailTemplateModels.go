package models

// EmailTemplateVariable represents a single variable in the template
type EmailTemplateVariable struct {
	Key         string `json:"key" example:"customer_name"`
	Description string `json:"description" example:"Customer full name"`
}

// EmailData carries the substitution values for proposal email templates.
type EmailData struct {
	CustomerName   string `json:"customer_name"`
	ContractorName string `json:"contractor_name"`
	Email          string `json:"email"`
	QuoteNumber    string `json:"quote_number"`
	QuoteTitle     string `json:"quote_title"`
	Total          string `json:"total"`
	PortalURL      string `json:"portal_url"`
	SupportEmail   string `json:"support_email"`
}
