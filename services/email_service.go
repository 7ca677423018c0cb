package services

import (
	"database/sql"
	"fmt"
	"net/smtp"
	"os"
	"regexp"
	"strings"

	"backend/models"

	"golang.org/x/net/html"
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "table":
				text.WriteString("\n")
			case "tr":
				text.WriteString("\n")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	result = strings.TrimSpace(result)

	return result
}

// templateVarPattern matches a {{variable}} placeholder.
var templateVarPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// EmailService sends proposal and portal emails over SMTP.
type EmailService struct {
	db *sql.DB
}

// NewEmailService creates a new email service instance
func NewEmailService(db *sql.DB) *EmailService {
	return &EmailService{db: db}
}

// defaultProposalTemplate is used when the contractor has not customized
// the proposal email.
const defaultProposalSubject = "Your painting proposal {{quote_number}} from {{contractor_name}}"

const defaultProposalBody = `<p>Hi {{customer_name}},</p>
<p>Thank you for the opportunity to quote your project. Your proposal
<b>{{quote_number}}</b>{{quote_title}} comes to a total of <b>${{total}}</b>.</p>
<p>You can review and accept the proposal online here:</p>
<p>{{portal_url}}</p>
<p>Questions? Just reply to this email or reach us at {{support_email}}.</p>
<p>{{contractor_name}}</p>`

// PreviewEmailAsText renders a template with the given data as plain text, so
// the frontend can show how the HTML will read in the email body.
func (es *EmailService) PreviewEmailAsText(htmlContent string, emailData models.EmailData) (string, error) {
	processedContent, err := es.processTemplate(htmlContent, emailData)
	if err != nil {
		return "", fmt.Errorf("failed to process template: %v", err)
	}
	return convertHTMLToText(processedContent), nil
}

// SendProposalEmail emails the customer a link to the portal view of their quote.
func (es *EmailService) SendProposalEmail(quote models.Quote, customer models.Customer, portalURL string) error {
	if customer.Email == "" {
		return fmt.Errorf("customer has no email address")
	}

	var contractorName string
	if err := es.db.QueryRow(
		`SELECT company_name FROM contractors WHERE id = $1`, quote.ContractorID,
	).Scan(&contractorName); err != nil {
		contractorName = "Your painting contractor"
	}

	title := ""
	if quote.Title != "" {
		title = " (" + quote.Title + ")"
	}

	emailData := models.EmailData{
		CustomerName:   strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		ContractorName: contractorName,
		Email:          customer.Email,
		QuoteNumber:    quote.QuoteNumber,
		QuoteTitle:     title,
		Total:          fmt.Sprintf("%.2f", quote.Total),
		PortalURL:      portalURL,
		SupportEmail:   supportEmail(),
	}

	subject, err := es.processTemplate(defaultProposalSubject, emailData)
	if err != nil {
		return fmt.Errorf("failed to process subject template: %v", err)
	}
	body, err := es.processTemplate(defaultProposalBody, emailData)
	if err != nil {
		return fmt.Errorf("failed to process body template: %v", err)
	}

	return es.sendEmail(customer.Email, subject, convertHTMLToText(body), nil, nil)
}

// processTemplate substitutes {{variable}} placeholders in a single pass over
// the template. Substituted values are never re-scanned, so a value that
// happens to contain a placeholder stays literal.
func (es *EmailService) processTemplate(templateStr string, data models.EmailData) (string, error) {
	variables := map[string]string{
		"customer_name":   data.CustomerName,
		"contractor_name": data.ContractorName,
		"email":           data.Email,
		"quote_number":    data.QuoteNumber,
		"quote_title":     data.QuoteTitle,
		"total":           data.Total,
		"portal_url":      data.PortalURL,
		"support_email":   data.SupportEmail,
	}

	result := templateVarPattern.ReplaceAllStringFunc(templateStr, func(match string) string {
		key := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
		if value, ok := variables[key]; ok {
			return value
		}
		return match
	})

	return result, nil
}

func supportEmail() string {
	if addr := os.Getenv("SUPPORT_EMAIL"); addr != "" {
		return addr
	}
	return "support@brushworks.app"
}

// sendEmail sends an email using SMTP with optional CC and BCC
func (es *EmailService) sendEmail(to, subject, body string, cc, bcc []string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	if host == "" || from == "" {
		return fmt.Errorf("SMTP is not configured")
	}
	if port == "" {
		port = "587"
	}

	auth := smtp.PlainAuth("", user, pass, host)

	toList := []string{to}
	if len(cc) > 0 {
		toList = append(toList, cc...)
	}
	if len(bcc) > 0 {
		toList = append(toList, bcc...)
	}

	headers := []string{
		"From: " + from,
		"To: " + to,
	}
	if len(cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(cc, ", "))
	}
	headers = append(headers,
		"Subject: "+subject,
		"",
		body,
	)

	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	return smtp.SendMail(host+":"+port, auth, from, toList, msg)
}

// ValidateTemplate validates a template string for syntax errors
func (es *EmailService) ValidateTemplate(templateStr string) error {
	openBraces := strings.Count(templateStr, "{{")
	closeBraces := strings.Count(templateStr, "}}")
	if openBraces != closeBraces {
		return fmt.Errorf("unmatched braces in template")
	}

	matches := templateVarPattern.FindAllStringSubmatch(templateStr, -1)

	validVariables := map[string]bool{
		"customer_name":   true,
		"contractor_name": true,
		"email":           true,
		"quote_number":    true,
		"quote_title":     true,
		"total":           true,
		"portal_url":      true,
		"support_email":   true,
	}

	for _, match := range matches {
		if len(match) > 1 {
			variable := strings.TrimSpace(match[1])
			if !validVariables[variable] {
				return fmt.Errorf("invalid variable: %s", variable)
			}
		}
	}

	return nil
}

// GetAvailableVariables returns a list of available template variables
func (es *EmailService) GetAvailableVariables() []models.EmailTemplateVariable {
	return []models.EmailTemplateVariable{
		{Key: "customer_name", Description: "Customer full name"},
		{Key: "contractor_name", Description: "Contractor company name"},
		{Key: "email", Description: "Customer email"},
		{Key: "quote_number", Description: "Quote number"},
		{Key: "quote_title", Description: "Quote title"},
		{Key: "total", Description: "Quote total"},
		{Key: "portal_url", Description: "Customer portal link"},
		{Key: "support_email", Description: "Support email"},
	}
}
