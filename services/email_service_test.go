package services

import (
	"strings"
	"testing"

	"backend/models"
)

func TestConvertHTMLToText(t *testing.T) {
	html := "<p>Hello <b>Maria</b>,</p><p>Your total is $500.</p>"
	text := convertHTMLToText(html)

	if !strings.Contains(text, "Hello Maria,") {
		t.Errorf("expected greeting in plain text, got %q", text)
	}
	if !strings.Contains(text, "Your total is $500.") {
		t.Errorf("expected body line in plain text, got %q", text)
	}
	if strings.Contains(text, "<") {
		t.Errorf("expected no markup in plain text, got %q", text)
	}
}

func TestProcessTemplateSubstitution(t *testing.T) {
	es := NewEmailService(nil)
	data := models.EmailData{
		CustomerName: "Maria Garcia",
		QuoteNumber:  "Q-AB12345",
		Total:        "550.00",
		PortalURL:    "https://example.test/portal/quote/token",
	}

	out, err := es.processTemplate(
		"Hi {{customer_name}}, proposal {{quote_number}} totals ${{total}}: {{portal_url}}", data)
	if err != nil {
		t.Fatalf("processTemplate: %v", err)
	}
	want := "Hi Maria Garcia, proposal Q-AB12345 totals $550.00: https://example.test/portal/quote/token"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestValidateTemplate(t *testing.T) {
	es := NewEmailService(nil)

	if err := es.ValidateTemplate("Hello {{customer_name}}"); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := es.ValidateTemplate("Hello {{customer_name}"); err == nil {
		t.Error("unmatched braces accepted")
	}
	if err := es.ValidateTemplate("Hello {{no_such_var}}"); err == nil {
		t.Error("unknown variable accepted")
	}
}

func TestDefaultProposalTemplatesAreValid(t *testing.T) {
	es := NewEmailService(nil)
	if err := es.ValidateTemplate(defaultProposalSubject); err != nil {
		t.Errorf("subject template invalid: %v", err)
	}
	if err := es.ValidateTemplate(defaultProposalBody); err != nil {
		t.Errorf("body template invalid: %v", err)
	}
}

func TestProcessTemplateSinglePass(t *testing.T) {
	es := NewEmailService(nil)
	data := models.EmailData{
		// A value that looks like a placeholder must come through literally,
		// never expanded against the other variables.
		CustomerName: "{{total}}",
		Total:        "999.00",
	}

	out, err := es.processTemplate("Hi {{customer_name}}, total ${{total}}", data)
	if err != nil {
		t.Fatalf("processTemplate: %v", err)
	}
	want := "Hi {{total}}, total $999.00"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	// Same input, same output, every time.
	for i := 0; i < 20; i++ {
		again, err := es.processTemplate("Hi {{customer_name}}, total ${{total}}", data)
		if err != nil {
			t.Fatalf("processTemplate: %v", err)
		}
		if again != out {
			t.Fatalf("expected deterministic output, got %q then %q", out, again)
		}
	}
}

func TestProcessTemplateUnknownVariableKeptLiteral(t *testing.T) {
	es := NewEmailService(nil)
	out, err := es.processTemplate("Hi {{customer_name}}, see {{not_a_variable}}", models.EmailData{CustomerName: "Maria"})
	if err != nil {
		t.Fatalf("processTemplate: %v", err)
	}
	if out != "Hi Maria, see {{not_a_variable}}" {
		t.Errorf("expected unknown placeholder kept literal, got %q", out)
	}
}
