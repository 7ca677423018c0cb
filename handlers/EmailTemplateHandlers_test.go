package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/services"

	"github.com/gin-gonic/gin"
)

func emailRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	emailService := services.NewEmailService(nil)
	r := gin.New()
	r.GET("/api/email/variables", GetEmailTemplateVariables(emailService))
	r.POST("/api/email/preview", PreviewEmailTemplate(emailService))
	return r
}

func TestGetEmailTemplateVariables(t *testing.T) {
	r := emailRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/email/variables", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Variables []struct {
			Key         string `json:"key"`
			Description string `json:"description"`
		} `json:"variables"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Variables) == 0 {
		t.Fatal("expected at least one template variable")
	}
	keys := map[string]bool{}
	for _, v := range resp.Variables {
		keys[v.Key] = true
	}
	for _, want := range []string{"customer_name", "quote_number", "total", "portal_url"} {
		if !keys[want] {
			t.Errorf("expected variable %q to be listed", want)
		}
	}
}

func TestPreviewEmailTemplate(t *testing.T) {
	r := emailRouter()
	payload := map[string]interface{}{
		"body": "<p>Hi {{customer_name}},</p><p>Proposal {{quote_number}} totals ${{total}}.</p>",
		"data": map[string]string{
			"customer_name": "Maria Garcia",
			"quote_number":  "Q-AB12345",
			"total":         "550.00",
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/email/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Preview string `json:"preview"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Preview, "Hi Maria Garcia,") {
		t.Errorf("expected substituted greeting, got %q", resp.Preview)
	}
	if !strings.Contains(resp.Preview, "Proposal Q-AB12345 totals $550.00.") {
		t.Errorf("expected substituted totals line, got %q", resp.Preview)
	}
	if strings.Contains(resp.Preview, "<p>") {
		t.Errorf("expected plain text preview, got %q", resp.Preview)
	}
}

func TestPreviewEmailTemplateRejectsUnknownVariable(t *testing.T) {
	r := emailRouter()
	body, _ := json.Marshal(map[string]interface{}{"body": "Hi {{no_such_variable}}"})
	req := httptest.NewRequest(http.MethodPost, "/api/email/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown variable, got %d: %s", rec.Code, rec.Body.String())
	}
}
