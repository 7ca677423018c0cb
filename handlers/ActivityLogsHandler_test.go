package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func activityLogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// The handlers reject these requests before touching the database.
	r.POST("/api/activity-logs", CreateActivityLogHandler(nil))
	return r
}

func TestCreateActivityLogRequiresAuth(t *testing.T) {
	r := activityLogRouter()
	body, _ := json.Marshal(map[string]string{
		"event_context": "quote",
		"event_name":    "view",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/activity-logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Authorization header, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateActivityLogRejectsMissingFields(t *testing.T) {
	r := activityLogRouter()
	body, _ := json.Marshal(map[string]string{"description": "no event fields"})
	req := httptest.NewRequest(http.MethodPost, "/api/activity-logs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing event fields, got %d: %s", rec.Code, rec.Body.String())
	}
}
