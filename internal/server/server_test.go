package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritee123/loginsight/internal/activity"
	"github.com/ritee123/loginsight/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig returns a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Env:               "development",
		LogLevel:          "error",
		ExternalAlertsTTL: 30 * time.Second,
		AlertPollInterval: time.Second,
		RateLimitRPM:      6000,
	}
}

// newTestServer creates a server backed by a seeded in-memory store
func newTestServer(t *testing.T, records ...activity.LoginRecord) *Server {
	t.Helper()

	store := activity.NewMemoryStore()
	for i := range records {
		if err := store.Insert(context.Background(), &records[i]); err != nil {
			t.Fatalf("Failed to seed store: %v", err)
		}
	}

	s, err := New(testConfig(), WithStore(store))
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	s.router.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// Health endpoint tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/health")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/health/live")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestReadinessBeforeRun(t *testing.T) {
	s := newTestServer(t)

	// Run() has not been called, so the server must not report ready.
	w := get(t, s, "/health/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/metrics")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Middleware tests
// ---------------------------------------------------------------------------

func TestSecurityHeadersAndRequestID(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/health")

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected X-Content-Type-Options header")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-from-lb")
	s.router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-from-lb" {
		t.Errorf("Expected propagated request ID, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// API route tests
// ---------------------------------------------------------------------------

func TestDashboardMetricsRoute(t *testing.T) {
	s := newTestServer(t, activity.LoginRecord{
		UserID:          7,
		Email:           "analyst@example.com",
		Timestamp:       time.Now().Add(-time.Hour),
		IPAddress:       "203.0.113.9",
		LoginSuccessful: true,
		Status:          "success",
		Severity:        activity.SeverityLow,
	})

	w := get(t, s, "/v1/dashboard/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalLogins int `json:"totalLogins"`
		ActiveUsers int `json:"activeUsers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.TotalLogins != 1 || resp.ActiveUsers != 1 {
		t.Errorf("Unexpected metrics: %+v", resp)
	}
}

func TestDashboardMetricsInvalidDate(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/v1/dashboard/metrics?date=not-a-date")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "invalid_date" {
		t.Errorf("Expected invalid_date error, got %v", resp["error"])
	}
}

func TestExternalAlertsUnconfigured(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/v1/alerts/external")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("Expected empty feed, got count %d", resp.Count)
	}
}

func TestInfoEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(t, s, "/api")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}
