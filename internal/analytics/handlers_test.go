package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritee123/loginsight/internal/activity"
)

func newTestRouter(t *testing.T, records []*activity.LoginRecord) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := activity.NewMemoryStore()
	ctx := context.Background()
	for _, rec := range records {
		require.NoError(t, store.Insert(ctx, rec))
	}

	svc := NewService(store, WithClock(func() time.Time { return testNow }))
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/v1"))
	return r
}

func TestDashboardMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, []*activity.LoginRecord{
		{UserID: 1, Email: "a@x.com", Timestamp: testNow.Add(-time.Hour), LoginSuccessful: true},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/dashboard/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var m DashboardMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 1, m.TotalLogins)
	assert.Len(t, m.LoginTrends, 24)
}

func TestDashboardMetricsBadDateReturns400(t *testing.T) {
	r := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/dashboard/metrics?date=garbage", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_date", body["error"])
}

func TestAlertsEndpoint(t *testing.T) {
	r := newTestRouter(t, []*activity.LoginRecord{
		{
			Email:         "a@x.com",
			Timestamp:     testNow.Add(-time.Hour),
			IsAnomaly:     true,
			Severity:      activity.SeverityHigh,
			AnomalyReason: "Suspicious login flagged: new device",
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/alerts", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Alerts []SecurityAlert `json:"alerts"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Anomalous Login Detected", body.Alerts[0].Title)
	assert.Equal(t, "new", body.Alerts[0].Status)
}

func TestLoginsEndpoint(t *testing.T) {
	r := newTestRouter(t, []*activity.LoginRecord{
		{UserID: 1, Email: "a@x.com", Timestamp: testNow.Add(-time.Hour), DeviceType: "Mobile", Country: "Nepal"},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/logins", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Attempts []AttemptView `json:"attempts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Attempts, 1)
	assert.True(t, body.Attempts[0].IsNewDevice)
	assert.True(t, body.Attempts[0].IsNewLocation)
}

func TestSummaryEndpointDefaultsTo24Hour(t *testing.T) {
	r := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["summary"], "24 hours")
}

func TestSummaryEndpointRecent(t *testing.T) {
	r := newTestRouter(t, []*activity.LoginRecord{
		{
			Email:         "a@x.com",
			Timestamp:     testNow.Add(-time.Minute),
			IsAnomaly:     true,
			Severity:      activity.SeverityCritical,
			AnomalyReason: "Suspicious login flagged: permanently blocked",
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/summary?window=recent", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["summary"], "5 minutes")
	assert.Contains(t, body["summary"], "permanently blocked")
}
