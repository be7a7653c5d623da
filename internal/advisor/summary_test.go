package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsActionable(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{"suspicious login flagged: new IP address", true},
		{"Suspicious Login Flagged: permanently blocked", true},
		{"SUSPICIOUS LOGIN FLAGGED", true},
		{"new IP address", false},
		{"login flagged as suspicious", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsActionable(tt.reason), "reason %q", tt.reason)
	}
}

func TestRenderSummaryEmptyRecent(t *testing.T) {
	got := RenderSummary(nil, "5 minutes", "")
	assert.Equal(t, "No actionable suspicious login attempts were found in the last 5 minutes.", got)
	assert.NotContains(t, got, "24 hours")
}

func TestRenderSummaryEmptyWithCategory(t *testing.T) {
	got := RenderSummary(nil, "24 hours", "new country")
	assert.Equal(t, `No actionable suspicious login attempts matching category "new country" were found in the last 24 hours.`, got)
}

func TestRenderSummarySingleAlert(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	got := RenderSummary([]SummaryAlert{{
		Email:     "analyst@example.com",
		Timestamp: ts,
		Severity:  "High",
		Reason:    "Suspicious login flagged: new IP address",
	}}, "5 minutes", "")

	assert.Contains(t, got, "1 actionable alert in the last 5 minutes")
	assert.Contains(t, got, "analyst@example.com")
	assert.Contains(t, got, "2025-06-01 14:30:00 UTC")
	assert.Contains(t, got, "Severity: High")
	assert.Contains(t, got, "Reason: Suspicious login flagged: new IP address")
	assert.Contains(t, got, "Verify the login location")

	// Exactly one alert block
	assert.Equal(t, 1, strings.Count(got, "- Reason:"))
}

func TestRenderSummaryMultipleAlertsKeepOrder(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	got := RenderSummary([]SummaryAlert{
		{Email: "first@example.com", Timestamp: ts, Severity: "Critical", Reason: "Suspicious login flagged: permanently blocked"},
		{Email: "second@example.com", Timestamp: ts.Add(-time.Minute), Severity: "High", Reason: "Suspicious login flagged: new device"},
	}, "24 hours", "")

	assert.Contains(t, got, "2 actionable alerts in the last 24 hours")
	first := strings.Index(got, "first@example.com")
	second := strings.Index(got, "second@example.com")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second, "alerts must render in the order given")
}
