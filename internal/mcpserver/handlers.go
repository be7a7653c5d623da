package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ritee123/loginsight/internal/advisor"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *LoginsightClient
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *LoginsightClient) *Handlers {
	return &Handlers{client: client}
}

// HandleGetSuspiciousSummary returns the actionable-alert report.
func (h *Handlers) HandleGetSuspiciousSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window := req.GetString("window", "24-hour")
	category := req.GetString("category", "")

	raw, err := h.client.GetSuspiciousSummary(ctx, window, category)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch summary: %v", err)), nil
	}

	var body struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse summary: %v", err)), nil
	}

	return mcp.NewToolResultText(body.Summary), nil
}

// HandleGetDashboardMetrics returns aggregate metrics as readable text.
func (h *Handlers) HandleGetDashboardMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")

	raw, err := h.client.GetDashboardMetrics(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch metrics: %v", err)), nil
	}

	text, err := formatMetrics(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse metrics: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleGetSecurityAlerts returns the alert feed as readable text.
func (h *Handlers) HandleGetSecurityAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "")

	raw, err := h.client.GetSecurityAlerts(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch alerts: %v", err)), nil
	}

	text, err := formatAlerts(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse alerts: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}

// HandleRemediationAdvice runs the shared rule table locally.
func (h *Handlers) HandleRemediationAdvice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reason, err := req.RequireString("reason")
	if err != nil {
		return mcp.NewToolResultError("reason is required"), nil
	}

	var b strings.Builder
	b.WriteString("Recommended actions:\n")
	for _, action := range advisor.RecommendAll(reason) {
		fmt.Fprintf(&b, "- %s\n", action)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatMetrics(raw json.RawMessage) (string, error) {
	var m struct {
		TotalLogins     int `json:"totalLogins"`
		AnomalousLogins int `json:"anomalousLogins"`
		ActiveUsers     int `json:"activeUsers"`
		CriticalAlerts  int `json:"criticalAlerts"`
		AvgRiskScore    int `json:"avgRiskScore"`
		NewDevices      int `json:"newDevices"`
		TopRiskCountries []struct {
			Country   string `json:"country"`
			Count     int    `json:"count"`
			RiskScore int    `json:"riskScore"`
		} `json:"topRiskCountries"`
		RiskDistribution []struct {
			Level      string `json:"level"`
			Count      int    `json:"count"`
			Percentage int    `json:"percentage"`
		} `json:"riskDistribution"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Login activity metrics:\n")
	fmt.Fprintf(&b, "- Total logins: %d (%d anomalous)\n", m.TotalLogins, m.AnomalousLogins)
	fmt.Fprintf(&b, "- Active users: %d\n", m.ActiveUsers)
	fmt.Fprintf(&b, "- Critical alerts: %d\n", m.CriticalAlerts)
	fmt.Fprintf(&b, "- Average risk score: %d\n", m.AvgRiskScore)
	fmt.Fprintf(&b, "- New devices: %d\n", m.NewDevices)

	if len(m.TopRiskCountries) > 0 {
		b.WriteString("- Top risk countries:\n")
		for _, c := range m.TopRiskCountries {
			fmt.Fprintf(&b, "  - %s: %d logins, risk score %d\n", c.Country, c.Count, c.RiskScore)
		}
	}
	if len(m.RiskDistribution) > 0 {
		b.WriteString("- Severity distribution:\n")
		for _, s := range m.RiskDistribution {
			fmt.Fprintf(&b, "  - %s: %d (%d%%)\n", s.Level, s.Count, s.Percentage)
		}
	}
	return b.String(), nil
}

func formatAlerts(raw json.RawMessage) (string, error) {
	var body struct {
		Alerts []struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			Username    string    `json:"username"`
			Email       string    `json:"email"`
			Timestamp   time.Time `json:"timestamp"`
			IPAddress   string    `json:"ipAddress"`
			Country     string    `json:"country"`
			Severity    string    `json:"severity"`
		} `json:"alerts"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", err
	}

	if body.Count == 0 {
		return "No security alerts in the requested window.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d security alerts (newest first):\n", body.Count)
	for i, a := range body.Alerts {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n", i+1, a.Title, a.Severity)
		fmt.Fprintf(&b, "   Account: %s\n", a.Username)
		fmt.Fprintf(&b, "   Time: %s\n", a.Timestamp.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(&b, "   Source: %s", a.IPAddress)
		if a.Country != "" {
			fmt.Fprintf(&b, " (%s)", a.Country)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   Reason: %s\n", a.Description)
	}
	return b.String(), nil
}
