package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the Loginsight MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolGetSuspiciousSummary = mcp.NewTool("get_suspicious_summary",
	mcp.WithDescription(
		"Get a plain-text report of actionable suspicious login attempts. "+
			"Covers High and Critical anomalies the detector explicitly flagged, "+
			"with remediation recommendations per alert. "+
			"Use this when a user asks about suspicious activity or security incidents."),
	mcp.WithString("window",
		mcp.Description("Time window: 'recent' (last 5 minutes) or '24-hour' (last 24 hours, default)"),
		mcp.Enum("recent", "24-hour")),
	mcp.WithString("category",
		mcp.Description("Optional filter on the anomaly reason, e.g. 'new country' or 'new device'")),
)

var ToolGetDashboardMetrics = mcp.NewTool("get_dashboard_metrics",
	mcp.WithDescription(
		"Get aggregate login-activity metrics: total and anomalous logins, active users, "+
			"critical alerts, average risk score, top risk countries, hourly trends, "+
			"severity distribution, and new-device count."),
	mcp.WithString("date",
		mcp.Description("Day to report on, formatted YYYY-MM-DD. Omit for the trailing 24 hours.")),
)

var ToolGetSecurityAlerts = mcp.NewTool("get_security_alerts",
	mcp.WithDescription(
		"List the most recent security alerts (up to 20, newest first). "+
			"Each alert carries the affected account, anomaly reason, severity, and network provenance."),
	mcp.WithString("date",
		mcp.Description("Day to report on, formatted YYYY-MM-DD. Omit for the trailing 24 hours.")),
)

var ToolRemediationAdvice = mcp.NewTool("remediation_advice",
	mcp.WithDescription(
		"Get remediation guidance for an anomaly reason string. "+
			"Runs locally against the engine's rule table; use it for quick replies "+
			"when the user pastes an alert reason and asks what to do."),
	mcp.WithString("reason",
		mcp.Required(),
		mcp.Description("The anomaly reason text, e.g. 'Suspicious login flagged: new IP address'")),
)
