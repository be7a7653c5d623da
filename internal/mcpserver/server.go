// Package mcpserver exposes the analytics engine to chat assistants as
// MCP tools. The summary, metrics, and alert tools call the HTTP API;
// remediation advice runs the shared rule table locally with no network
// round-trip.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all Loginsight tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("loginsight", "1.0.0")
	client := NewLoginsightClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolGetSuspiciousSummary, h.HandleGetSuspiciousSummary)
	s.AddTool(ToolGetDashboardMetrics, h.HandleGetDashboardMetrics)
	s.AddTool(ToolGetSecurityAlerts, h.HandleGetSecurityAlerts)
	s.AddTool(ToolRemediationAdvice, h.HandleRemediationAdvice)

	return s
}
