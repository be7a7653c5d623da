package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to the Loginsight API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// LoginsightClient is a pure HTTP client for the Loginsight API.
type LoginsightClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewLoginsightClient creates a new client for the Loginsight API.
func NewLoginsightClient(cfg Config) *LoginsightClient {
	return &LoginsightClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes a GET request to the API and returns the response body.
func (c *LoginsightClient) doRequest(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// GetSuspiciousSummary fetches the actionable-alert report.
func (c *LoginsightClient) GetSuspiciousSummary(ctx context.Context, window, category string) (json.RawMessage, error) {
	q := url.Values{}
	if window != "" {
		q.Set("window", window)
	}
	if category != "" {
		q.Set("category", category)
	}
	return c.doRequest(ctx, "/v1/summary", q)
}

// GetDashboardMetrics fetches the aggregate dashboard metrics.
func (c *LoginsightClient) GetDashboardMetrics(ctx context.Context, date string) (json.RawMessage, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	return c.doRequest(ctx, "/v1/dashboard/metrics", q)
}

// GetSecurityAlerts fetches the alert feed.
func (c *LoginsightClient) GetSecurityAlerts(ctx context.Context, date string) (json.RawMessage, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	return c.doRequest(ctx, "/v1/alerts", q)
}
