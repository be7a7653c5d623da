package extalerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ritee123/loginsight/internal/security"
)

// Client fetches the advisory alert feed from an upstream HTTP source.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a feed client. The URL is validated against SSRF
// targets up front: the feed URL comes from configuration, and a
// misconfigured internal address should fail at startup, not at fetch
// time.
func NewClient(rawURL string) (*Client, error) {
	if err := security.ValidateUpstreamURL(rawURL); err != nil {
		return nil, fmt.Errorf("external alerts URL: %w", err)
	}
	return &Client{
		url:  rawURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Fetch retrieves the current alert list. Satisfies FetchFunc.
func (c *Client) Fetch(ctx context.Context) ([]Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch external alerts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("external alert source returned %d", resp.StatusCode)
	}

	var payload struct {
		Alerts []Alert `json:"alerts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode external alerts: %w", err)
	}
	if payload.Alerts == nil {
		payload.Alerts = []Alert{}
	}
	return payload.Alerts, nil
}
