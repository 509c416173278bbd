// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry is a thin client for the Event Registry news aggregation
// API. It translates filter sets into the service's query bodies, resolves
// human-readable labels to canonical URIs, and pages through article and
// event results. Authentication, retry and pagination all live here; callers
// treat returned records as opaque JSON.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/newsriver/internal/httputil"
	"github.com/pdiddy/newsriver/pkg/types"
)

// defaultBaseURL is the public Event Registry endpoint. Tests substitute an
// httptest server through RegistryConfig.BaseURL.
const defaultBaseURL = "https://eventregistry.org"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "newsriver/0.1"
)

// Client issues authenticated requests against the Event Registry API.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     types.RegistryConfig
}

// New builds a Client from cfg, filling in defaults for the base URL,
// timeout and user agent.
func New(cfg types.RegistryConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		cfg:     cfg,
	}
}

// post sends a JSON body to path and decodes the JSON response into out.
// The API key is injected into every body by the callers; transport-level
// failures are retried per the configured max-retry policy.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("event registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event registry returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing event registry response: %w", err)
	}
	return nil
}
