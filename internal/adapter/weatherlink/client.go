// Package weatherlink is the HTTP client for a WeatherLink Live device's
// local current-conditions interface.
package weatherlink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client fetches raw current-conditions documents from one device. It is
// stateless and safe to invoke repeatedly; retry policy belongs to the
// caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a client for the device at the given hostname or IP.
// The device serves plain HTTP on port 80 with no auth; an explicit port in
// host overrides that, which is how the simulator gets targeted.
func NewClient(host string, timeout time.Duration, logger *slog.Logger) *Client {
	if !strings.Contains(host, ":") {
		host += ":80"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: fmt.Sprintf("http://%s/v1/current_conditions", host),
		logger:  logger,
	}
}

// Fetch performs one GET against the device and returns the raw response
// body. Any transport-level failure — connection refused, DNS, timeout, or a
// non-200 status — comes back as an error for the caller's backoff policy.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current conditions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("device returned status %d: %s", resp.StatusCode, body)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("fetched current conditions", "bytes", len(raw))
	return raw, nil
}
