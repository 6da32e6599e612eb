// Package api implements the HTTP client for the library backend.
//
// The client is a thin, typed wrapper over the REST contract: every method
// maps to exactly one endpoint, maps non-2xx statuses to typed errors
// (errors.go) and retries transient failures a bounded number of times.
//
// Retry policy, per operation class:
//   - authentication: 1 retry
//   - reads (GET):    2 retries
//   - mutations:      no retry (a replayed POST is not idempotent)
//
// Only transport failures and transient statuses (408, 429, 5xx) are
// retried; definitive client errors fail immediately.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Retry budgets per operation class.
const (
	authRetries = 1
	readRetries = 2
)

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 10 * time.Second

// Client talks to the library backend.
//
// Client is stateless apart from configuration and safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
// Tests use this to point the client at an httptest server transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout bounds a single HTTP attempt. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the backend at baseURL (e.g. "http://localhost:8080").
// A trailing slash on baseURL is tolerated.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET with the read retry budget and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, readRetries, out)
}

// mutate issues a write request with no retries.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, 0, out)
}

// do performs one request with up to retries additional attempts.
//
// out may be nil for endpoints with no response body of interest.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, retries int, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body for %s: %w", op, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request", "op", op, "attempt", attempt, "error", lastErr)
		}

		err := c.attempt(ctx, method, path, query, payload, op, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(err) {
			break
		}
	}

	c.logger.Warn("request failed", "op", op, "error", lastErr)
	return lastErr
}

// attempt performs exactly one HTTP round trip.
func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload []byte, op string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return transportError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return statusError(op, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
