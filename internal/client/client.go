// Package client talks to a running station over its HTTP API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"qrgate/internal/core/gate"
	perr "qrgate/internal/platform/errors"
	metahttp "qrgate/internal/services/api/meta/http"
	"qrgate/internal/services/station/domain"
)

// Client is a station API client. Idempotent calls are retried while the
// station reports itself unavailable
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// WithRetry sets how many attempts idempotent calls get and the pause between them
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.backoff = backoff
	}
}

// New creates a client for the station at baseURL, e.g. http://localhost:4000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
		backoff:    250 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the station root
func (c *Client) BaseURL() string { return c.baseURL }

// State returns the station snapshot
func (c *Client) State(ctx context.Context) (domain.Snapshot, error) {
	var out domain.Snapshot
	err := c.retry(ctx, func() error { return c.do(ctx, http.MethodGet, "/api/v1/station/state", nil, &out) })
	return out, err
}

// Config returns the page configuration
func (c *Client) Config(ctx context.Context) (domain.PageConfig, error) {
	var out domain.PageConfig
	err := c.retry(ctx, func() error { return c.do(ctx, http.MethodGet, "/api/v1/station/config", nil, &out) })
	return out, err
}

// Ready returns the readiness report
func (c *Client) Ready(ctx context.Context) (metahttp.ReadyResponse, error) {
	var out metahttp.ReadyResponse
	err := c.retry(ctx, func() error { return c.do(ctx, http.MethodGet, "/api/v1/meta/ready", nil, &out) })
	return out, err
}

// Rearm arms the station. Rearm is idempotent so it is retried
func (c *Client) Rearm(ctx context.Context, source string) (domain.Snapshot, error) {
	var out domain.Snapshot
	in := domain.RearmRequest{Source: source}
	err := c.retry(ctx, func() error { return c.do(ctx, http.MethodPost, "/api/v1/station/rearm", in, &out) })
	return out, err
}

// Scan delivers one decoded payload. It is sent once; a retry could be
// acted upon after a re-arm
func (c *Client) Scan(ctx context.Context, text string) (gate.Decision, error) {
	var out gate.Decision
	err := c.do(ctx, http.MethodPost, "/api/v1/station/scan", domain.ScanRequest{Text: text}, &out)
	return out, err
}

// ReportError reports a scanner failure
func (c *Client) ReportError(ctx context.Context, message string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/station/error", domain.ErrorRequest{Message: message}, nil)
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i < c.attempts; i++ {
		if err = fn(); err == nil || !perr.Retryable(err) {
			return err
		}
		if i == c.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(c.backoff * time.Duration(i+1)):
		}
	}
	return err
}

// envelope mirrors the server response body
type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	RequestID  string          `json:"request_id"`
	Data       json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "marshal request")
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "read response")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return statusError(resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode response")
	}
	if resp.StatusCode >= 400 {
		if env.Code == perr.ErrorCodeUnknown {
			return statusError(resp.StatusCode, env.Error)
		}
		return perr.New(env.Code, env.Error)
	}
	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "decode data")
		}
	}
	return nil
}

// statusError maps a status without a project code onto the closest code
func statusError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return perr.Newf(perr.ErrorCodeUnavailable, "%d %s", status, msg)
	case http.StatusBadRequest:
		return perr.Newf(perr.ErrorCodeValidation, "%d %s", status, msg)
	default:
		return perr.New(perr.ErrorCodeUnknown, fmt.Sprintf("%d %s", status, msg))
	}
}
