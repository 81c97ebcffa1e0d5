// ABOUTME: HTTP client for the chatbot backend with the /api path fallback
// ABOUTME: Attaches X-Client-Id, decodes JSON, maps cancellation to ErrAborted

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// HeaderClientID carries the visitor's client identifier.
	HeaderClientID = "X-Client-Id"

	// DefaultRequestTimeout bounds background calls (config, history, lead).
	DefaultRequestTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20
)

// IdentitySource supplies the client identifier sent with every request.
type IdentitySource interface {
	ClientID() string
}

// Client talks to one resolved API base.
type Client struct {
	base           string
	ids            IdentitySource
	http           *http.Client
	requestTimeout time.Duration
	logger         *slog.Logger
}

// New creates a client for base (see ResolveBase). A nil httpClient uses
// http.DefaultClient; a nil logger uses slog.Default().
func New(base string, ids IdentitySource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:           withTrailingSlash(base),
		ids:            ids,
		http:           httpClient,
		requestTimeout: DefaultRequestTimeout,
		logger:         logger.With("component", "gateway"),
	}
}

// SetRequestTimeout changes the bound applied to background calls. Zero or
// negative disables it.
func (c *Client) SetRequestTimeout(d time.Duration) {
	c.requestTimeout = d
}

// Base returns the resolved API base, always ending in a slash.
func (c *Client) Base() string {
	return c.base
}

// URL returns the absolute URL for path.
func (c *Client) URL(path string) string {
	return JoinURL(c.base, path)
}

// Call sends one request and decodes a JSON response into out (which may
// be nil). body, when non-nil, is sent as JSON.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	url := c.URL(path)
	res, err := c.exchange(ctx, method, url, payload)
	if err != nil {
		return err
	}
	if res.ok() {
		return res.decode(out)
	}

	firstErr := res.statusError(url)
	if res.status != http.StatusNotFound {
		return firstErr
	}
	alt, ok := apiFallbackURL(url)
	if !ok {
		return firstErr
	}

	c.logger.Debug("retrying under /api", "url", url, "fallback", alt)
	res, err = c.exchange(ctx, method, alt, payload)
	switch {
	case errors.Is(err, ErrAborted):
		return err
	case err == nil && res.ok():
		return res.decode(out)
	}
	return firstErr
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r *response) decode(out any) error {
	if out == nil || r.status == http.StatusNoContent || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (r *response) statusError(url string) *StatusError {
	return &StatusError{Status: r.status, URL: url, Body: string(r.body)}
}

// exchange performs one HTTP round trip and reads the whole body. The
// context is checked once, after the exchange finishes.
func (c *Client) exchange(ctx context.Context, method, url string, payload []byte) (*response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ids != nil {
		req.Header.Set(HeaderClientID, c.ids.ClientID())
	}

	start := time.Now()
	resp, doErr := c.http.Do(req)
	var body []byte
	var readErr error
	status := 0
	if doErr == nil {
		status = resp.StatusCode
		body, readErr = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Debug("request aborted", "method", method, "url", url)
		return nil, fmt.Errorf("%s %s: %w: %w", method, url, ErrAborted, ctxErr)
	}
	if doErr != nil {
		return nil, fmt.Errorf("sending request: %w", doErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading response: %w", readErr)
	}

	c.logger.Debug("request completed",
		"method", method,
		"url", url,
		"status", status,
		"duration", time.Since(start))

	return &response{status: status, body: body}, nil
}

// background bounds a non-interactive call by the request timeout.
func (c *Client) background(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}
