// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotFound marks a 404 from the backend. Callers that treat absence as a
// normal condition (missing floor plan) check for it with errors.Is.
var ErrNotFound = fmt.Errorf("resource not found")

// TokenSource supplies the bearer token for outgoing requests and refreshes
// it when the backend rejects one.
type TokenSource interface {
	AccessToken() string
	Refresh(ctx context.Context) error
}

// Client is the POS backend API client. Every request carries the current
// access token; a 401 triggers one refresh-and-retry before the failure is
// surfaced. When the refresh itself fails the session is treated as
// terminated and the expiry hook fires.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *logrus.Logger

	// onSessionExpired is invoked once per terminal-wide logout, when a
	// token refresh after a 401 fails.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithSessionExpiredHook registers the callback fired when the session can
// no longer be refreshed.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, tokens TokenSource, logger *logrus.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one API call, decoding the response into out when out is
// non-nil. The request body is re-marshaled on retry so the 401 path can
// replay it safely.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(ctx); err != nil {
			return err
		}

		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.expireSession()
			return fmt.Errorf("backend rejected refreshed session")
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: backend returned status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend for %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) refresh(ctx context.Context) error {
	if err := c.tokens.Refresh(ctx); err != nil {
		c.logger.WithError(err).Warn("Token refresh failed, session terminated")
		c.expireSession()
		return fmt.Errorf("session expired: %w", err)
	}
	return nil
}

func (c *Client) expireSession() {
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
