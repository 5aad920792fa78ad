// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/scanstation/auth"
)

// DefaultBaseURL is used when no API URL is configured
const DefaultBaseURL = "http://127.0.0.1:8081"

// Error is returned when the backend responds with a non-2xx status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %d: %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// Rejected reports whether the backend refused the request itself (4xx),
// as opposed to failing to process it.
func (e *Error) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}

// envelope is the backend's response wrapper
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the events backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	session    *auth.Session
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// New creates a client. A nil session sends unauthenticated requests.
func New(baseURL string, session *auth.Session, opts ...Option) *Client {
	if session == nil {
		session = auth.NewSession()
	}
	c := &Client{
		BaseURL: ResolveBaseURL(baseURL),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: session,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session returns the session the client authenticates with
func (c *Client) Session() *auth.Session {
	return c.session
}

// ResolveBaseURL applies the default host and makes sure the URL ends in /api
func ResolveBaseURL(raw string) string {
	url := strings.TrimRight(strings.TrimSpace(raw), "/")
	if url == "" {
		url = DefaultBaseURL
	}
	if strings.HasSuffix(url, "/api") {
		return url
	}
	return url + "/api"
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		// Error bodies are best effort; fall back to the status text
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
