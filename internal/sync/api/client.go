// Package api is the HTTP client consumed by the state managers. Every
// method issues exactly one request, decodes the server's response envelope
// and returns either the typed payload or an error. There are no retries and
// no caching at this layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// APIError is a failure the server reported through the response envelope,
// as opposed to a transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Pagination mirrors the pagination block list endpoints return.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
	Limit      int   `json:"limit"`
}

// envelope is the uniform wire wrapper: {success, message?, data?, error?}.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokenFunc  func() string
	log        *logrus.Entry
}

type Option func(*Client)

// WithHTTPClient replaces the default transport, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTokenSource sets the callback that supplies the bearer token attached
// to every request. Credential handling lives entirely outside this package.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.tokenFunc = fn }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logrus.WithField("component", "api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request/response round trip. The envelope's error string is
// surfaced as an *APIError; transport and decode failures come back as plain
// wrapped errors. out, when non-nil, receives the envelope's data payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenFunc != nil {
		if token := c.tokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s %s: %w", method, path, err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		message := env.Error
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug(message)
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload from %s %s: %w", method, path, err)
		}
	}
	return nil
}
