// Package remote implements storage.Store against the companion file service.
// Every read and write is one HTTP round trip; nothing is cached locally.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmynk/gymlog/internal/auth"
)

// DefaultBaseURL is where the file service listens by default.
const DefaultBaseURL = "http://localhost:3001/api"

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned by ReadFile when the service reports 404.
var ErrNotFound = errors.New("file not found")

// StatusError is a non-2xx response from the file service.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: file service returned %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: file service returned %d", e.Op, e.Code)
}

// ClientName identifies this client in the tokens it sends.
const ClientName = "gymlog"

// Client talks to the file service endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenManager
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenManager signs every request with a fresh bearer token. A nil
// manager sends no Authorization header.
func WithTokenManager(m *auth.TokenManager) ClientOption {
	return func(c *Client) { c.tokens = m }
}

// NewClient builds a Client for baseURL (for example http://localhost:3001/api).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureDir asks the service to create its data directory.
func (c *Client) EnsureDir(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/ensure-dir", nil)
	if err != nil {
		return fmt.Errorf("failed to ensure data directory: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus("ensure-dir", resp)
}

// ReadFile returns the JSON content of name, or ErrNotFound.
func (c *Client) ReadFile(ctx context.Context, name string) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodGet, "/read-file?file="+url.QueryEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err := checkStatus("read-file", resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// WriteFile replaces name with data encoded as JSON.
func (c *Client) WriteFile(ctx context.Context, name string, data any) error {
	body, err := json.Marshal(struct {
		File string `json:"file"`
		Data any    `json:"data"`
	}{File: name, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/write-file", body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer resp.Body.Close()
	return checkStatus("write-file", resp)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Generate(ClientName)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	return &StatusError{Op: op, Code: resp.StatusCode, Message: payload.Error}
}
