// Package portalclient reads job and talent listings from a running job portal
// API. It satisfies nearby.JobSource and nearby.TalentSource so the CLI can
// resolve maps against a remote server.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobportal/internal/nearby"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "jobportal-cli/1.0"

// maxBodyBytes caps how much of a listing response is read.
const maxBodyBytes = 8 << 20

// Error represents a failed API call.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("portal API error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("portal API error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Token, when set, is sent as a bearer token.
	Token string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client calls the listing endpoints of one portal server.
type Client struct {
	base *url.URL
	http *http.Client
	opts Options
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &Client{base: parsed, http: httpClient, opts: *opts}, nil
}

// GetAllJobs returns the open job listings as a JSON array.
func (c *Client) GetAllJobs(ctx context.Context) (json.RawMessage, error) {
	return c.list(ctx, "/api/jobs", "jobs")
}

// GetAllTalent returns the public job seeker profiles as a JSON array.
func (c *Client) GetAllTalent(ctx context.Context) (json.RawMessage, error) {
	return c.list(ctx, "/api/employees", "employees")
}

// list GETs path and unwraps the array stored under key. Bare arrays are
// passed through unchanged. Anything else is returned as-is and left for the
// resolver to reject.
func (c *Client) list(ctx context.Context, path, key string) (json.RawMessage, error) {
	endpoint := c.base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			URL:        endpoint,
			Message:    fmt.Sprintf("HTTP status %d%s", resp.StatusCode, apiMessage(body)),
			StatusCode: resp.StatusCode,
		}
	}

	return unwrap(body, key), nil
}

func unwrap(body []byte, key string) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return trimmed
	}
	if inner, ok := envelope[key]; ok {
		return inner
	}
	return trimmed
}

// apiMessage extracts the server's {"error": "..."} text, if any.
func apiMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil || e.Error == "" {
		return ""
	}
	return ": " + e.Error
}

var (
	_ nearby.JobSource    = (*Client)(nil)
	_ nearby.TalentSource = (*Client)(nil)
)
