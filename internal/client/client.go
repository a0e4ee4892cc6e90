package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// MiddlewareClient defines the read-only surface of the middleware HTTP API.
type MiddlewareClient interface {
	GetSystemStatus(ctx context.Context) (SystemStatus, error)
	GetLists(ctx context.Context) ([]ListSummary, error)
	GetItems(ctx context.Context, listID ID) ([]ListItem, error)
	GetAppointments(ctx context.Context) ([]Appointment, error)
	GetHealth(ctx context.Context) (*MiddlewareHealth, error)
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	InsecureSkipVerify bool
	// RequestTimeout bounds every request. Zero means no client-wide timeout;
	// callers bound individual calls with a context instead.
	RequestTimeout time.Duration
	UserAgent      string
}

// DefaultClient implements MiddlewareClient on top of imroc/req.
type DefaultClient struct {
	http   *req.Client
	config ClientConfig
}

const defaultUserAgent = "casamatriz-dashboard"

// maxResponseBytes caps how much of a response body is read.
var maxResponseBytes int64 = 32 * 1024 * 1024

var (
	ErrBaseURLRequired  = errors.New("client: base url is required")
	ErrResponseTooLarge = errors.New("client: response body exceeds limit")
)

// NewDefaultClient constructs a DefaultClient from the given config.
// Returns an error if BaseURL is empty or not an absolute http(s) URL.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	hc := req.C().
		SetBaseURL(cfg.BaseURL).
		SetUserAgent(cfg.UserAgent).
		SetCommonHeader("Accept", "application/json").
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
	if cfg.RequestTimeout > 0 {
		hc.SetTimeout(cfg.RequestTimeout)
	}
	if cfg.InsecureSkipVerify {
		hc.EnableInsecureSkipVerify()
	}

	return &DefaultClient{
		http:   hc,
		config: cfg,
	}, nil
}

// BaseURL returns the configured base URL of the middleware.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// doGet performs a GET request to path (relative to BaseURL) with the given
// query parameters and returns the response body, read through a
// maxResponseBytes limit. Non-2xx responses become an *APIError when the body
// carries an {"error": ...} payload, and a plain status error otherwise.
func (c *DefaultClient) doGet(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	r := c.http.R().
		SetContext(ctx).
		DisableAutoReadResponse()
	if len(query) > 0 {
		r.SetQueryParams(query)
	}

	resp, err := r.Get(path)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxResponseBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.StatusCode = resp.StatusCode
			return nil, &apiErr
		}
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

func statusError(code int, body []byte) error {
	return fmt.Errorf("unexpected status %d: %s", code, truncate(body, 200))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
