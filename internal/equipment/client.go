package equipment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StatusFetcher is the remote API surface. *Client implements it; tests substitute
// their own.
type StatusFetcher interface {
	Source
	HealthCheck(ctx context.Context) (HealthPayload, error)
}

var _ StatusFetcher = (*Client)(nil)

// Client talks to the equipment status HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	DefaultBaseURL   = "http://localhost:7071/api"
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "linewatch/0.1"

	statusPath    = "v1/equipment-status"
	healthPath    = "health"
	maxHealthBody = 64 << 10
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request/response events.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL, e.g.
// "http://localhost:7071/api". An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client resolves requests against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchEquipmentStatus queries /v1/equipment-status. Only set filters are sent.
func (c *Client) FetchEquipmentStatus(ctx context.Context, filters Filters) (*StatusResponse, error) {
	const op = "fetch equipment status"
	if c == nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("client is nil")}
	}
	rel := &url.URL{Path: statusPath, RawQuery: encodeFilters(filters).Encode()}
	var payload StatusResponse
	err := c.doURL(ctx, op, rel, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&payload)
	})
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// HealthCheck probes /health and returns the raw body.
func (c *Client) HealthCheck(ctx context.Context) (HealthPayload, error) {
	const op = "health check"
	if c == nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("client is nil")}
	}
	var payload HealthPayload
	err := c.doURL(ctx, op, &url.URL{Path: healthPath}, func(body io.Reader) error {
		raw, err := io.ReadAll(io.LimitReader(body, maxHealthBody))
		if err != nil {
			return err
		}
		payload, err = normalizeHealth(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// normalizeHealth keeps JSON bodies as-is and wraps plain-text bodies such as
// "ok" into a JSON string.
func normalizeHealth(raw []byte) (HealthPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return HealthPayload("null"), nil
	}
	if json.Valid(trimmed) {
		return HealthPayload(trimmed), nil
	}
	return json.Marshal(string(trimmed))
}

func encodeFilters(f Filters) url.Values {
	values := url.Values{}
	if status := strings.TrimSpace(f.Status); status != "" {
		values.Set("status", status)
	}
	if kind := strings.TrimSpace(f.EquipmentType); kind != "" {
		values.Set("equipmentType", kind)
	}
	if location := strings.TrimSpace(f.Location); location != "" {
		values.Set("location", location)
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

func (c *Client) doURL(ctx context.Context, op string, rel *url.URL, decode func(io.Reader) error) error {
	reqURL := c.baseURL.ResolveReference(rel)
	fail := func(status int, err error) error {
		return &TransportError{Op: op, URL: reqURL.String(), StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	c.log.Debug().Str("request_id", requestID).Str("method", req.Method).Str("url", reqURL.String()).Msg("api request")
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("request_id", requestID).Str("url", reqURL.String()).Msg("api request failed")
		return fail(0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Str("url", reqURL.String()).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Warn().Str("request_id", requestID).Int("status", resp.StatusCode).Str("url", reqURL.String()).Msg("api error response")
		return fail(resp.StatusCode, nil)
	}
	if decode == nil {
		return nil
	}
	if err := decode(resp.Body); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// parseBaseURL normalizes the API root so relative endpoint paths resolve beneath it.
func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
