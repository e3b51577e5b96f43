package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apperror"
)

const (
	DefaultLoginURL       = "/login"
	DefaultCSRFCookieName = "csrftoken"
	DefaultCSRFHeaderName = "X-CSRFToken"
	DefaultTimeout        = 30 * time.Second

	RequestIDHeader = "X-Request-ID"
)

var ErrInvalidBaseURL = errors.New("base url must be absolute")

// API is the request surface repositories depend on.
type API interface {
	Get(ctx context.Context, path string, opts ...Option) (*Response, error)
	Post(ctx context.Context, path string, body any, opts ...Option) (*Response, error)
	Put(ctx context.Context, path string, body any, opts ...Option) (*Response, error)
	Patch(ctx context.Context, path string, body any, opts ...Option) (*Response, error)
	Delete(ctx context.Context, path string, opts ...Option) (*Response, error)
	Download(ctx context.Context, path string, w io.Writer, opts ...Option) (int64, error)
}

// Config holds the adapter settings. Zero values fall back to the Default* constants.
type Config struct {
	BaseURL        string
	LoginURL       string
	CSRFCookieName string
	CSRFHeaderName string
	// Timeout applies to the built-in client, and to HTTPClient when its own
	// Timeout is zero.
	Timeout time.Duration

	// OnUnauthorized runs for every 401 response, before the call fails.
	OnUnauthorized func(loginURL string)

	Metrics    *Metrics
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Response is the envelope returned for every 2xx response.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RawBody sends an already encoded body, e.g. multipart form data.
type RawBody struct {
	Reader      io.Reader
	ContentType string
}

// Client talks to the annotation API with credentials (cookies) always attached.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cfg        Config
	logger     *slog.Logger
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	if cfg.CSRFCookieName == "" {
		cfg.CSRFCookieName = DefaultCSRFCookieName
	}
	if cfg.CSRFHeaderName == "" {
		cfg.CSRFHeaderName = DefaultCSRFHeaderName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &hc,
		baseURL:    base,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Jar exposes the cookie jar holding the session and CSRF cookies.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

func (c *Client) Get(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

// Delete sends a DELETE; use WithBody for endpoints that expect a body (bulk delete).
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

// Download streams a successful GET response body into w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer, opts ...Option) (int64, error) {
	ro := collectOptions(opts)

	resp, requestID, start, err := c.send(ctx, http.MethodGet, path, nil, ro)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return 0, c.fail(http.MethodGet, path, requestID, start, resp.StatusCode, data)
	}

	n, err := io.Copy(w, resp.Body)
	c.finish(http.MethodGet, path, requestID, start, resp.StatusCode)
	if err != nil {
		return n, fmt.Errorf("failed to read download body: %w", err)
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []Option) (*Response, error) {
	ro := collectOptions(opts)
	if body == nil {
		body = ro.body
	}

	resp, requestID, start, err := c.send(ctx, method, path, body, ro)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics().observe(method, 0, time.Since(start))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(method, path, requestID, start, resp.StatusCode, data)
	}

	c.finish(method, path, requestID, start, resp.StatusCode)

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Data:   data,
	}, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any, ro requestOptions) (*http.Response, string, time.Time, error) {
	start := time.Now()

	target, err := c.resolve(path, ro.query)
	if err != nil {
		return nil, "", start, err
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, "", start, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, "", start, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if isMutating(method) {
		if token := c.csrfToken(target); token != "" {
			req.Header.Set(c.cfg.CSRFHeaderName, token)
		}
	}
	for k, vs := range ro.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics().observe(method, 0, time.Since(start))
		c.logger.Debug("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, "", start, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	return resp, requestID, start, nil
}

func (c *Client) fail(method, path, requestID string, start time.Time, status int, data []byte) error {
	c.finish(method, path, requestID, start, status)

	if status == http.StatusUnauthorized && c.cfg.OnUnauthorized != nil {
		c.cfg.OnUnauthorized(c.cfg.LoginURL)
	}

	return apperror.New(status, data)
}

func (c *Client) finish(method, path, requestID string, start time.Time, status int) {
	elapsed := time.Since(start)
	c.metrics().observe(method, status, elapsed)
	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", status,
		"duration", elapsed,
		"request_id", requestID,
	)
}

func (c *Client) metrics() *Metrics {
	return c.cfg.Metrics
}

// resolve joins path onto the base URL. Absolute URLs (pagination links) are used as is.
func (c *Client) resolve(path string, query Params) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}

	var target url.URL
	if ref.IsAbs() {
		target = *ref
	} else {
		target = *c.baseURL
		target.Path = c.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")
		target.RawPath = ""
		target.RawQuery = ref.RawQuery
	}

	if len(query) > 0 {
		values := target.Query()
		for k, vs := range query.Values() {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
		target.RawQuery = values.Encode()
	}

	return &target, nil
}

// csrfToken reads the CSRF cookie fresh from the jar.
func (c *Client) csrfToken(target *url.URL) string {
	for _, ck := range c.httpClient.Jar.Cookies(target) {
		if ck.Name == c.cfg.CSRFCookieName {
			return ck.Value
		}
	}
	return ""
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case RawBody:
		return b.Reader, b.ContentType, nil
	case *RawBody:
		return b.Reader, b.ContentType, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}
