// Package client is the single request pipeline between the CLI and the
// NutriBattle backend. It attaches the session's bearer token, decodes
// responses into the schemas in package api, and turns any 401 into a
// forced logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nutribattle/nutribattle/internal/cli/guard"
)

const (
	// DefaultTimeout applies when no timeout is configured
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 10 << 20
)

// TokenSource is the part of the session store the client needs
type TokenSource interface {
	Token() string
	// Invalidate clears the session if token is still current and reports
	// whether this call cleared it
	Invalidate(token string) bool
}

// Client represents an HTTP client for the NutriBattle API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	nav        guard.Navigator
	logger     zerolog.Logger
	userAgent  string

	// schema validates decoded responses against `validate` tags
	schema *validator.Validate
	// binding validates request bodies against the same `binding` tags the
	// backend checks
	binding *validator.Validate

	// shuffle is swapped in tests for deterministic fallbacks
	shuffle func(n int, swap func(i, j int))
	random  func() float64
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets the client's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new API client. tokens and nav may be nil for
// unauthenticated use.
func New(baseURL string, tokens TokenSource, nav guard.Navigator, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:    tokens,
		nav:       nav,
		logger:    zerolog.Nop(),
		userAgent: "nutribattle-cli",
		schema:    newValidator("validate"),
		binding:   newValidator("binding"),
		shuffle:   defaultShuffle,
		random:    defaultRandom,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

func newValidator(tag string) *validator.Validate {
	v := validator.New()
	v.SetTagName(tag)
	// Report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// checkRequest validates a request body before it is sent
func (c *Client) checkRequest(body any) error {
	if err := c.binding.Struct(body); err != nil {
		return fromValidator(err)
	}
	return nil
}

// request describes one call through the pipeline
type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do sends the request and decodes a success payload into out. out may be
// nil, or a *string to receive the raw body.
func (c *Client) do(ctx context.Context, r request, out any) error {
	fullURL := c.baseURL + r.path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// The token sent is the one a 401 invalidates
	var token string
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("request_id", requestID).
			Str("method", r.method).
			Str("path", r.path).
			Dur("duration", time.Since(start)).
			Msg("Request failed")
		return &NetworkError{Method: r.method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Method: r.method, URL: fullURL, Err: err}
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		c.rejectSession(token)
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data), Body: data}
	}
	if resp.StatusCode >= 400 {
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data), Body: data}
	}

	return c.decode(r.path, data, out)
}

// rejectSession clears the session that produced a 401 and sends the user to
// the login route. Only the request that actually cleared the session
// navigates, so concurrent 401s redirect once.
func (c *Client) rejectSession(token string) {
	if c.tokens == nil || !c.tokens.Invalidate(token) {
		return
	}
	c.logger.Info().Msg("Backend rejected the session token, logging out")
	if c.nav != nil {
		c.nav.Navigate(guard.RouteLogin, true)
	}
}

// errorMessage extracts the backend's message from an error body
func errorMessage(status int, data []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%s (status %d)", text, status)
	}
	return fmt.Sprintf("request failed (status %d)", status)
}

type defaulter interface {
	Defaults()
}

// decode unmarshals a success payload, applies schema defaults and checks
// required fields
func (c *Client) decode(path string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if raw, ok := out.(*string); ok {
		*raw = strings.TrimSpace(string(data))
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &SchemaError{Path: path, Err: fmt.Errorf("empty body")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &SchemaError{Path: path, Err: err}
	}

	v := reflect.ValueOf(out).Elem()
	switch v.Kind() {
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err := c.finish(v.Index(i)); err != nil {
				return &SchemaError{Path: fmt.Sprintf("%s[%d]", path, i), Err: err}
			}
		}
	case reflect.Struct:
		if err := c.finish(v); err != nil {
			return &SchemaError{Path: path, Err: err}
		}
	}
	return nil
}

// finish applies Defaults and validates one decoded struct
func (c *Client) finish(v reflect.Value) error {
	if v.Kind() != reflect.Struct {
		return nil
	}
	if v.CanAddr() {
		if d, ok := v.Addr().Interface().(defaulter); ok {
			d.Defaults()
		}
		return c.schema.Struct(v.Addr().Interface())
	}
	return c.schema.Struct(v.Interface())
}
