package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tecsupnav/placesadmin/internal/log"
	"github.com/tecsupnav/placesadmin/internal/storage"
)

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 30 * time.Second

// TokenSource yields the bearer token for the next request, or "".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StoredToken reads the token from the session storage on every call, so a
// login in another process is picked up without restarting.
func StoredToken(s storage.Store) TokenSource {
	return TokenFunc(func() string {
		tok, _, err := s.Get(storage.KeyAuthToken)
		if err != nil {
			return ""
		}
		return CleanToken(tok)
	})
}

// CleanToken returns "" for blank tokens and for the literal strings
// "undefined" and "null" left behind by broken writers.
func CleanToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "undefined" || tok == "null" {
		return ""
	}
	return tok
}

// RequestValidator checks an outgoing request before it is sent.
type RequestValidator interface {
	ValidateRequest(ctx context.Context, req *http.Request, body []byte) error
}

// Observer receives one call per finished request. status is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Client is the placesadmin backend API client. Every call goes through
// Do.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens    TokenSource
	logger    *log.Logger
	limiter   *rate.Limiter
	validator RequestValidator
	observer  Observer
	userAgent string
	users     UserEndpoints
}

// UserEndpoints locates the user roster endpoints.
type UserEndpoints struct {
	Google      string
	GoogleStats string
	All         string
}

// DefaultUserEndpoints are the backend's current paths.
func DefaultUserEndpoints() UserEndpoints {
	return UserEndpoints{
		Google:      "/users/google",
		GoogleStats: "/users/google/stats",
		All:         "/users",
	}
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger for request traces and service failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second. 0 disables.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithValidator validates every request before sending it.
func WithValidator(v RequestValidator) Option {
	return func(c *Client) { c.validator = v }
}

// WithObserver reports every request to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithUserEndpoints overrides the user roster paths. Empty fields keep
// their defaults.
func WithUserEndpoints(e UserEndpoints) Option {
	return func(c *Client) {
		if e.Google != "" {
			c.users.Google = e.Google
		}
		if e.GoogleStats != "" {
			c.users.GoogleStats = e.GoogleStats
		}
		if e.All != "" {
			c.users.All = e.All
		}
	}
}

// NewClient creates a backend client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens: TokenFunc(func() string { return "" }),
		logger: log.Nop(),
		users:  DefaultUserEndpoints(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a successful backend response. The body has been read in
// full.
type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	// JSON reports whether Raw parsed as JSON.
	JSON bool
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.JSON {
		return fmt.Errorf("response is not JSON: %q", truncate(string(r.Raw), 120))
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}

func decode[T any](resp *Response) (T, error) {
	var v T
	err := resp.Decode(&v)
	return v, err
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

// Post issues a POST request. body may be a Go value (sent as JSON) or an
// EncodedBody.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil)
}

// Do sends a request to BaseURL+endpoint. A nil body sends nothing; an
// EncodedBody is sent as-is with its own content type; any other value is
// sent as JSON. Non-2xx responses return *HTTPError, transport failures
// *ConnectivityError. Cancellation of ctx is returned unchanged.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx = log.ContextWithRequestID(ctx, requestID)
	logger := c.logger.WithContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if tok := CleanToken(c.tokens.Token()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	if c.validator != nil {
		if err := c.validator.ValidateRequest(ctx, req, payload); err != nil {
			return nil, &ContractError{Method: method, Path: endpoint, Cause: err}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	route := NormalizeRoute(endpoint)
	start := time.Now()
	logger.Debug("api request", "method", method, "url", c.BaseURL+endpoint)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.observe(method, route, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		logger.Debug("api transport failure", "method", method, "url", c.BaseURL+endpoint, "error", err.Error())
		return nil, &ConnectivityError{BaseURL: c.BaseURL, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.observe(method, route, resp.StatusCode, elapsed)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		return nil, &ConnectivityError{BaseURL: c.BaseURL, Cause: err}
	}

	logger.Debug("api response",
		"method", method,
		"url", c.BaseURL+endpoint,
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	isJSON := json.Valid(raw)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusText := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
		if statusText == "" {
			statusText = http.StatusText(resp.StatusCode)
		}
		return nil, &HTTPError{
			Method:     method,
			Endpoint:   endpoint,
			Status:     resp.StatusCode,
			StatusText: statusText,
			Message:    errorMessage(raw, resp.StatusCode, statusText),
			Body:       raw,
		}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Raw:    raw,
		JSON:   isJSON,
	}, nil
}

func (c *Client) observe(method, route string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, elapsed)
	}
}

// logFailure records a failed service call. The error itself is returned
// to the caller unchanged.
func (c *Client) logFailure(ctx context.Context, op string, err error, args ...any) {
	ctx = log.ContextWithOperation(ctx, op)
	c.logger.WithContext(ctx).WithError(err).WarnContext(ctx, "service call failed", args...)
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case EncodedBody:
		data, ct, err := b.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, ct, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// NormalizeRoute turns an endpoint into a low-cardinality route label:
// the query is dropped and identifier segments become ":id".
func NormalizeRoute(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	segs := strings.Split(strings.Trim(endpoint, "/"), "/")
	for i, s := range segs {
		if i == 0 || routeKeywords[s] {
			continue
		}
		segs[i] = ":id"
	}
	return "/" + strings.Join(segs, "/")
}

var routeKeywords = map[string]bool{
	"login":   true,
	"logout":  true,
	"profile": true,
	"stats":   true,
	"search":  true,
	"google":  true,
	"type":    true,
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
