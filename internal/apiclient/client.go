// Package apiclient is the HTTP client for the gamer hub REST API. It attaches
// the session's bearer token, normalizes list payloads and classifies failures
// into NetworkError, HTTPError and AuthError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gamerhub/internal/models"
	"gamerhub/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 8 << 20

// Credentials is the session state the client reads and updates.
type Credentials interface {
	Token() string
	Establish(ctx context.Context, token string, user models.User) error
	// Expire forgets the session if it still holds the rejected token.
	Expire(ctx context.Context, rejected string) error
	Logout(ctx context.Context) error
}

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	creds   Credentials
	log     *observability.APILogger
}

const defaultTimeout = 15 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller's client is
// used as is; WithTimeout does not modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		creds:   creds,
		log:     observability.NewAPILogger("gamerhub-api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// call describes one request. route is the templated path used for metrics
// and span names so ids do not explode label cardinality.
type call struct {
	method string
	path   string
	route  string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	start := time.Now()
	ctx, _ = observability.EnsureCorrelationID(ctx)
	span, ctx := observability.NewSpan(ctx, "apiclient "+cl.method+" "+cl.route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.AddAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.route),
	)

	status := 0
	defer func() {
		observability.ObserveAPICall(cl.method, cl.route, status, start)
		if err != nil {
			span.SetError(err)
			c.log.LogError(ctx, cl.method, cl.path, err)
			return
		}
		c.log.LogResponse(ctx, cl.method, cl.path, status, time.Since(start))
	}()

	var body io.Reader
	if cl.body != nil {
		payload, merr := json.Marshal(cl.body)
		if merr != nil {
			return fmt.Errorf("encode %s %s: %w", cl.method, cl.path, merr)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", observability.ExtractCorrelationID(ctx))
	var token string
	if c.creds != nil {
		token = c.creds.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	observability.InjectHeaders(ctx, req.Header)

	c.log.LogRequest(ctx, cl.method, cl.path)
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: cl.method, Path: cl.path, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.AddAttributes(attribute.Int("http.status_code", status))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Method: cl.method, Path: cl.path, Err: err}
	}

	if status < 200 || status > 299 {
		return c.statusError(ctx, cl, token, status, raw)
	}

	if cl.out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, cl call, sent string, status int, raw []byte) error {
	httpErr := &HTTPError{Method: cl.method, Path: cl.path, Status: status}

	var payload models.ErrorResponse
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		httpErr.Message = payload.Error
		httpErr.Code = payload.Code
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		httpErr.Message = text
	}

	if status != http.StatusUnauthorized {
		return httpErr
	}
	if c.creds != nil && sent != "" {
		if err := c.creds.Expire(ctx, sent); err != nil {
			c.log.LogError(ctx, cl.method, cl.path, fmt.Errorf("expire session: %w", err))
		}
	}
	return &AuthError{HTTPError: httpErr}
}

func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError("Content cannot be empty")
	}
	return trimmed, nil
}

func validateID(name string, id uint) error {
	if id == 0 {
		return models.NewValidationError("Invalid " + name)
	}
	return nil
}
