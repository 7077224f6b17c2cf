// Package apiclient is the JSON-over-HTTP wrapper every remote call of the
// storefront goes through. It attaches the bearer credential, enforces a
// per-call ceiling and folds failures into ErrNetwork, ErrTimeout, ErrAuth or
// ErrRequest.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// TokenSource yields the current bearer credential, or "" for anonymous calls.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL        string
	timeout        time.Duration
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	log            *slog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook registers fn to run whenever a call comes back 401.
// The session gate uses it to drop the stored credential.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, query, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, body, out)
}

// Do performs one request. out may be nil; an empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrRequest, Method: method, Endpoint: endpoint, Message: "encode body", Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(callCtx, method, target, reader)
	if err != nil {
		return &Error{Kind: ErrRequest, Method: method, Endpoint: endpoint, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, callCtx, method, endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if resp.StatusCode >= 400 {
		return c.statusError(ctx, method, endpoint, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, callCtx, method, endpoint, err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: ErrNetwork, Method: method, Endpoint: endpoint, Status: resp.StatusCode,
			Message: "decode response", Err: err}
	}
	return nil
}

func (c *Client) fail(parent, callCtx context.Context, method, endpoint string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		c.log.Warn("api call timed out", slog.String("method", method), slog.String("endpoint", endpoint),
			slog.Duration("ceiling", c.timeout))
		return &Error{Kind: ErrTimeout, Method: method, Endpoint: endpoint, Message: "request timeout", Err: err}
	}
	if parent.Err() != nil {
		return &Error{Kind: ErrNetwork, Method: method, Endpoint: endpoint, Message: "cancelled", Err: parent.Err()}
	}
	c.log.Error("api request failed", slog.String("method", method), slog.String("endpoint", endpoint),
		slog.Any("err", err))
	return &Error{Kind: ErrNetwork, Method: method, Endpoint: endpoint, Err: err}
}

func (c *Client) statusError(ctx context.Context, method, endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &Error{
		Method:   method,
		Endpoint: endpoint,
		Status:   resp.StatusCode,
		Message:  errorMessage(raw, resp.Status),
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e.Kind = ErrAuth
		c.log.Warn("credential rejected, clearing session", slog.String("endpoint", endpoint))
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	case resp.StatusCode >= 500:
		e.Kind = ErrNetwork
	default:
		e.Kind = ErrRequest
	}
	return e
}

// errorMessage understands {"error": "..."}, {"detail": "..."} and
// {"message": "..."} envelopes and falls back to the status line.
func errorMessage(raw []byte, status string) string {
	var env struct {
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return status
	}
	for _, f := range []json.RawMessage{env.Error, env.Detail} {
		var s string
		if len(f) > 0 && json.Unmarshal(f, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if len(f) > 0 && json.Unmarshal(f, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	if env.Message != "" {
		return env.Message
	}
	return status
}
