package apiclient

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 64 << 10
)

// Envelope is the standard response body of the API.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type Client struct {
	BaseURL     string
	HTTP        *http.Client
	Credentials *Credentials
	Notifier    Notifier
	Loading     *LoadingTracker
	Log         *zap.Logger
	Timeout     time.Duration
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{},
		Credentials: NewCredentials(""),
		Log:         log,
		Timeout:     DefaultTimeout,
	}
}

type requestConfig struct {
	timeout      time.Duration
	withoutToken bool
	header       http.Header
}

type RequestOption func(*requestConfig)

// WithTimeout overrides the client timeout for one request.
func WithTimeout(d time.Duration) RequestOption {
	return func(c *requestConfig) { c.timeout = d }
}

// WithoutToken sends the request without the Authorization header.
func WithoutToken() RequestOption {
	return func(c *requestConfig) { c.withoutToken = true }
}

func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) { c.header.Set(key, value) }
}

func Get[T any](ctx context.Context, c *Client, path string, params url.Values, opts ...RequestOption) (Envelope[T], error) {
	return do[T](ctx, c, http.MethodGet, path, params, nil, opts)
}

func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Envelope[T], error) {
	return do[T](ctx, c, http.MethodPost, path, nil, body, opts)
}

func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Envelope[T], error) {
	return do[T](ctx, c, http.MethodPut, path, nil, body, opts)
}

func Delete[T any](ctx context.Context, c *Client, path string, params url.Values, opts ...RequestOption) (Envelope[T], error) {
	return do[T](ctx, c, http.MethodDelete, path, params, nil, opts)
}

func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (Envelope[T], error) {
	return do[T](ctx, c, http.MethodPatch, path, nil, body, opts)
}

// RequestWithLoading performs the request while the client's loading
// indicator is held. GET and DELETE send params, the others send body.
func RequestWithLoading[T any](ctx context.Context, c *Client, method, path string, body any, params url.Values, opts ...RequestOption) (Envelope[T], error) {
	switch method {
	case http.MethodGet, http.MethodDelete:
		body = nil
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		params = nil
	default:
		err := fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
		c.notify(err)
		return Envelope[T]{}, err
	}

	end := c.Loading.Begin()
	defer end()
	return do[T](ctx, c, method, path, params, body, opts)
}

func do[T any](ctx context.Context, c *Client, method, path string, params url.Values, body any, opts []RequestOption) (Envelope[T], error) {
	env, err := send[T](ctx, c, method, path, params, body, opts)
	if err != nil {
		c.logger().Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		c.notify(err)
	}
	return env, err
}

func send[T any](ctx context.Context, c *Client, method, path string, params url.Values, body any, opts []RequestOption) (Envelope[T], error) {
	var env Envelope[T]

	cfg := requestConfig{timeout: c.Timeout, header: http.Header{}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, params, body, cfg)
	if err != nil {
		return env, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return env, fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		case errors.Is(err, context.Canceled):
			return env, err
		}
		return env, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := statusError(resp, method, path)
		if se.Status == http.StatusUnauthorized {
			c.Credentials.Clear()
		}
		return env, se
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return env, fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return env, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return decodeEnvelope[T](raw, resp.StatusCode)
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body any, cfg requestConfig) (*http.Request, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + params.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	for k, vs := range cfg.header {
		req.Header[k] = vs
	}

	if !cfg.withoutToken {
		if tok := c.Credentials.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func statusError(resp *http.Response, method, path string) *StatusError {
	se := &StatusError{Status: resp.StatusCode, Method: method, Path: path}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var p errorPayload
		if json.Unmarshal(raw, &p) == nil {
			se.Message = p.Message
			if p.Path != "" {
				se.Path = p.Path
			}
			return se
		}
	}
	se.Message = strings.TrimSpace(string(raw))
	return se
}

// decodeEnvelope accepts both enveloped and bare payloads. A bare payload is
// wrapped with the HTTP status as its code.
func decodeEnvelope[T any](raw []byte, status int) (Envelope[T], error) {
	var env Envelope[T]
	if len(bytes.TrimSpace(raw)) == 0 {
		env.Code = status
		env.Message = http.StatusText(status)
		return env, nil
	}

	var keys map[string]json.RawMessage
	if json.Unmarshal(raw, &keys) == nil && hasEnvelopeKeys(keys) {
		if err := json.Unmarshal(raw, &env); err != nil {
			return env, fmt.Errorf("decode response: %w", err)
		}
		if env.Code != http.StatusOK {
			return env, &EnvelopeError{Code: env.Code, Message: env.Message}
		}
		return env, nil
	}

	if err := json.Unmarshal(raw, &env.Data); err != nil {
		return env, fmt.Errorf("decode response: %w", err)
	}
	env.Code = status
	env.Message = http.StatusText(status)
	return env, nil
}

func hasEnvelopeKeys(m map[string]json.RawMessage) bool {
	for _, k := range []string{"code", "message", "data"} {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) notify(err error) {
	if c.Notifier == nil {
		return
	}
	if msg := notification(err); msg != "" {
		c.Notifier.Notify(msg)
	}
}
