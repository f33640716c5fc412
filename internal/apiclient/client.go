// Package apiclient talks to the bookshelf REST API. Every request is a single
// attempt bounded by the client timeout; failures are surfaced to the user
// through a notify.Notifier (except 404s) and returned as *Error.
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

	"bookshelf/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "http://localhost:8080/api/v1"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "bookshelf-client/1.0"

	requestIDHeader = "X-Request-Id"
	genericMessage  = "An unexpected error occurred"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	notifier   notify.Notifier
	logger     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		notifier:   notify.Nop{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error describes a failed request. StatusCode is zero when no response was
// received.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Code       string
	Details    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports whether the server answered 404.
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is an *Error for a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// errorBody accepts both {"error":"msg"} and {"error":{"code","message"}}.
type errorBody struct {
	Success bool            `json:"success"`
	Error   json.RawMessage `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Do sends one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.fail(&Error{Method: method, Path: path, Message: err.Error(), Err: err})
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(&Error{Method: method, Path: path, Message: transportMessage(err), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(c.responseError(method, path, resp))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(&Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    "invalid response from server",
			Err:        err,
		})
	}
	return nil
}

func (c *Client) responseError(method, path string, resp *http.Response) *Error {
	apiErr := &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Request failed with status code %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return apiErr
	}

	apiErr.Code = eb.Code
	apiErr.Details = rawText(eb.Details)

	var msg string
	if err := json.Unmarshal(eb.Error, &msg); err == nil && msg != "" {
		apiErr.Message = msg
		return apiErr
	}
	var nested nestedError
	if err := json.Unmarshal(eb.Error, &nested); err == nil && nested.Message != "" {
		apiErr.Message = nested.Message
		if apiErr.Code == "" {
			apiErr.Code = nested.Code
		}
	}
	return apiErr
}

// fail logs the error and notifies the user for everything but 404.
func (c *Client) fail(apiErr *Error) error {
	if apiErr.Message == "" {
		apiErr.Message = genericMessage
	}
	c.logger.Debug("api request failed",
		zap.String("method", apiErr.Method),
		zap.String("path", apiErr.Path),
		zap.Int("status", apiErr.StatusCode),
		zap.String("message", apiErr.Message),
	)
	if !apiErr.NotFound() {
		c.notifier.Error(apiErr.Message)
	}
	return apiErr
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "request timed out"
		}
		if urlErr.Err != nil {
			return urlErr.Err.Error()
		}
	}
	return err.Error()
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
