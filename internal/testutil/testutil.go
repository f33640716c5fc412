package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/notify"
)

// Compile-time interface check.
var _ notify.Notifier = (*Notifier)(nil)

// FixedTime is the timestamp used by test fixtures.
var FixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// TestBook is a persisted book for testing
var TestBook = book.Book{
	ID:          42,
	Title:       "Dune",
	Author:      "Frank Herbert",
	Year:        1965,
	ISBN:        "9780441013593",
	Description: "Spice and sandworms",
	CreatedAt:   FixedTime,
	UpdatedAt:   FixedTime,
}

// Books returns n distinct persisted books with ids 1..n.
func Books(n int) []book.Book {
	out := make([]book.Book, n)
	for i := range out {
		out[i] = book.Book{
			ID:        int64(i + 1),
			Title:     "Book " + string(rune('A'+i%26)),
			Author:    "Author",
			Year:      2000 + i,
			CreatedAt: FixedTime,
			UpdatedAt: FixedTime,
		}
	}
	return out
}

// Notifier records notifications for later inspection.
type Notifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *Notifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

// Successes returns a copy of the recorded success messages.
func (n *Notifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

// Errors returns a copy of the recorded error messages.
func (n *Notifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

// RecordedRequest is a request seen by a Server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server is an httptest server that records requests and delegates to a
// swappable handler.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	handler  http.HandlerFunc
}

// NewServer starts a Server. Call Close when done.
func NewServer(handler http.HandlerFunc) *Server {
	s := &Server{handler: handler}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		h := s.handler
		s.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}))
	return s
}

// Handle swaps the handler for subsequent requests.
func (s *Server) Handle(handler http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// JSON returns a handler that answers status with v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ErrorBody is the API error envelope.
func ErrorBody(message, code string) map[string]any {
	return map[string]any{"success": false, "error": message, "code": code}
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	if bodyBytes == nil {
		return httptest.NewRequest(method, path, nil)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
	r.Header.Set("Content-Type", "application/json")
	return r
}
