package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/testutil"
	"bookshelf/internal/urlproc"
	"bookshelf/internal/validation"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, repo book.Repository, ready pinger) http.Handler {
	t.Helper()
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	v := validation.New()
	return newRouter(routerDeps{
		books:   book.NewHTTPHandler(book.NewService(repo), v, zap.NewNop()),
		urls:    urlproc.NewHTTPHandler(urlproc.NewService(urlproc.NewMemoryRepo(), cfg.URLRedirectHost, nil), v, zap.NewNop()),
		ready:   ready,
		metrics: httpx.NewMetrics("bookshelf"),
		limiter: httpx.NewRateLimitMiddleware(1000, 1000),
		cfg:     cfg,
		logger:  zap.NewNop(),
	})
}

func newTestServer(t *testing.T, ready pinger) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(t, book.NewMemoryRepo(book.SampleBooks()), ready))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, _ = get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ReadyzReportsDatabase(t *testing.T) {
	srv := newTestServer(t, fakePinger{err: errors.New("connection refused")})

	resp, _ := get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_HealthJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "bookshelf", health["app"])
	assert.Equal(t, "dev", health["version"])

	down := newTestServer(t, fakePinger{err: errors.New("connection refused")})
	resp, body = get(t, down.URL+"/health")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "unhealthy", health["status"])
	assert.NotContains(t, body, "connection refused")
}

func TestRouter_URLProcessing(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/v1/process-url", "application/json",
		strings.NewReader(`{"url":"https://Example.com/Books/?page=2","operation":"all"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var processed urlproc.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&processed))
	assert.Equal(t, "https://www.byfood.com/books", processed.ProcessedURL)

	resp2, body := get(t, srv.URL+"/api/v1/url-stats")
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Contains(t, body, `"total_requests":1`)
}

func TestRouter_BooksUnderV1Prefix(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/api/v1/books?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(httpx.RequestIDHeader))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var list book.ListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list.Data, 2)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 2, list.Limit)

	resp, _ = get(t, srv.URL+"/books")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_MetricsCountsRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	get(t, srv.URL+"/api/v1/books/1")
	_, body := get(t, srv.URL+"/metrics")

	assert.Contains(t, body, `route="GET /api/v1/books/{id}"`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/books", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_Version(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/api/v1/version")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, `"version":"dev"`), body)
}

func TestRouter_CreateThenDuplicateISBN(t *testing.T) {
	handler := newTestRouter(t, book.NewMemoryRepo(nil), nil)
	body := book.CreateRequest{Title: "Dune", Author: "Frank Herbert", Year: 1965, ISBN: "9780441172719"}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/v1/books", body))
	res := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "Book created successfully", res.Body["message"])
	data, ok := res.Body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["id"])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, testutil.NewRequest(http.MethodPost, "/api/v1/books", body))
	res = testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "DUPLICATE_ISBN", res.Body["code"])
	assert.NotEmpty(t, res.Header.Get(httpx.RequestIDHeader))
}
