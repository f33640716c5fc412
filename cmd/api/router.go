package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/urlproc"
	"bookshelf/internal/version"

	"go.uber.org/zap"
)

const (
	appName        = "bookshelf"
	apiPrefix      = "/api/v1"
	maxRequestBody = 1 << 20
)

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	books   *book.HTTPHandler
	urls    *urlproc.HTTPHandler
	ready   pinger // nil when running without a database
	metrics *httpx.Metrics
	limiter *httpx.RateLimitMiddleware
	cfg     config.Config
	logger  *zap.Logger
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.ping(r.Context()); err != nil {
			d.logger.Warn("readiness check failed", zap.Error(err))
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := d.ping(r.Context()); err != nil {
			d.logger.Warn("health check failed", zap.Error(err))
			httpx.JSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "unhealthy",
				"error":   "database unreachable",
				"app":     appName,
				"version": version.Version,
			})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"app":     appName,
			"version": version.Version,
		})
	})
	router.Handle("GET /metrics", d.metrics.Handler())
	router.HandleFunc("GET "+apiPrefix+"/version", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, version.Map())
	})

	d.books.Register(router, apiPrefix)
	d.urls.Register(router, apiPrefix)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.CORSAllowedOrigins),
		d.limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(maxRequestBody),
		d.metrics.Middleware,
	)
}

func (d routerDeps) ping(ctx context.Context) error {
	if d.ready == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return d.ready.Ping(ctx)
}
