package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/logging"
	"bookshelf/internal/urlproc"
	"bookshelf/internal/validation"
	"bookshelf/internal/version"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo    book.Repository
		urlRepo urlproc.Repository
		ready   pinger
	)
	if cfg.UseMemoryStore() {
		logger.Warn("DB_DSN not set, serving the sample catalog from memory")
		repo = book.NewMemoryRepo(book.SampleBooks())
		urlRepo = urlproc.NewMemoryRepo()
	} else {
		pool := mustOpenDB(ctx, cfg, logger)
		defer pool.Close()
		repo = book.NewPostgresRepo(pool, cfg.DBTimeout)
		urlRepo = urlproc.NewPostgresRepo(pool, cfg.DBTimeout)
		ready = pool
	}
	validator := validation.New()

	metrics := httpx.NewMetrics("bookshelf")
	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	handler := newRouter(routerDeps{
		books:   book.NewHTTPHandler(book.NewService(repo), validator, logger),
		urls:    urlproc.NewHTTPHandler(urlproc.NewService(urlRepo, cfg.URLRedirectHost, logger), validator, logger),
		ready:   ready,
		metrics: metrics,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("version", version.Version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func mustOpenDB(ctx context.Context, cfg config.Config, logger *zap.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("cannot create db pool", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Fatal("cannot ping database", zap.String("dsn", cfg.RedactedDSN()), zap.Error(err))
	}
	logger.Info("database connection OK")
	return pool
}
