package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bookshelf/internal/apiclient"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/logging"
	"bookshelf/internal/notify"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	viaAPI := flag.Bool("via-api", false, "Seed through the REST API at BOOKSHELF_API_URL instead of the database")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.NewConsole(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var dst catalog
	if *viaAPI {
		client := apiclient.New(cfg.APIURL,
			apiclient.WithTimeout(cfg.APITimeout),
			apiclient.WithNotifier(notify.NewLog(logger)),
			apiclient.WithLogger(logger),
		)
		dst = apiCatalog{books: apiclient.NewBookService(client)}
		logger.Info("Seeding through API", zap.String("url", cfg.APIURL))
	} else {
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = config.DefaultDSN
		}
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		dst = book.NewPostgresRepo(pool, cfg.DBTimeout)
		logger.Info("Seeding database", zap.String("dsn", cfg.RedactedDSN()))
	}

	res, err := seed(ctx, dst, book.SampleBooks(), logger)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Seeding finished", zap.Int("inserted", res.inserted), zap.Int("skipped", res.skipped))
}
