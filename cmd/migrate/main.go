package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"bookshelf/internal/config"
	"bookshelf/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
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

	dsn, dir := target(cfg)
	if *command == "create" {
		if err := create(dir, *name); err != nil {
			logger.Fatal("Failed to create migration", zap.Error(err))
		}
		logger.Info("Migration created", zap.String("name", *name), zap.String("dir", dir))
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("dsn", cfg.RedactedDSN()), zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("Failed to set dialect", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			logger.Fatal("Failed to rollback migrations", zap.Error(err))
		}
		logger.Info("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			logger.Fatal("Failed to check migration status", zap.Error(err))
		}
	default:
		logger.Fatal("Unknown command, use: up, down, status, create", zap.String("command", *command))
	}
}

// target resolves where migrations run. Migrations always need a database,
// so an unset DB_DSN falls back to the local development one.
func target(cfg config.Config) (dsn, dir string) {
	dsn = cfg.DBDSN
	if dsn == "" {
		dsn = config.DefaultDSN
	}
	dir = cfg.MigrationsDir
	if dir == "" {
		dir = config.DefaultMigrationsDir
	}
	return dsn, dir
}

func create(dir, name string) error {
	if name == "" {
		return errors.New("name is required for 'create' command")
	}
	return goose.Create(nil, dir, name, "sql")
}
