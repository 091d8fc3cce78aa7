package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assokit/assokit/pkg/pg"
	"github.com/assokit/assokit/pkg/rbac/pgstore"
)

func connect(ctx context.Context, cfg appConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "Connected to postgres")
	return pool, nil
}

func runMigrate(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg.DB, log); err != nil {
		return err
	}
	log.InfoContext(ctx, "Migrations applied")
	return nil
}
