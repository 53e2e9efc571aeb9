package pg

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies pending goose migrations from cfg.MigrationsPath. Goose
// works over database/sql, so the pool config is bridged through the pgx
// stdlib adapter for the duration of the run.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	if cfg.MigrationsPath == "" {
		return ErrMigrationPathNotProvided
	}
	if info, err := os.Stat(cfg.MigrationsPath); err != nil || !info.IsDir() {
		return ErrMigrationsDirNotFound
	}

	db := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer db.Close()

	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if log != nil {
		log.InfoContext(ctx, "database migrations applied",
			slog.String("path", cfg.MigrationsPath))
	}
	return nil
}
