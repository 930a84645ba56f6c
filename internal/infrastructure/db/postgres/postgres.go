package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	defaultRetryAttempts = 3
	defaultRetryInterval = 2 * time.Second
)

// Config captures the settings for establishing a PostgreSQL connection pool.
type Config struct {
	DSN      string
	MaxConns int32
}

// Connect establishes a pgx connection pool and verifies connectivity with a
// ping. Transient startup failures are retried with a linear backoff so the
// service survives a database that comes up a moment after it does.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	var lastErr error
	for i := range defaultRetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * defaultRetryInterval)
			continue
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			lastErr = err
			time.Sleep(time.Duration(i+1) * defaultRetryInterval)
			continue
		}

		return pool, nil
	}

	return nil, fmt.Errorf("postgres connect: %w", lastErr)
}

// Migrate applies the embedded goose migrations. The pgx pool is bridged to
// database/sql because goose speaks the standard library interface.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
