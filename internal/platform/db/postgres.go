package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a new PostgreSQL connection pool.
func New(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("platform/db: new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return pool, nil
}

// NewWithFallback connects to the primary DSN and falls back to the
// secondary when the primary is unreachable. The fallback is attempted
// once; a failure there is final.
func NewWithFallback(ctx context.Context, dsn, fallbackDSN string) (*pgxpool.Pool, bool, error) {
	pool, err := New(ctx, dsn)
	if err == nil {
		return pool, false, nil
	}
	if fallbackDSN == "" {
		return nil, false, err
	}
	pool, fbErr := New(ctx, fallbackDSN)
	if fbErr != nil {
		return nil, false, fmt.Errorf("platform/db: primary: %w (fallback also failed: %v)", err, fbErr)
	}
	return pool, true, nil
}
