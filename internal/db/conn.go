package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings sizes the PostgreSQL pool behind the history store. Zero
// fields keep whatever the database URL (or pgx) chose.
type PoolSettings struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolSettings fits the history workload: one short INSERT per
// transliteration and occasional reads from /history and the web API.
var DefaultPoolSettings = PoolSettings{
	MaxConns:          5,
	MinConns:          1,
	MaxConnLifetime:   5 * time.Minute,
	MaxConnIdleTime:   30 * time.Second,
	HealthCheckPeriod: time.Minute,
}

func poolConfig(databaseURL string, settings PoolSettings) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing history database URL: %w", err)
	}
	if settings.MaxConns > 0 {
		config.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		config.MinConns = settings.MinConns
	}
	if settings.MaxConnLifetime > 0 {
		config.MaxConnLifetime = settings.MaxConnLifetime
	}
	if settings.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = settings.MaxConnIdleTime
	}
	if settings.HealthCheckPeriod > 0 {
		config.HealthCheckPeriod = settings.HealthCheckPeriod
	}
	return config, nil
}

// NewPool opens the history pool and pings it once so a bad URL or
// unreachable server fails at startup.
func NewPool(ctx context.Context, databaseURL string, settings PoolSettings) (*pgxpool.Pool, error) {
	config, err := poolConfig(databaseURL, settings)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating history pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging history database: %w", err)
	}
	return pool, nil
}
