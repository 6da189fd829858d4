package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/metrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transliterations (
    id BIGSERIAL PRIMARY KEY,
    source TEXT NOT NULL,
    channel_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    input TEXT NOT NULL,
    output TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transliterations_channel_created
    ON transliterations (channel_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_transliterations_user_created
    ON transliterations (user_id, created_at);
`

const selectColumns = `id, source, channel_id, user_id, input, output, created_at`

// Repository implements db.Repository using PostgreSQL via pgx
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository and applies the schema.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	pool, err := db.NewPool(ctx, databaseURL, db.DefaultPoolSettings)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// PoolStats exposes connection pool statistics for metrics export.
func (r *Repository) PoolStats() *pgxpool.Stat {
	return r.pool.Stat()
}

// ExportPoolStats copies pool statistics into Prometheus gauges every
// interval until ctx is done.
func (r *Repository) ExportPoolStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := r.PoolStats()
			metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
			metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
			metrics.DBPoolMaxConns.Set(float64(s.MaxConns()))
		case <-ctx.Done():
			return
		}
	}
}

func (r *Repository) CreateTransliteration(ctx context.Context, arg db.CreateTransliterationParams) (db.Transliteration, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transliterations (source, channel_id, user_id, input, output)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+selectColumns,
		arg.Source, arg.ChannelID, arg.UserID, arg.Input, arg.Output)

	t, err := scanTransliteration(row)
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("inserting transliteration: %w", err)
	}
	return t, nil
}

func (r *Repository) GetTransliteration(ctx context.Context, id int64) (db.Transliteration, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM transliterations WHERE id = $1`, id)
	return scanTransliteration(row)
}

func (r *Repository) ListRecentTransliterations(ctx context.Context, arg db.ListRecentTransliterationsParams) ([]db.Transliteration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM transliterations
		WHERE channel_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, arg.ChannelID, arg.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing transliterations: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Transliteration, error) {
		return scanRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning transliterations: %w", err)
	}
	return out, nil
}

func (r *Repository) CountTransliterationsByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transliterations WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transliterations: %w", err)
	}
	return count, nil
}

func (r *Repository) DeleteTransliterationsBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transliterations WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("deleting transliterations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRow(row pgx.Row) (db.Transliteration, error) {
	var t db.Transliteration
	err := row.Scan(&t.ID, &t.Source, &t.ChannelID, &t.UserID, &t.Input, &t.Output, &t.CreatedAt)
	return t, err
}

func scanTransliteration(row pgx.Row) (db.Transliteration, error) {
	t, err := scanRow(row)
	if err != nil {
		return db.Transliteration{}, db.NotFound(err)
	}
	return t, nil
}
