// Package dbopen picks a db.Repository implementation from a database URL.
package dbopen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/db/postgres"
	"github.com/jusunglee/fidelbot/internal/db/sqlite"
)

// IsPostgres reports whether url names a PostgreSQL database.
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Open connects to PostgreSQL for postgres:// URLs and treats anything else
// as a SQLite file path.
func Open(ctx context.Context, url string) (db.Repository, error) {
	if url == "" {
		return nil, errors.New("database url is empty")
	}
	if IsPostgres(url) {
		repo, err := postgres.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("creating PostgreSQL connection: %w", err)
		}
		return repo, nil
	}
	repo, err := sqlite.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating SQLite database: %w", err)
	}
	return repo, nil
}
