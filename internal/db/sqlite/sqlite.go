package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jusunglee/fidelbot/internal/db"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Timestamps are stored as fixed-width UTC text so they compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository implements db.Repository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository
func New(ctx context.Context, dbPath string) (*Repository, error) {
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// shared across queries.
	sqliteDB.SetMaxOpenConns(1)

	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	slog.Debug("opened SQLite database", "path", dbPath)

	return &Repository{db: sqliteDB, now: time.Now}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) CreateTransliteration(ctx context.Context, arg db.CreateTransliterationParams) (db.Transliteration, error) {
	createdAt := r.now().UTC()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO transliterations (source, channel_id, user_id, input, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, arg.Source, arg.ChannelID, arg.UserID, arg.Input, arg.Output, createdAt.Format(timeLayout))
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("inserting transliteration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return db.Transliteration{}, fmt.Errorf("reading insert id: %w", err)
	}

	return r.GetTransliteration(ctx, id)
}

func (r *Repository) GetTransliteration(ctx context.Context, id int64) (db.Transliteration, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source, channel_id, user_id, input, output, created_at
		FROM transliterations
		WHERE id = ?
	`, id)

	return scanTransliteration(row)
}

func (r *Repository) ListRecentTransliterations(ctx context.Context, arg db.ListRecentTransliterationsParams) ([]db.Transliteration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, channel_id, user_id, input, output, created_at
		FROM transliterations
		WHERE channel_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, arg.ChannelID, arg.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing transliterations: %w", err)
	}
	defer rows.Close()

	return scanTransliterations(rows)
}

func (r *Repository) CountTransliterationsByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transliterations WHERE user_id = ? AND created_at >= ?
	`, userID, since.UTC().Format(timeLayout)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transliterations: %w", err)
	}
	return count, nil
}

func (r *Repository) DeleteTransliterationsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM transliterations WHERE created_at < ?
	`, before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("deleting transliterations: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (db.Transliteration, error) {
	var t db.Transliteration
	var createdAtStr string
	if err := s.Scan(&t.ID, &t.Source, &t.ChannelID, &t.UserID, &t.Input, &t.Output, &createdAtStr); err != nil {
		return db.Transliteration{}, err
	}
	t.CreatedAt, _ = time.Parse(timeLayout, createdAtStr)
	return t, nil
}

func scanTransliteration(row *sql.Row) (db.Transliteration, error) {
	t, err := scanRow(row)
	if err != nil {
		return db.Transliteration{}, db.NotFound(err)
	}
	return t, nil
}

func scanTransliterations(rows *sql.Rows) ([]db.Transliteration, error) {
	var out []db.Transliteration
	for rows.Next() {
		t, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
