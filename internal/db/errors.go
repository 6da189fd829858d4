package db

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no transliteration has the requested ID.
var ErrNotFound = errors.New("db: transliteration not found")

// NotFound maps the "no rows" error of either driver to ErrNotFound and
// returns every other error unchanged.
func NotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsNotFound reports whether err means the history lookup came back empty.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(NotFound(err), ErrNotFound)
}
