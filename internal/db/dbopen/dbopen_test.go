package dbopen

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jusunglee/fidelbot/internal/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://user@localhost/fidel"))
	assert.True(t, IsPostgres("postgresql://localhost/fidel"))
	assert.False(t, IsPostgres("./fidel.db"))
	assert.False(t, IsPostgres("sqlite://fidel.db"))
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "fidel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	_, ok := repo.(*sqlite.Repository)
	assert.True(t, ok, "expected a SQLite repository, got %T", repo)
}

func TestOpenEmpty(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
