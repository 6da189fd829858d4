// Package testutil holds test doubles shared across packages.
package testutil

import (
	"context"
	"time"

	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of db.Repository.
type MockRepository struct {
	mock.Mock
}

var _ db.Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateTransliteration(ctx context.Context, arg db.CreateTransliterationParams) (db.Transliteration, error) {
	ret := m.Called(ctx, arg)
	return ret.Get(0).(db.Transliteration), ret.Error(1)
}

func (m *MockRepository) GetTransliteration(ctx context.Context, id int64) (db.Transliteration, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(db.Transliteration), ret.Error(1)
}

func (m *MockRepository) ListRecentTransliterations(ctx context.Context, arg db.ListRecentTransliterationsParams) ([]db.Transliteration, error) {
	ret := m.Called(ctx, arg)
	return ret.Get(0).([]db.Transliteration), ret.Error(1)
}

func (m *MockRepository) CountTransliterationsByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	ret := m.Called(ctx, userID, since)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockRepository) DeleteTransliterationsBefore(ctx context.Context, before time.Time) (int64, error) {
	ret := m.Called(ctx, before)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockRepository) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
