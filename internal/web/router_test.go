package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jusunglee/fidelbot/internal/db/sqlite"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transliterationBody struct {
	ID        int64  `json:"id"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Changed   bool   `json:"changed"`
	CreatedAt string `json:"created_at"`
}

func newTestHandler(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(translation.NewService(repo), log, Config{AllowedOrigins: origins}).Handler()
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transliterations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGet(t *testing.T) {
	h := newTestHandler(t)

	rec := post(h, `{"text":"ሰላም ልጅ"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created transliterationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ሰላም ልጅ", created.Input)
	assert.Equal(t, "selam lij", created.Output)
	assert.True(t, created.Changed)
	assert.NotEmpty(t, created.CreatedAt)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transliterations/"+strconv.FormatInt(created.ID, 10), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched transliterationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestCreateUnchangedText(t *testing.T) {
	h := newTestHandler(t)

	rec := post(h, `{"text":"hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body transliterationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "hello", body.Output)
	assert.False(t, body.Changed)
}

func TestCreateRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"text":`, http.StatusBadRequest},
		{"missing text", `{}`, http.StatusBadRequest},
		{"too long", `{"text":"` + strings.Repeat("a", 10001) + `"}`, http.StatusBadRequest},
		{"body too large", `{"text":"` + strings.Repeat("a", 200<<10) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestGetErrors(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transliterations/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transliterations/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRateLimited(t *testing.T) {
	h := newTestHandler(t)

	for i := range rateLimitRequests {
		rec := post(h, `{"text":"ሰላም"}`)
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i+1)
	}

	rec := post(h, `{"text":"ሰላም"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHealthRoute(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t, "https://fidel.example")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transliterations", nil)
	req.Header.Set("Origin", "https://fidel.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://fidel.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
