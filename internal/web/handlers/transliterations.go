package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/jusunglee/fidelbot/internal/web/middleware"
)

// MaxInputRunes bounds the text accepted by Create.
const MaxInputRunes = 10000

// Service is the part of translation.Service the API needs.
type Service interface {
	Transliterate(ctx context.Context, req translation.Request) (translation.Result, error)
	Get(ctx context.Context, id int64) (db.Transliteration, error)
}

type TransliterationHandler struct {
	service Service
	log     *slog.Logger
}

func NewTransliterationHandler(service Service, log *slog.Logger) *TransliterationHandler {
	return &TransliterationHandler{service: service, log: log}
}

type createRequest struct {
	Text *string `json:"text"`
}

type transliterationResponse struct {
	ID        int64  `json:"id,omitempty"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Changed   bool   `json:"changed"`
	CreatedAt string `json:"created_at"`
}

func (h *TransliterationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if n := utf8.RuneCountInString(*req.Text); n > MaxInputRunes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("text must be at most %d characters", MaxInputRunes))
		return
	}

	result, err := h.service.Transliterate(r.Context(), translation.Request{
		Source:    db.SourceAPI,
		ChannelID: "api",
		UserID:    "ip:" + middleware.ClientIP(r),
		Text:      *req.Text,
	})
	if err != nil {
		h.log.WarnContext(r.Context(), "failed to record transliteration", "error", err)
	}

	writeJSON(w, http.StatusCreated, transliterationResponse{
		ID:        result.ID,
		Input:     result.Input,
		Output:    result.Output,
		Changed:   result.Changed(),
		CreatedAt: result.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *TransliterationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "transliteration not found")
			return
		}
		h.log.ErrorContext(r.Context(), "getting transliteration", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, transliterationResponse{
		ID:        t.ID,
		Input:     t.Input,
		Output:    t.Output,
		Changed:   t.Input != t.Output,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
