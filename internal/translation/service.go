package translation

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/metrics"
	"github.com/jusunglee/fidelbot/internal/transliteration"
)

// Request is one piece of user text to transliterate.
type Request struct {
	Source    string
	ChannelID string
	UserID    string
	Text      string
}

// Result is the outcome of a Request. ID is zero when no history was kept.
type Result struct {
	ID        int64
	Input     string
	Output    string
	CreatedAt time.Time
}

// Changed reports whether the input held anything to transliterate.
func (r Result) Changed() bool {
	return r.Input != r.Output
}

// Service transliterates text and optionally records it. A nil repository
// disables history.
type Service struct {
	repo db.Repository
	now  func() time.Time
}

func NewService(repo db.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Transliterate runs the engine over req.Text and records the result. The
// returned Result is always populated; a non-nil error means only that the
// history write failed.
func (s *Service) Transliterate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	output := transliteration.Transliterate(req.Text)
	metrics.TransliterationDuration.Observe(time.Since(start).Seconds())
	metrics.TransliterationInputRunes.WithLabelValues(req.Source).Observe(float64(utf8.RuneCountInString(req.Text)))
	metrics.TransliterationsTotal.WithLabelValues(req.Source, metrics.Outcome(req.Text, output)).Inc()

	result := Result{Input: req.Text, Output: output, CreatedAt: s.now()}
	if s.repo == nil {
		return result, nil
	}

	row, err := s.repo.CreateTransliteration(ctx, db.CreateTransliterationParams{
		Source:    req.Source,
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
		Input:     req.Text,
		Output:    output,
	})
	if err != nil {
		metrics.HistoryWriteFailures.WithLabelValues(req.Source).Inc()
		return result, fmt.Errorf("recording transliteration: %w", err)
	}
	result.ID = row.ID
	result.CreatedAt = row.CreatedAt
	return result, nil
}

// Get returns a previously recorded transliteration.
func (s *Service) Get(ctx context.Context, id int64) (db.Transliteration, error) {
	if s.repo == nil {
		return db.Transliteration{}, db.ErrNotFound
	}
	return s.repo.GetTransliteration(ctx, id)
}

// Recent lists the latest transliterations made in a channel.
func (s *Service) Recent(ctx context.Context, channelID string, limit int32) ([]db.Transliteration, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRecentTransliterations(ctx, db.ListRecentTransliterationsParams{
		ChannelID: channelID,
		Limit:     limit,
	})
}

// Prune deletes history older than retention and returns the number of rows
// removed.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	rows, err := s.repo.DeleteTransliterationsBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	metrics.HistoryRowsPruned.Add(float64(rows))
	return rows, nil
}

// UserActivity counts the transliterations a user made within window.
func (s *Service) UserActivity(ctx context.Context, userID string, window time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.CountTransliterationsByUserSince(ctx, userID, s.now().Add(-window))
}
