package db

import (
	"context"
	"time"
)

// Sources identify which front end produced a transliteration.
const (
	SourceCommand        = "command"
	SourceMessageCommand = "message_command"
	SourceDM             = "dm"
	SourceAPI            = "api"
	SourceCLI            = "cli"
)

// Transliteration is one recorded request and its result.
type Transliteration struct {
	ID        int64
	Source    string
	ChannelID string
	UserID    string
	Input     string
	Output    string
	CreatedAt time.Time
}

type CreateTransliterationParams struct {
	Source    string
	ChannelID string
	UserID    string
	Input     string
	Output    string
}

type ListRecentTransliterationsParams struct {
	ChannelID string
	Limit     int32
}

// Repository defines the interface for database operations
type Repository interface {
	CreateTransliteration(ctx context.Context, arg CreateTransliterationParams) (Transliteration, error)
	GetTransliteration(ctx context.Context, id int64) (Transliteration, error)
	ListRecentTransliterations(ctx context.Context, arg ListRecentTransliterationsParams) ([]Transliteration, error)
	CountTransliterationsByUserSince(ctx context.Context, userID string, since time.Time) (int64, error)

	// Retention
	DeleteTransliterationsBefore(ctx context.Context, before time.Time) (int64, error)

	// Lifecycle
	Close() error
}
