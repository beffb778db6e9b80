package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store defines the persistence layer interface for settings and
// suggestion history.
type Store interface {
	// Settings management
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, error)
	DeleteSetting(ctx context.Context, key string) error

	// Suggestion history
	SaveSuggestion(ctx context.Context, rec SuggestionRecord) (int64, error)
	UpdateSuggestionStatus(ctx context.Context, id int64, status string) error
	GetSuggestion(ctx context.Context, id int64) (SuggestionRecord, error)
	ListSuggestions(ctx context.Context, limit int) ([]SuggestionRecord, error)

	// Utility
	Close() error
}

// SuggestionRecord stores one generated suggestion and its outcome.
type SuggestionRecord struct {
	ID        int64
	FieldID   string
	Action    string
	Provider  string
	Original  string
	HTML      string
	PlainText string
	Status    string
	CreatedAt time.Time
}

// SettingActive marks whether the assistant is enabled at all.
const SettingActive = "active"

// APIKeySetting returns the settings key holding the API key for a provider.
func APIKeySetting(provider string) string {
	return "api_key." + provider
}
