package store

import (
	"context"

	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/store"
)

// Bridge adapts store.Store to the history port the session orchestrator
// uses. This avoids circular dependencies between packages.
type Bridge struct {
	store    store.Store
	provider string
}

// NewBridge creates a new store adapter. provider labels the records.
func NewBridge(s store.Store, provider string) *Bridge {
	return &Bridge{store: s, provider: provider}
}

// RecordSuggestion converts and saves a pending suggestion.
func (b *Bridge) RecordSuggestion(ctx context.Context, s domain.Suggestion) (int64, error) {
	return b.store.SaveSuggestion(ctx, store.SuggestionRecord{
		FieldID:   s.FieldID,
		Action:    string(s.Action),
		Provider:  b.provider,
		Original:  s.Original,
		HTML:      s.Fragment.HTML,
		PlainText: s.Fragment.PlainText,
		Status:    domain.SuggestionStatusPending,
		CreatedAt: s.CreatedAt,
	})
}

// ResolveSuggestion records the accept or reject outcome.
func (b *Bridge) ResolveSuggestion(ctx context.Context, id int64, status string) error {
	return b.store.UpdateSuggestionStatus(ctx, id, status)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}
