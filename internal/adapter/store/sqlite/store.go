package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sbeeredd04/promen/internal/store"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Extension settings: API keys, enable flag
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Suggestion history
	CREATE TABLE IF NOT EXISTS suggestions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		field_id TEXT NOT NULL,
		action TEXT NOT NULL,
		provider TEXT NOT NULL,
		original TEXT NOT NULL,
		html TEXT NOT NULL,
		plain_text TEXT NOT NULL,
		status TEXT NOT NULL CHECK(status IN ('pending', 'accepted', 'rejected')),
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_suggestions_created ON suggestions(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_suggestions_field ON suggestions(field_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SetSetting stores or replaces a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	_, err := s.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the value for a setting key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// DeleteSetting removes a setting. Deleting a missing key is not an error.
func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// SaveSuggestion stores a new suggestion and returns its assigned ID.
func (s *Store) SaveSuggestion(ctx context.Context, rec store.SuggestionRecord) (int64, error) {
	query := `
		INSERT INTO suggestions (field_id, action, provider, original, html, plain_text, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	status := rec.Status
	if status == "" {
		status = "pending"
	}

	result, err := s.db.ExecContext(ctx, query,
		rec.FieldID, rec.Action, rec.Provider, rec.Original,
		rec.HTML, rec.PlainText, status, createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to save suggestion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get suggestion id: %w", err)
	}
	return id, nil
}

// UpdateSuggestionStatus records the outcome of a suggestion.
func (s *Store) UpdateSuggestionStatus(ctx context.Context, id int64, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE suggestions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update suggestion %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of suggestion %d: %w", id, err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetSuggestion returns a single suggestion by ID.
func (s *Store) GetSuggestion(ctx context.Context, id int64) (store.SuggestionRecord, error) {
	query := `
		SELECT id, field_id, action, provider, original, html, plain_text, status, created_at
		FROM suggestions WHERE id = ?
	`

	rec, err := scanSuggestion(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return store.SuggestionRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.SuggestionRecord{}, fmt.Errorf("failed to get suggestion %d: %w", id, err)
	}
	return rec, nil
}

// ListSuggestions returns the most recent suggestions, newest first.
func (s *Store) ListSuggestions(ctx context.Context, limit int) ([]store.SuggestionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, field_id, action, provider, original, html, plain_text, status, created_at
		FROM suggestions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var records []store.SuggestionRecord
	for rows.Next() {
		rec, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSuggestion(row scanner) (store.SuggestionRecord, error) {
	var rec store.SuggestionRecord
	var createdAt int64

	err := row.Scan(&rec.ID, &rec.FieldID, &rec.Action, &rec.Provider,
		&rec.Original, &rec.HTML, &rec.PlainText, &rec.Status, &createdAt)
	if err != nil {
		return store.SuggestionRecord{}, err
	}

	rec.CreatedAt = time.Unix(createdAt, 0)
	return rec, nil
}
