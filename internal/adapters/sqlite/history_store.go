package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/shopplan/internal/core/history"
	"github.com/example/shopplan/internal/ports/secondary"
)

// HistoryStore implements secondary.HistoryStore with one JSON row per session.
type HistoryStore struct {
	db DBTX
}

// NewHistoryStore creates a new SQLite history store.
func NewHistoryStore(db DBTX) *HistoryStore {
	return &HistoryStore{db: db}
}

// Load returns the stored log for session, or nil when none was saved.
func (s *HistoryStore) Load(ctx context.Context, session string) (*history.Dump, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM history_logs WHERE session = ?",
		session,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var dump history.Dump
	if err := json.Unmarshal([]byte(payload), &dump); err != nil {
		return nil, fmt.Errorf("failed to decode history for session %s: %w", session, err)
	}
	return &dump, nil
}

// Save replaces the stored log for session.
func (s *HistoryStore) Save(ctx context.Context, session string, dump history.Dump) error {
	payload, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history_logs (session, payload) VALUES (?, ?)
		ON CONFLICT(session) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		session, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Ensure HistoryStore implements the interface
var _ secondary.HistoryStore = (*HistoryStore)(nil)
