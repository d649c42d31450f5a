package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iho/wealthledger/internal/usecase"
)

const (
	getStateSQL    = `SELECT value FROM ledger_state WHERE key = ?`
	upsertStateSQL = `INSERT INTO ledger_state (key, value, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteStateSQL = `DELETE FROM ledger_state WHERE key = ?`
)

// StateStore implements usecase.StateStore on a SQLite ledger_state table.
type StateStore struct {
	db *sql.DB
}

// NewStateStore creates a new StateStore.
func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// Get retrieves a value by key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getStateSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", usecase.ErrStateNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a value.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertStateSQL, key, value); err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteStateSQL, key); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
