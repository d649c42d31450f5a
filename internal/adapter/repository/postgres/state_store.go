package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/wealthledger/internal/usecase"
)

const (
	getStateSQL    = `SELECT value FROM ledger_state WHERE key = $1`
	upsertStateSQL = `INSERT INTO ledger_state (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteStateSQL = `DELETE FROM ledger_state WHERE key = $1`
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// StateStore implements usecase.StateStore on the ledger_state table.
type StateStore struct {
	pool    pgxPool
	retrier *Retrier
}

// NewStateStore creates a new StateStore.
func NewStateStore(pool *pgxpool.Pool, retrier *Retrier) *StateStore {
	return newStateStoreWithPool(pool, retrier)
}

func newStateStoreWithPool(pool pgxPool, retrier *Retrier) *StateStore {
	return &StateStore{pool: pool, retrier: retrier}
}

// Get retrieves a value by key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, getStateSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", usecase.ErrStateNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a value.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	return s.retrier.Retry(ctx, func() error {
		_, err := s.pool.Exec(ctx, upsertStateSQL, key, value)
		return err
	})
}

// Delete removes a key.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	return s.retrier.Retry(ctx, func() error {
		_, err := s.pool.Exec(ctx, deleteStateSQL, key)
		return err
	})
}

// Ping checks the connection.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
