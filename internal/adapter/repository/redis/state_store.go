package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/wealthledger/internal/usecase"
)

// StateStore implements usecase.StateStore using Redis.
type StateStore struct {
	client *redis.Client
	prefix string
}

// NewStateStore creates a new StateStore.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{
		client: client,
		prefix: "wealthledger:state:",
	}
}

// Get retrieves a value by key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", usecase.ErrStateNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value without expiry.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

// Delete removes a key.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Ping checks the connection.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
