package memory

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/iho/wealthledger/internal/usecase"
)

// StateStore implements usecase.StateStore in process memory. Values are lost on restart.
type StateStore struct {
	cache *cache.Cache
}

// NewStateStore creates a new StateStore whose entries never expire.
func NewStateStore() *StateStore {
	return &StateStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Get retrieves a copy of the value stored under key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, fmt.Errorf("%w: %s", usecase.ErrStateNotFound, key)
	}
	return append([]byte(nil), v.([]byte)...), nil
}

// Set stores a copy of value.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

// Delete removes a key.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Ping always succeeds.
func (s *StateStore) Ping(ctx context.Context) error {
	return nil
}
