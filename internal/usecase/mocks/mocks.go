package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/wealthledger/internal/usecase"
)

// FakeStateStore is an in-memory usecase.StateStore with overridable behavior.
type FakeStateStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte) error
}

func NewFakeStateStore() *FakeStateStore {
	return &FakeStateStore{values: make(map[string][]byte)}
}

func (f *FakeStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	if !ok {
		return nil, usecase.ErrStateNotFound
	}
	return append([]byte(nil), v...), nil
}

func (f *FakeStateStore) Set(ctx context.Context, key string, value []byte) error {
	if f.SetFunc != nil {
		return f.SetFunc(ctx, key, value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = append([]byte(nil), value...)
	f.writes++
	return nil
}

func (f *FakeStateStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

func (f *FakeStateStore) Ping(ctx context.Context) error {
	return nil
}

// Put seeds a raw value.
func (f *FakeStateStore) Put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Value returns the raw stored value.
func (f *FakeStateStore) Value(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Writes returns the number of successful Set calls.
func (f *FakeStateStore) Writes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.writes
}

// SequenceIDGenerator returns predictable IDs: id-1, id-2, ...
type SequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

// FixedClock is a usecase.Clock that only moves when told to.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
