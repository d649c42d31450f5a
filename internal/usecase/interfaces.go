package usecase

import (
	"context"
	"errors"
	"time"
)

// ErrStateNotFound is returned by a StateStore when the key has never been written.
var ErrStateNotFound = errors.New("state key not found")

// StateStore is the durable key-value collaborator holding the serialized ledger.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Metrics records ledger activity.
type Metrics interface {
	AssetCreated()
	AssetDeleted()
	YieldCalculated(appended bool)
	PersistenceFailed(op string)
	ImportRows(imported, skipped int)
	PortfolioValue(value float64)
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type nopMetrics struct{}

func (nopMetrics) AssetCreated() {}
func (nopMetrics) AssetDeleted() {}
func (nopMetrics) YieldCalculated(bool) {}
func (nopMetrics) PersistenceFailed(string) {}
func (nopMetrics) ImportRows(int, int) {}
func (nopMetrics) PortfolioValue(float64) {}
