package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/wealthledger/internal/domain"
)

// ImportRow is one candidate asset decoded from an import file. Rows carrying Err are
// skipped.
type ImportRow struct {
	Row   int
	Input CreateAssetInput
	Err   error
}

// ImportRowError explains why a row was skipped.
type ImportRowError struct {
	Row  int
	Name string
	Err  error
}

func (e ImportRowError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("row %d (%s): %v", e.Row, e.Name, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e ImportRowError) Unwrap() error {
	return e.Err
}

// ImportResult summarizes an import. Imported assets are new ledger entries.
type ImportResult struct {
	Imported []*domain.Asset
	Skipped  []ImportRowError
	// PersistFailures counts imported assets whose durable write failed.
	PersistFailures int
}

// Snapshot is the full ledger content at a point in time.
type Snapshot struct {
	Assets       []*domain.Asset
	YieldRecords []*domain.YieldRecord
	TakenAt      time.Time
}

// InterchangeUseCase handles bulk import and export.
type InterchangeUseCase struct {
	store  *LedgerStore
	logger zerolog.Logger
}

// NewInterchangeUseCase creates a new InterchangeUseCase.
func NewInterchangeUseCase(store *LedgerStore, logger zerolog.Logger) *InterchangeUseCase {
	return &InterchangeUseCase{
		store:  store,
		logger: logger.With().Str("component", "interchange").Logger(),
	}
}

// Import adds every valid row as a new asset with a fresh ID. Existing assets are never
// merged or overwritten. Invalid rows are skipped and reported; the import never aborts
// because of a single row.
func (uc *InterchangeUseCase) Import(ctx context.Context, rows []ImportRow) *ImportResult {
	result := &ImportResult{}
	today := domain.DateOf(uc.store.clock.Now())

	for _, row := range rows {
		if row.Err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Row: row.Row, Name: row.Input.Name, Err: row.Err})
			continue
		}

		input := row.Input
		if input.InvestmentDate.IsZero() {
			input.InvestmentDate = today
		}

		added, err := uc.store.AddAsset(ctx, input)
		if err != nil {
			result.Skipped = append(result.Skipped, ImportRowError{Row: row.Row, Name: input.Name, Err: err})
			continue
		}

		if added.Persist.Err != nil {
			result.PersistFailures++
		}
		result.Imported = append(result.Imported, added.Asset)
	}

	uc.store.metrics.ImportRows(len(result.Imported), len(result.Skipped))

	for _, skipped := range result.Skipped {
		uc.logger.Debug().Err(skipped.Err).Int("row", skipped.Row).Msg("import row skipped")
	}
	uc.logger.Info().
		Int("imported", len(result.Imported)).
		Int("skipped", len(result.Skipped)).
		Msg("import finished")

	return result
}

// Export returns a snapshot of every asset and yield record.
func (uc *InterchangeUseCase) Export(ctx context.Context) *Snapshot {
	uc.store.mu.Lock()
	defer uc.store.mu.Unlock()

	s := uc.store
	snap := &Snapshot{
		Assets:       make([]*domain.Asset, 0, len(s.assetOrder)),
		YieldRecords: make([]*domain.YieldRecord, 0, len(s.recordOrder)),
		TakenAt:      s.clock.Now(),
	}
	for _, id := range s.assetOrder {
		snap.Assets = append(snap.Assets, cloneAsset(s.assets[id]))
	}
	for _, rid := range s.recordOrder {
		snap.YieldRecords = append(snap.YieldRecords, cloneRecord(s.records[rid]))
	}

	return snap
}
