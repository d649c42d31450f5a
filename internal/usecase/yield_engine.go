package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
)

// DefaultProjectionHorizons are the day counts ProjectYield uses when none are given.
var DefaultProjectionHorizons = []int{30, 90, 365}

// YieldResult is the outcome of compounding one asset.
type YieldResult struct {
	Asset       *domain.Asset
	Calculation domain.YieldCalculation
	// Record is nil when the calculation produced no gain.
	Record  *domain.YieldRecord
	Persist PersistResult
}

// AssetFailure pairs an asset with the error that stopped its calculation.
type AssetFailure struct {
	AssetID string
	Err     error
}

// BulkYieldResult is the outcome of CalculateAllYields.
type BulkYieldResult struct {
	Results  []*YieldResult
	Failures []AssetFailure
	Persist  PersistResult
}

// Projection is the expected gain on an asset's current value after Days days. YieldRate
// is that gain as a percentage of the current value.
type Projection struct {
	Days        int             `json:"days"`
	YieldAmount decimal.Decimal `json:"yieldAmount"`
	YieldRate   decimal.Decimal `json:"yieldRate"`
	FutureValue decimal.Decimal `json:"futureValue"`
}

// YieldEngine computes compound growth for the assets of a LedgerStore and aggregates
// portfolio summaries.
type YieldEngine struct {
	store  *LedgerStore
	logger zerolog.Logger
}

// NewYieldEngine creates a new YieldEngine writing through store.
func NewYieldEngine(store *LedgerStore, logger zerolog.Logger) *YieldEngine {
	return &YieldEngine{
		store:  store,
		logger: logger.With().Str("component", "yield_engine").Logger(),
	}
}

// CalculateYield recomputes the asset's value from its principal and full elapsed days,
// stores it and appends a yield record when the value grew.
func (e *YieldEngine) CalculateYield(ctx context.Context, assetID string) (*YieldResult, error) {
	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := e.calculateLocked(assetID)
	if err != nil {
		return nil, err
	}

	result.Persist = s.save(ctx, "calculate_yield")

	return result, nil
}

// CalculateAllYields applies CalculateYield to every asset. A failing asset is reported in
// Failures and does not stop the others. State is persisted once after the batch.
func (e *YieldEngine) CalculateAllYields(ctx context.Context) *BulkYieldResult {
	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()

	bulk := &BulkYieldResult{Results: make([]*YieldResult, 0, len(s.assetOrder))}

	for _, id := range s.assetOrder {
		result, err := e.calculateLocked(id)
		if err != nil {
			e.logger.Warn().Err(err).Str("asset_id", id).Msg("yield calculation failed")
			bulk.Failures = append(bulk.Failures, AssetFailure{AssetID: id, Err: err})
			continue
		}
		bulk.Results = append(bulk.Results, result)
	}

	bulk.Persist = s.save(ctx, "calculate_all_yields")

	e.logger.Info().
		Int("calculated", len(bulk.Results)).
		Int("failed", len(bulk.Failures)).
		Msg("bulk yield calculation finished")

	return bulk
}

// calculateLocked runs one calculation. Callers must hold the store lock.
func (e *YieldEngine) calculateLocked(assetID string) (*YieldResult, error) {
	s := e.store

	asset, ok := s.assets[assetID]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}

	now := s.clock.Now()
	today := domain.DateOf(now)

	calc, err := domain.CalculateYield(asset, today)
	if err != nil {
		return nil, err
	}

	asset.CurrentValue = calc.NewValue
	asset.LastUpdated = now

	result := &YieldResult{Calculation: calc}

	if calc.HasGain() {
		record := &domain.YieldRecord{
			ID:            s.idGen.Generate(),
			AssetID:       assetID,
			Date:          today,
			PreviousValue: calc.PreviousValue,
			NewValue:      calc.NewValue,
			YieldAmount:   calc.YieldAmount,
			YieldRate:     calc.YieldRate,
		}
		s.insertRecord(record)
		result.Record = cloneRecord(record)
	}

	s.metrics.YieldCalculated(result.Record != nil)
	result.Asset = cloneAsset(asset)

	return result, nil
}

// Summary folds the current assets into a portfolio summary.
func (e *YieldEngine) Summary(ctx context.Context) *domain.AssetSummary {
	return domain.Summarize(e.store.ListAssets(ctx, AssetFilter{}))
}

// ProjectYield estimates the gain on the asset's current value for each horizon in days.
// DefaultProjectionHorizons is used when no horizon is given.
func (e *YieldEngine) ProjectYield(ctx context.Context, assetID string, horizons ...int) ([]Projection, error) {
	asset, err := e.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if len(horizons) == 0 {
		horizons = DefaultProjectionHorizons
	}

	projections := make([]Projection, 0, len(horizons))
	for _, days := range horizons {
		if days < 0 {
			days = -days
		}

		gain, err := domain.ProjectYield(asset, days)
		if err != nil {
			return nil, err
		}

		projections = append(projections, Projection{
			Days:        days,
			YieldAmount: gain,
			YieldRate:   domain.Percent(gain, asset.CurrentValue),
			FutureValue: asset.CurrentValue.Add(gain),
		})
	}

	return projections, nil
}
