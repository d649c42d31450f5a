package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
)

// Keys under which the ledger is persisted.
const (
	AssetsStateKey = "wealth-management-assets"
	YieldsStateKey = "wealth-management-yields"
)

// PersistenceError describes a failed read or write against the StateStore.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PersistResult reports the durable write that follows a mutation. A failed write never
// rolls back the in-memory change.
type PersistResult struct {
	Saved bool
	Err   error
}

// LoadResult reports what LoadState read. Errors are per collection. A corrupt collection
// loads as empty; one that could not be read is left as it was.
type LoadResult struct {
	Assets          int
	YieldRecords    int
	AssetsErr       error
	YieldRecordsErr error
}

// AssetResult is returned by asset mutations.
type AssetResult struct {
	Asset   *domain.Asset
	Persist PersistResult
}

// DeleteResult is returned by DeleteAsset.
type DeleteResult struct {
	AssetID        string
	RecordsRemoved int
	Persist        PersistResult
}

// CreateAssetInput represents input for creating an asset.
type CreateAssetInput struct {
	Name           string
	Type           domain.AssetType
	InitialAmount  decimal.Decimal
	InterestRate   decimal.Decimal
	InvestmentDate domain.Date
	Description    string
}

// UpdateAssetInput holds the fields to merge into an asset. Nil fields are left unchanged.
// The initial amount is not editable once the asset exists.
type UpdateAssetInput struct {
	Name           *string
	Type           *domain.AssetType
	CurrentValue   *decimal.Decimal
	InterestRate   *decimal.Decimal
	InvestmentDate *domain.Date
	Description    *string
}

// AssetFilter narrows ListAssets. Zero values match everything.
type AssetFilter struct {
	Query string
	Type  domain.AssetType
}

// LedgerStore owns the assets and yield records and persists them after every mutation.
type LedgerStore struct {
	mu sync.Mutex

	state   StateStore
	idGen   IDGenerator
	clock   Clock
	metrics Metrics
	logger  zerolog.Logger

	assets         map[string]*domain.Asset
	assetOrder     []string
	records        map[string]*domain.YieldRecord
	recordOrder    []string
	recordsByAsset map[string][]string
}

// NewLedgerStore creates an empty LedgerStore. Call LoadState to read persisted data.
func NewLedgerStore(state StateStore, idGen IDGenerator, clock Clock, metrics Metrics, logger zerolog.Logger) *LedgerStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	s := &LedgerStore{
		state:   state,
		idGen:   idGen,
		clock:   clock,
		metrics: metrics,
		logger:  logger.With().Str("component", "ledger_store").Logger(),
	}
	s.reset()

	return s
}

func (s *LedgerStore) reset() {
	s.assets = make(map[string]*domain.Asset)
	s.assetOrder = nil
	s.records = make(map[string]*domain.YieldRecord)
	s.recordOrder = nil
	s.recordsByAsset = make(map[string][]string)
}

// AddAsset validates the input and appends a new asset whose current value equals its
// initial amount.
func (s *LedgerStore) AddAsset(ctx context.Context, input CreateAssetInput) (*AssetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset := &domain.Asset{
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		InitialAmount:  input.InitialAmount,
		CurrentValue:   input.InitialAmount,
		InterestRate:   input.InterestRate,
		InvestmentDate: input.InvestmentDate,
		LastUpdated:    s.clock.Now(),
		Description:    input.Description,
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	asset.ID = s.idGen.Generate()
	s.insertAsset(asset)
	s.metrics.AssetCreated()

	return &AssetResult{Asset: cloneAsset(asset), Persist: s.save(ctx, "add_asset")}, nil
}

// UpdateAsset merges the provided fields into the asset and refreshes LastUpdated.
func (s *LedgerStore) UpdateAsset(ctx context.Context, id string, input UpdateAssetInput) (*AssetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}

	merged := *existing
	if input.Name != nil {
		merged.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		merged.Type = *input.Type
	}
	if input.CurrentValue != nil {
		merged.CurrentValue = *input.CurrentValue
	}
	if input.InterestRate != nil {
		merged.InterestRate = *input.InterestRate
	}
	if input.InvestmentDate != nil {
		merged.InvestmentDate = *input.InvestmentDate
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	merged.LastUpdated = s.clock.Now()
	*existing = merged

	return &AssetResult{Asset: cloneAsset(existing), Persist: s.save(ctx, "update_asset")}, nil
}

// DeleteAsset removes the asset and every yield record that references it.
func (s *LedgerStore) DeleteAsset(ctx context.Context, id string) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return nil, domain.ErrAssetNotFound
	}

	delete(s.assets, id)
	s.assetOrder = slices.DeleteFunc(s.assetOrder, func(aid string) bool { return aid == id })

	removed := s.recordsByAsset[id]
	for _, rid := range removed {
		delete(s.records, rid)
	}
	delete(s.recordsByAsset, id)
	if len(removed) > 0 {
		s.recordOrder = slices.DeleteFunc(s.recordOrder, func(rid string) bool {
			_, ok := s.records[rid]
			return !ok
		})
	}

	s.metrics.AssetDeleted()

	return &DeleteResult{
		AssetID:        id,
		RecordsRemoved: len(removed),
		Persist:        s.save(ctx, "delete_asset"),
	}, nil
}

// GetAsset returns a copy of the asset with the given ID.
func (s *LedgerStore) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}

	return cloneAsset(asset), nil
}

// ListAssets returns copies of the assets matching filter in insertion order. Query matches
// name or description case-insensitively.
func (s *LedgerStore) ListAssets(ctx context.Context, filter AssetFilter) []*domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))

	result := make([]*domain.Asset, 0, len(s.assetOrder))
	for _, id := range s.assetOrder {
		a := s.assets[id]
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		result = append(result, cloneAsset(a))
	}

	return result
}

// ListYieldRecords returns every yield record in calculation order.
func (s *LedgerStore) ListYieldRecords(ctx context.Context) []*domain.YieldRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.YieldRecord, 0, len(s.recordOrder))
	for _, rid := range s.recordOrder {
		result = append(result, cloneRecord(s.records[rid]))
	}

	return result
}

// AssetYieldRecords returns the records of one asset, newest date first.
func (s *LedgerStore) AssetYieldRecords(ctx context.Context, assetID string) ([]*domain.YieldRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[assetID]; !ok {
		return nil, domain.ErrAssetNotFound
	}

	ids := s.recordsByAsset[assetID]
	result := make([]*domain.YieldRecord, 0, len(ids))
	for _, rid := range ids {
		result = append(result, cloneRecord(s.records[rid]))
	}

	// Stable so records of the same day keep calculation order, latest first.
	slices.Reverse(result)
	slices.SortStableFunc(result, func(a, b *domain.YieldRecord) int {
		return b.Date.Time().Compare(a.Date.Time())
	})

	return result, nil
}

// Reset drops every asset and yield record and persists the empty ledger.
func (s *LedgerStore) Reset(ctx context.Context) PersistResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.logger.Warn().Msg("ledger cleared")

	return s.save(ctx, "reset")
}

// SaveState writes both collections to the StateStore.
func (s *LedgerStore) SaveState(ctx context.Context) PersistResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, "save_state")
}

// LoadState replaces the in-memory ledger with the persisted one. A missing key loads as
// an empty collection and so does a corrupt one. A collection whose read fails keeps what
// is already in memory, so the next save does not overwrite durable data with nothing.
func (s *LedgerStore) LoadState(ctx context.Context) LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result LoadResult

	var assets []*domain.Asset
	result.AssetsErr = s.read(ctx, AssetsStateKey, &assets)
	keepAssets := isReadFailure(result.AssetsErr)

	var records []*domain.YieldRecord
	result.YieldRecordsErr = s.read(ctx, YieldsStateKey, &records)
	keepRecords := isReadFailure(result.YieldRecordsErr)

	if keepAssets {
		assets = s.orderedAssets()
	} else if result.AssetsErr != nil {
		assets = nil
	}
	if keepRecords {
		records = s.orderedRecords()
	} else if result.YieldRecordsErr != nil {
		records = nil
	}

	s.reset()

	for _, a := range assets {
		if a == nil || a.ID == "" {
			continue
		}
		if _, dup := s.assets[a.ID]; dup {
			s.logger.Warn().Str("asset_id", a.ID).Msg("duplicate asset in stored state, keeping first")
			continue
		}
		s.insertAsset(a)
	}

	for _, r := range records {
		if r == nil || r.ID == "" {
			continue
		}
		if _, dup := s.records[r.ID]; dup {
			continue
		}
		s.insertRecord(r)
	}

	result.Assets = len(s.assetOrder)
	result.YieldRecords = len(s.recordOrder)

	s.logger.Info().
		Int("assets", result.Assets).
		Int("yield_records", result.YieldRecords).
		Bool("assets_kept", keepAssets).
		Bool("yield_records_kept", keepRecords).
		Msg("ledger state loaded")

	return result
}

func isReadFailure(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr) && perr.Op == "load"
}

func (s *LedgerStore) orderedAssets() []*domain.Asset {
	out := make([]*domain.Asset, 0, len(s.assetOrder))
	for _, id := range s.assetOrder {
		out = append(out, s.assets[id])
	}
	return out
}

func (s *LedgerStore) orderedRecords() []*domain.YieldRecord {
	out := make([]*domain.YieldRecord, 0, len(s.recordOrder))
	for _, id := range s.recordOrder {
		out = append(out, s.records[id])
	}
	return out
}

func (s *LedgerStore) read(ctx context.Context, key string, dst any) error {
	data, err := s.state.Get(ctx, key)
	if errors.Is(err, ErrStateNotFound) {
		return nil
	}
	if err != nil {
		perr := &PersistenceError{Op: "load", Key: key, Err: err}
		s.persistFailed(perr)
		return perr
	}

	if err := json.Unmarshal(data, dst); err != nil {
		perr := &PersistenceError{Op: "decode", Key: key, Err: err}
		s.persistFailed(perr)
		return perr
	}

	return nil
}

// save serializes the ledger. Callers must hold mu.
func (s *LedgerStore) save(ctx context.Context, op string) PersistResult {
	assets := s.orderedAssets()
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.CurrentValue)
	}
	s.metrics.PortfolioValue(total.InexactFloat64())

	records := s.orderedRecords()

	err := errors.Join(
		s.write(ctx, AssetsStateKey, assets),
		s.write(ctx, YieldsStateKey, records),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("failed to persist ledger state")
		return PersistResult{Err: err}
	}

	return PersistResult{Saved: true}
}

func (s *LedgerStore) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		perr := &PersistenceError{Op: "encode", Key: key, Err: err}
		s.metrics.PersistenceFailed(perr.Op)
		return perr
	}

	if err := s.state.Set(ctx, key, data); err != nil {
		perr := &PersistenceError{Op: "save", Key: key, Err: err}
		s.metrics.PersistenceFailed(perr.Op)
		return perr
	}

	return nil
}

func (s *LedgerStore) persistFailed(err *PersistenceError) {
	s.metrics.PersistenceFailed(err.Op)
	s.logger.Error().Err(err.Err).Str("op", err.Op).Str("key", err.Key).Msg("failed to load ledger state")
}

func (s *LedgerStore) insertAsset(a *domain.Asset) {
	s.assets[a.ID] = a
	s.assetOrder = append(s.assetOrder, a.ID)
}

func (s *LedgerStore) insertRecord(r *domain.YieldRecord) {
	s.records[r.ID] = r
	s.recordOrder = append(s.recordOrder, r.ID)
	s.recordsByAsset[r.AssetID] = append(s.recordsByAsset[r.AssetID], r.ID)
}

func cloneAsset(a *domain.Asset) *domain.Asset {
	c := *a
	return &c
}

func cloneRecord(r *domain.YieldRecord) *domain.YieldRecord {
	c := *r
	return &c
}
