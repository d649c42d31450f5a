package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// YieldService defines the behavior needed by YieldHandler.
type YieldService interface {
	CalculateYield(ctx context.Context, assetID string) (*usecase.YieldResult, error)
	CalculateAllYields(ctx context.Context) *usecase.BulkYieldResult
	Summary(ctx context.Context) *domain.AssetSummary
	ProjectYield(ctx context.Context, assetID string, horizons ...int) ([]usecase.Projection, error)
}

// YieldRecordLister lists every stored yield record.
type YieldRecordLister interface {
	ListYieldRecords(ctx context.Context) []*domain.YieldRecord
}

// YieldHandler handles yield calculation and portfolio summary requests.
type YieldHandler struct {
	engine  YieldService
	records YieldRecordLister
}

// NewYieldHandler creates a new YieldHandler.
func NewYieldHandler(engine YieldService, records YieldRecordLister) *YieldHandler {
	return &YieldHandler{engine: engine, records: records}
}

// Calculate compounds one asset up to today.
func (h *YieldHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	res, err := h.engine.CalculateYield(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to calculate yield")
		return
	}

	writeJSON(w, http.StatusOK, dto.CalculateYieldResponse{
		YieldResultResponse: dto.YieldResultFromUseCase(res),
		PersistStatus:       dto.PersistStatusFrom(res.Persist),
	})
}

// CalculateAll compounds every asset up to today.
func (h *YieldHandler) CalculateAll(w http.ResponseWriter, r *http.Request) {
	bulk := h.engine.CalculateAllYields(r.Context())

	writeJSON(w, http.StatusOK, dto.BulkYieldFromUseCase(bulk))
}

// List returns every yield record in calculation order.
func (h *YieldHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.records.ListYieldRecords(r.Context()))
}

// Summary returns the portfolio summary.
func (h *YieldHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Summary(r.Context()))
}

// Projection estimates the gain of an asset. ?days= selects a single horizon; without it
// the default horizons are returned.
func (h *YieldHandler) Projection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	var horizons []int
	if days := parseIntQuery(r, "days", 0); days > 0 {
		horizons = append(horizons, days)
	}

	projections, err := h.engine.ProjectYield(r.Context(), id, horizons...)
	if err != nil {
		writeDomainError(w, err, "failed to project yield")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectionResponse{AssetID: id, Projections: projections})
}
