package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// AssetService defines the behavior needed by AssetHandler.
type AssetService interface {
	AddAsset(ctx context.Context, input usecase.CreateAssetInput) (*usecase.AssetResult, error)
	UpdateAsset(ctx context.Context, id string, input usecase.UpdateAssetInput) (*usecase.AssetResult, error)
	DeleteAsset(ctx context.Context, id string) (*usecase.DeleteResult, error)
	GetAsset(ctx context.Context, id string) (*domain.Asset, error)
	ListAssets(ctx context.Context, filter usecase.AssetFilter) []*domain.Asset
	AssetYieldRecords(ctx context.Context, assetID string) ([]*domain.YieldRecord, error)
}

// AssetHandler handles asset-related HTTP requests.
type AssetHandler struct {
	assets AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Create creates a new asset.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err, "invalid asset")
		return
	}

	res, err := h.assets.AddAsset(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create asset")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssetMutationResponse{
		Asset:         dto.AssetFromDomain(res.Asset),
		PersistStatus: dto.PersistStatusFrom(res.Persist),
	})
}

// Get retrieves an asset by ID.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	asset, err := h.assets.GetAsset(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get asset")
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// List lists assets, optionally filtered by ?q= (name or description) and ?type=.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.AssetFilter{
		Query: r.URL.Query().Get("q"),
		Type:  domain.AssetType(r.URL.Query().Get("type")),
	}

	if filter.Type != "" && !filter.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid asset type", string(filter.Type))
		return
	}

	assets := h.assets.ListAssets(r.Context(), filter)

	writeJSON(w, http.StatusOK, dto.AssetsFromDomain(assets))
}

// Update applies a partial update to an asset.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	var req dto.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err, "invalid asset update")
		return
	}

	res, err := h.assets.UpdateAsset(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err, "failed to update asset")
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetMutationResponse{
		Asset:         dto.AssetFromDomain(res.Asset),
		PersistStatus: dto.PersistStatusFrom(res.Persist),
	})
}

// Delete removes an asset and its yield records.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	res, err := h.assets.DeleteAsset(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to delete asset")
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteAssetResponse{
		ID:             res.AssetID,
		RecordsRemoved: res.RecordsRemoved,
		PersistStatus:  dto.PersistStatusFrom(res.Persist),
	})
}

// Yields lists the yield records of an asset, newest first.
func (h *AssetHandler) Yields(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	records, err := h.assets.AssetYieldRecords(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to list yield records")
		return
	}

	writeJSON(w, http.StatusOK, records)
}
