package handler

import (
	"context"
	"net/http"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/usecase"
)

// StateService defines the behavior needed by StateHandler.
type StateService interface {
	Reset(ctx context.Context) usecase.PersistResult
	LoadState(ctx context.Context) usecase.LoadResult
	SaveState(ctx context.Context) usecase.PersistResult
}

// StateHandler exposes whole-ledger state operations.
type StateHandler struct {
	state StateService
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(state StateService) *StateHandler {
	return &StateHandler{state: state}
}

// Reset clears every asset and yield record.
func (h *StateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.PersistStatusFrom(h.state.Reset(r.Context())))
}

// Reload replaces the in-memory ledger with the persisted state.
func (h *StateHandler) Reload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.LoadStateFromUseCase(h.state.LoadState(r.Context())))
}

// Save writes the in-memory ledger to the state store.
func (h *StateHandler) Save(w http.ResponseWriter, r *http.Request) {
	res := h.state.SaveState(r.Context())
	status := http.StatusOK
	if res.Err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, dto.PersistStatusFrom(res))
}
