package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/usecase"
)

type stateServiceStub struct {
	resetFn func(ctx context.Context) usecase.PersistResult
	loadFn  func(ctx context.Context) usecase.LoadResult
	saveFn  func(ctx context.Context) usecase.PersistResult
}

func (s *stateServiceStub) Reset(ctx context.Context) usecase.PersistResult {
	return s.resetFn(ctx)
}

func (s *stateServiceStub) LoadState(ctx context.Context) usecase.LoadResult {
	return s.loadFn(ctx)
}

func (s *stateServiceStub) SaveState(ctx context.Context) usecase.PersistResult {
	return s.saveFn(ctx)
}

func TestStateHandler_Reset(t *testing.T) {
	called := false
	handler := NewStateHandler(&stateServiceStub{
		resetFn: func(ctx context.Context) usecase.PersistResult {
			called = true
			return usecase.PersistResult{Saved: true}
		},
	})

	rec := httptest.NewRecorder()
	handler.Reset(rec, httptest.NewRequest(http.MethodDelete, "/state", nil))

	if !called {
		t.Fatalf("expected Reset to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.PersistStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Persisted {
		t.Fatalf("expected persisted=true")
	}
}

func TestStateHandler_Reload(t *testing.T) {
	handler := NewStateHandler(&stateServiceStub{
		loadFn: func(ctx context.Context) usecase.LoadResult {
			return usecase.LoadResult{
				Assets:          4,
				YieldRecords:    0,
				YieldRecordsErr: errors.New("corrupt yields"),
			}
		},
	})

	rec := httptest.NewRecorder()
	handler.Reload(rec, httptest.NewRequest(http.MethodPost, "/state/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.LoadStateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Assets != 4 || resp.AssetsError != "" || resp.YieldRecordsError != "corrupt yields" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestStateHandler_Save(t *testing.T) {
	tests := []struct {
		name     string
		result   usecase.PersistResult
		expected int
	}{
		{"saved", usecase.PersistResult{Saved: true}, http.StatusOK},
		{"store down", usecase.PersistResult{Err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewStateHandler(&stateServiceStub{
				saveFn: func(ctx context.Context) usecase.PersistResult { return tt.result },
			})

			rec := httptest.NewRecorder()
			handler.Save(rec, httptest.NewRequest(http.MethodPost, "/state/save", nil))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
