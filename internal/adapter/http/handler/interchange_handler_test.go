package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/adapter/interchange"
	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

type interchangeServiceStub struct {
	importFn func(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult
	exportFn func(ctx context.Context) *usecase.Snapshot
}

func (s *interchangeServiceStub) Import(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult {
	return s.importFn(ctx, rows)
}

func (s *interchangeServiceStub) Export(ctx context.Context) *usecase.Snapshot {
	return s.exportFn(ctx)
}

func sampleSnapshot() *usecase.Snapshot {
	return &usecase.Snapshot{
		Assets:  []*domain.Asset{sampleAsset()},
		TakenAt: time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestInterchangeHandler_Export(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		filename    string
	}{
		{"default json", "", "application/json", "wealth-management-2025-03-04.json"},
		{"explicit json", "?format=json", "application/json", "wealth-management-2025-03-04.json"},
		{"csv", "?format=CSV", "text/csv; charset=utf-8", "wealth-management-2025-03-04.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterchangeHandler(&interchangeServiceStub{
				exportFn: func(ctx context.Context) *usecase.Snapshot { return sampleSnapshot() },
			}, 0)

			req := httptest.NewRequest(http.MethodGet, "/export"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.Export(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("expected content type %q, got %q", tt.contentType, got)
			}
			if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, tt.filename) {
				t.Fatalf("expected filename %q in %q", tt.filename, got)
			}
			if !strings.Contains(rec.Body.String(), "Term deposit") {
				t.Fatalf("expected asset in export body, got %s", rec.Body.String())
			}
		})
	}
}

func TestInterchangeHandler_Export_UnsupportedFormat(t *testing.T) {
	handler := NewInterchangeHandler(&interchangeServiceStub{
		exportFn: func(ctx context.Context) *usecase.Snapshot { return sampleSnapshot() },
	}, 0)

	req := httptest.NewRequest(http.MethodGet, "/export?format=xml", nil)
	rec := httptest.NewRecorder()
	handler.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInterchangeHandler_Import_JSON(t *testing.T) {
	var captured []usecase.ImportRow
	handler := NewInterchangeHandler(&interchangeServiceStub{
		importFn: func(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult {
			captured = rows
			return &usecase.ImportResult{
				Imported: []*domain.Asset{sampleAsset()},
				Skipped:  []usecase.ImportRowError{{Row: 2, Name: "bad", Err: interchange.ErrUnknownType}},
			}
		},
	}, 1024)

	body := `{"assets":[{"name":"A","type":"stock","initialAmount":100},{"name":"bad","type":"crypto","initialAmount":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured) != 2 {
		t.Fatalf("expected 2 decoded rows, got %d", len(captured))
	}

	var resp dto.ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Imported != 1 || len(resp.Skipped) != 1 || resp.Skipped[0].Row != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInterchangeHandler_Import_CSV(t *testing.T) {
	var captured []usecase.ImportRow
	handler := NewInterchangeHandler(&interchangeServiceStub{
		importFn: func(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult {
			captured = rows
			return &usecase.ImportResult{}
		},
	}, 0)

	csv := strings.Join(interchange.CSVHeader, ",") + "\n" +
		"Fund A,基金,1000,1000,3,2024-01-01,,\n"
	req := httptest.NewRequest(http.MethodPost, "/import?format=csv", bytes.NewBufferString(csv))
	rec := httptest.NewRecorder()
	handler.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured) != 1 || captured[0].Err != nil || captured[0].Input.Type != domain.AssetTypeFund {
		t.Fatalf("unexpected rows: %+v", captured)
	}
}

func TestInterchangeHandler_Import_Rejected(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		maxBytes    int64
		expected    int
	}{
		{"unknown format", "?format=xml", "", "{}", 0, http.StatusBadRequest},
		{"no format hint", "", "text/plain", "{}", 0, http.StatusBadRequest},
		{"missing assets array", "?format=json", "", `{"version":"1.0"}`, 0, http.StatusBadRequest},
		{"header only csv", "?format=csv", "", strings.Join(interchange.CSVHeader, ",") + "\n", 0, http.StatusBadRequest},
		{"body too large", "?format=json", "", `{"assets":[{"name":"A","type":"stock","initialAmount":100}]}`, 8, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterchangeHandler(&interchangeServiceStub{
				importFn: func(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult {
					t.Fatal("Import should not be called")
					return nil
				},
			}, tt.maxBytes)

			req := httptest.NewRequest(http.MethodPost, "/import"+tt.query, bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.Import(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}
