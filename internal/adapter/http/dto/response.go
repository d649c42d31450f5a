package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// AssetResponse represents an asset in API responses.
type AssetResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           domain.AssetType `json:"type"`
	TypeLabel      string           `json:"typeLabel"`
	InitialAmount  decimal.Decimal  `json:"initialAmount"`
	CurrentValue   decimal.Decimal  `json:"currentValue"`
	InterestRate   decimal.Decimal  `json:"interestRate"`
	InvestmentDate domain.Date      `json:"investmentDate"`
	LastUpdated    time.Time        `json:"lastUpdated"`
	Description    string           `json:"description,omitempty"`
	ReturnRate     decimal.Decimal  `json:"returnRate"`
}

// AssetFromDomain converts a domain asset to a response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	return &AssetResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		TypeLabel:      a.Type.Label(),
		InitialAmount:  a.InitialAmount,
		CurrentValue:   a.CurrentValue,
		InterestRate:   a.InterestRate,
		InvestmentDate: a.InvestmentDate,
		LastUpdated:    a.LastUpdated,
		Description:    a.Description,
		ReturnRate:     a.ReturnRate(),
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.Asset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// PersistStatus reports whether a mutation reached durable storage.
type PersistStatus struct {
	Persisted    bool   `json:"persisted"`
	PersistError string `json:"persistError,omitempty"`
}

// PersistStatusFrom converts a use case PersistResult.
func PersistStatusFrom(p usecase.PersistResult) PersistStatus {
	s := PersistStatus{Persisted: p.Saved}
	if p.Err != nil {
		s.PersistError = p.Err.Error()
	}
	return s
}

// AssetMutationResponse is returned by create and update.
type AssetMutationResponse struct {
	Asset *AssetResponse `json:"asset"`
	PersistStatus
}

// DeleteAssetResponse is returned by delete.
type DeleteAssetResponse struct {
	ID             string `json:"id"`
	RecordsRemoved int    `json:"recordsRemoved"`
	PersistStatus
}

// YieldResultResponse is the outcome of one yield calculation.
type YieldResultResponse struct {
	Asset       *AssetResponse      `json:"asset"`
	Days        int                 `json:"days"`
	YieldAmount decimal.Decimal     `json:"yieldAmount"`
	YieldRate   decimal.Decimal     `json:"yieldRate"`
	Record      *domain.YieldRecord `json:"record"`
}

// YieldResultFromUseCase converts a use case YieldResult.
func YieldResultFromUseCase(r *usecase.YieldResult) *YieldResultResponse {
	return &YieldResultResponse{
		Asset:       AssetFromDomain(r.Asset),
		Days:        r.Calculation.Days,
		YieldAmount: r.Calculation.YieldAmount,
		YieldRate:   r.Calculation.YieldRate,
		Record:      r.Record,
	}
}

// CalculateYieldResponse is returned by the single-asset calculation.
type CalculateYieldResponse struct {
	*YieldResultResponse
	PersistStatus
}

// AssetFailureResponse reports one asset that could not be calculated.
type AssetFailureResponse struct {
	AssetID string `json:"assetId"`
	Error   string `json:"error"`
}

// BulkYieldResponse is returned by the bulk calculation.
type BulkYieldResponse struct {
	Results  []*YieldResultResponse `json:"results"`
	Failures []AssetFailureResponse `json:"failures"`
	PersistStatus
}

// BulkYieldFromUseCase converts a use case BulkYieldResult.
func BulkYieldFromUseCase(b *usecase.BulkYieldResult) *BulkYieldResponse {
	resp := &BulkYieldResponse{
		Results:       make([]*YieldResultResponse, len(b.Results)),
		Failures:      make([]AssetFailureResponse, len(b.Failures)),
		PersistStatus: PersistStatusFrom(b.Persist),
	}
	for i, r := range b.Results {
		resp.Results[i] = YieldResultFromUseCase(r)
	}
	for i, f := range b.Failures {
		resp.Failures[i] = AssetFailureResponse{AssetID: f.AssetID, Error: f.Err.Error()}
	}
	return resp
}

// ProjectionResponse lists expected gains of one asset.
type ProjectionResponse struct {
	AssetID     string               `json:"assetId"`
	Projections []usecase.Projection `json:"projections"`
}

// SkippedRowResponse explains one rejected import row.
type SkippedRowResponse struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Imported        int                  `json:"imported"`
	Assets          []*AssetResponse     `json:"assets"`
	Skipped         []SkippedRowResponse `json:"skipped"`
	PersistFailures int                  `json:"persistFailures"`
}

// ImportFromUseCase converts a use case ImportResult.
func ImportFromUseCase(r *usecase.ImportResult) *ImportResponse {
	resp := &ImportResponse{
		Imported:        len(r.Imported),
		Assets:          AssetsFromDomain(r.Imported),
		Skipped:         make([]SkippedRowResponse, len(r.Skipped)),
		PersistFailures: r.PersistFailures,
	}
	for i, s := range r.Skipped {
		resp.Skipped[i] = SkippedRowResponse{Row: s.Row, Name: s.Name, Reason: s.Err.Error()}
	}
	return resp
}

// LoadStateResponse reports an explicit state reload.
type LoadStateResponse struct {
	Assets            int    `json:"assets"`
	YieldRecords      int    `json:"yieldRecords"`
	AssetsError       string `json:"assetsError,omitempty"`
	YieldRecordsError string `json:"yieldRecordsError,omitempty"`
}

// LoadStateFromUseCase converts a use case LoadResult.
func LoadStateFromUseCase(r usecase.LoadResult) *LoadStateResponse {
	resp := &LoadStateResponse{Assets: r.Assets, YieldRecords: r.YieldRecords}
	if r.AssetsErr != nil {
		resp.AssetsError = r.AssetsErr.Error()
	}
	if r.YieldRecordsErr != nil {
		resp.YieldRecordsError = r.YieldRecordsErr.Error()
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
