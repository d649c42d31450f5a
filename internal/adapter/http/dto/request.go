package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// CreateAssetRequest represents a request to create an asset.
type CreateAssetRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialAmount  decimal.Decimal `json:"initialAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	InvestmentDate string          `json:"investmentDate"`
	Description    string          `json:"description"`
}

// ToUseCaseInput converts to use case input. An unparseable investment date is a
// validation error; the remaining fields are validated by the ledger.
func (r *CreateAssetRequest) ToUseCaseInput() (usecase.CreateAssetInput, error) {
	input := usecase.CreateAssetInput{
		Name:          r.Name,
		Type:          domain.AssetType(r.Type),
		InitialAmount: r.InitialAmount,
		InterestRate:  r.InterestRate,
		Description:   r.Description,
	}

	if r.InvestmentDate != "" {
		d, err := domain.ParseDate(r.InvestmentDate)
		if err != nil {
			return usecase.CreateAssetInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidInvestmentDate, err)
		}
		input.InvestmentDate = d
	}

	return input, nil
}

// UpdateAssetRequest represents a partial asset update. Absent fields are left unchanged.
type UpdateAssetRequest struct {
	Name           *string          `json:"name,omitempty"`
	Type           *string          `json:"type,omitempty"`
	InitialAmount  *decimal.Decimal `json:"initialAmount,omitempty"`
	CurrentValue   *decimal.Decimal `json:"currentValue,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	InvestmentDate *string          `json:"investmentDate,omitempty"`
	Description    *string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input. The initial amount cannot be changed.
func (r *UpdateAssetRequest) ToUseCaseInput() (usecase.UpdateAssetInput, error) {
	if r.InitialAmount != nil {
		return usecase.UpdateAssetInput{}, fmt.Errorf("%w: initial amount cannot be changed", domain.ErrInvalidInitialAmount)
	}

	input := usecase.UpdateAssetInput{
		Name:         r.Name,
		CurrentValue: r.CurrentValue,
		InterestRate: r.InterestRate,
		Description:  r.Description,
	}

	if r.Type != nil {
		t := domain.AssetType(*r.Type)
		input.Type = &t
	}

	if r.InvestmentDate != nil {
		d, err := domain.ParseDate(*r.InvestmentDate)
		if err != nil {
			return usecase.UpdateAssetInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidInvestmentDate, err)
		}
		input.InvestmentDate = &d
	}

	return input, nil
}
