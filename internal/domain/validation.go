package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAssetNameLength   = 255
	MaxDescriptionLength = 2000
)

// ValidateAssetName validates asset name
func ValidateAssetName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAssetName)
	}

	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAssetName, MaxAssetNameLength)
	}

	return nil
}

// ValidateAssetType validates asset type
func ValidateAssetType(t AssetType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAssetType, t)
	}
	return nil
}

// ValidateInitialAmount validates the principal of a new asset
func ValidateInitialAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidInitialAmount
	}
	return nil
}

// ValidateCurrentValue validates an explicitly assigned current value
func ValidateCurrentValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return ErrInvalidCurrentValue
	}
	return nil
}

// ValidateInterestRate validates an annual percentage rate
func ValidateInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrInvalidInterestRate
	}
	return nil
}

// Validate checks every field constraint of the asset.
func (a *Asset) Validate() error {
	if err := ValidateAssetName(a.Name); err != nil {
		return err
	}

	if err := ValidateAssetType(a.Type); err != nil {
		return err
	}

	if err := ValidateInitialAmount(a.InitialAmount); err != nil {
		return err
	}

	if err := ValidateCurrentValue(a.CurrentValue); err != nil {
		return err
	}

	if err := ValidateInterestRate(a.InterestRate); err != nil {
		return err
	}

	if a.InvestmentDate.IsZero() {
		return ErrInvalidInvestmentDate
	}

	if len(a.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}

	return nil
}
