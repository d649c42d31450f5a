package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every field validation error.
	ErrValidation = errors.New("validation failed")

	// Asset errors
	ErrAssetNotFound = errors.New("asset not found")

	// Yield errors
	ErrYieldOverflow = errors.New("compounded value out of range")

	// Field errors
	ErrInvalidAssetName      = fmt.Errorf("%w: invalid asset name", ErrValidation)
	ErrInvalidAssetType      = fmt.Errorf("%w: invalid asset type", ErrValidation)
	ErrInvalidInitialAmount  = fmt.Errorf("%w: initial amount must be positive", ErrValidation)
	ErrInvalidCurrentValue   = fmt.Errorf("%w: current value must not be negative", ErrValidation)
	ErrInvalidInterestRate   = fmt.Errorf("%w: interest rate must not be negative", ErrValidation)
	ErrInvalidInvestmentDate = fmt.Errorf("%w: investment date is required", ErrValidation)
)
