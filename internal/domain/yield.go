package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DaysPerYear is the day count convention for the daily rate.
	DaysPerYear = 365

	// ValuePrecision is the number of decimal places kept on computed values and rates.
	ValuePrecision = 8
)

var hundred = decimal.NewFromInt(100)

// YieldRecord is an immutable snapshot of one yield calculation.
type YieldRecord struct {
	ID            string          `json:"id"`
	AssetID       string          `json:"assetId"`
	Date          Date            `json:"date"`
	PreviousValue decimal.Decimal `json:"previousValue"`
	NewValue      decimal.Decimal `json:"newValue"`
	YieldAmount   decimal.Decimal `json:"yieldAmount"`
	YieldRate     decimal.Decimal `json:"yieldRate"`
}

// YieldCalculation is the outcome of compounding an asset up to a given day.
type YieldCalculation struct {
	Days          int
	PreviousValue decimal.Decimal
	NewValue      decimal.Decimal
	YieldAmount   decimal.Decimal
	YieldRate     decimal.Decimal
}

// HasGain reports whether the calculation produced a strictly positive yield.
func (c YieldCalculation) HasGain() bool {
	return c.YieldAmount.IsPositive()
}

// CompoundInterest returns principal grown by an annual percentage rate compounded daily
// over days.
func CompoundInterest(principal, annualRate decimal.Decimal, days int) (decimal.Decimal, error) {
	dailyRate := annualRate.InexactFloat64() / DaysPerYear / 100
	factor := math.Pow(1+dailyRate, float64(days))
	if math.IsInf(factor, 0) || math.IsNaN(factor) {
		return decimal.Zero, fmt.Errorf("%w: rate %s over %d days", ErrYieldOverflow, annualRate, days)
	}
	return principal.Mul(decimal.NewFromFloat(factor)).Round(ValuePrecision), nil
}

// Percent returns part as a percentage of whole, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(ValuePrecision)
}

// CalculateYield compounds the asset's principal over the full elapsed days up to today and
// compares the result with its current value. The asset is not modified.
func CalculateYield(a *Asset, today Date) (YieldCalculation, error) {
	days := a.DaysInvested(today)
	newValue, err := CompoundInterest(a.InitialAmount, a.InterestRate, days)
	if err != nil {
		return YieldCalculation{}, err
	}
	yieldAmount := newValue.Sub(a.CurrentValue)

	return YieldCalculation{
		Days:          days,
		PreviousValue: a.CurrentValue,
		NewValue:      newValue,
		YieldAmount:   yieldAmount,
		YieldRate:     Percent(yieldAmount, a.CurrentValue),
	}, nil
}

// ProjectYield returns the expected gain on the current value after days more days at the
// asset's rate.
func ProjectYield(a *Asset, days int) (decimal.Decimal, error) {
	future, err := CompoundInterest(a.CurrentValue, a.InterestRate, days)
	if err != nil {
		return decimal.Zero, err
	}
	return future.Sub(a.CurrentValue), nil
}
