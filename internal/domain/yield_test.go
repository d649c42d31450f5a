package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func assertClose(t *testing.T, got decimal.Decimal, want string, tolerance string) {
	t.Helper()

	w := decimal.RequireFromString(want)
	tol := decimal.RequireFromString(tolerance)
	if got.Sub(w).Abs().GreaterThan(tol) {
		t.Fatalf("expected %s (±%s), got %s", want, tolerance, got)
	}
}

func mustCalculate(t *testing.T, a *Asset, today Date) YieldCalculation {
	t.Helper()

	calc, err := CalculateYield(a, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return calc
}

func TestCompoundInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		days      int
		want      string
	}{
		{
			name:      "one year at five percent",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.NewFromInt(5),
			days:      365,
			want:      "10512.67",
		},
		{
			name:      "zero days keeps principal",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.NewFromInt(5),
			days:      0,
			want:      "10000",
		},
		{
			name:      "zero rate keeps principal",
			principal: decimal.NewFromInt(2500),
			rate:      decimal.Zero,
			days:      1000,
			want:      "2500",
		},
		{
			name:      "thirty days at 3.65 percent",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.RequireFromString("3.65"),
			days:      30,
			want:      "1003.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompoundInterest(tt.principal, tt.rate, tt.days)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertClose(t, got, tt.want, "0.01")
		})
	}
}

func TestCalculateYield_FromPrincipal(t *testing.T) {
	today := NewDate(2025, 1, 1)
	asset := &Asset{
		InitialAmount:  decimal.NewFromInt(10000),
		CurrentValue:   decimal.NewFromInt(10000),
		InterestRate:   decimal.NewFromInt(5),
		InvestmentDate: today.AddDays(-365),
	}

	calc := mustCalculate(t, asset, today)

	if calc.Days != 365 {
		t.Fatalf("expected 365 days, got %d", calc.Days)
	}
	assertClose(t, calc.NewValue, "10512.67", "0.01")
	assertClose(t, calc.YieldAmount, "512.67", "0.01")
	assertClose(t, calc.YieldRate, "5.1267", "0.001")
	if !calc.HasGain() {
		t.Fatal("expected a gain")
	}
	if !calc.PreviousValue.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected previous value 10000, got %s", calc.PreviousValue)
	}
}

func TestCalculateYield_SameDayIsStable(t *testing.T) {
	today := NewDate(2025, 6, 30)
	asset := &Asset{
		InitialAmount:  decimal.NewFromInt(5000),
		CurrentValue:   decimal.NewFromInt(5000),
		InterestRate:   decimal.RequireFromString("2.5"),
		InvestmentDate: today.AddDays(-100),
	}

	first := mustCalculate(t, asset, today)
	asset.CurrentValue = first.NewValue

	second := mustCalculate(t, asset, today)
	if !second.NewValue.Equal(first.NewValue) {
		t.Fatalf("expected same value, got %s then %s", first.NewValue, second.NewValue)
	}
	if second.HasGain() {
		t.Fatalf("expected no gain on recalculation, got %s", second.YieldAmount)
	}
}

func TestCalculateYield_FutureInvestmentDate(t *testing.T) {
	today := NewDate(2025, 1, 1)
	asset := &Asset{
		InitialAmount:  decimal.NewFromInt(1000),
		CurrentValue:   decimal.NewFromInt(1000),
		InterestRate:   decimal.NewFromInt(10),
		InvestmentDate: today.AddDays(10),
	}

	calc := mustCalculate(t, asset, today)
	if calc.Days != 10 {
		t.Fatalf("expected absolute day count 10, got %d", calc.Days)
	}
}

func TestCalculateYield_LossWhenValueAboveCompounded(t *testing.T) {
	today := NewDate(2025, 1, 1)
	asset := &Asset{
		InitialAmount:  decimal.NewFromInt(1000),
		CurrentValue:   decimal.NewFromInt(1500),
		InterestRate:   decimal.NewFromInt(1),
		InvestmentDate: today.AddDays(-30),
	}

	calc := mustCalculate(t, asset, today)
	if calc.HasGain() {
		t.Fatalf("expected negative yield, got %s", calc.YieldAmount)
	}
	if !calc.YieldRate.IsNegative() {
		t.Fatalf("expected negative rate, got %s", calc.YieldRate)
	}
}

func TestCalculateYield_ZeroCurrentValue(t *testing.T) {
	today := NewDate(2025, 1, 1)
	asset := &Asset{
		InitialAmount:  decimal.NewFromInt(100),
		CurrentValue:   decimal.Zero,
		InterestRate:   decimal.NewFromInt(5),
		InvestmentDate: today,
	}

	calc := mustCalculate(t, asset, today)
	if !calc.YieldRate.IsZero() {
		t.Fatalf("expected zero rate for zero previous value, got %s", calc.YieldRate)
	}
}

func TestCompoundInterest_Overflow(t *testing.T) {
	_, err := CompoundInterest(decimal.NewFromInt(1), decimal.NewFromInt(1000), 1_000_000)
	if !errors.Is(err, ErrYieldOverflow) {
		t.Fatalf("expected ErrYieldOverflow, got %v", err)
	}
}

func TestProjectYield(t *testing.T) {
	asset := &Asset{
		CurrentValue: decimal.NewFromInt(10000),
		InterestRate: decimal.NewFromInt(5),
	}

	year, err := ProjectYield(asset, 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, year, "512.67", "0.01")

	none, err := ProjectYield(asset, 0)
	if err != nil || !none.IsZero() {
		t.Fatalf("expected no projected yield for a zero horizon, got %s (%v)", none, err)
	}
}

func TestAsset_ReturnRate(t *testing.T) {
	a := &Asset{InitialAmount: decimal.NewFromInt(200), CurrentValue: decimal.NewFromInt(250)}
	if got := a.ReturnRate(); !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected 25, got %s", got)
	}

	zero := &Asset{}
	if !zero.ReturnRate().IsZero() {
		t.Fatal("expected zero rate for zero principal")
	}
}
