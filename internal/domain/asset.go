package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType is the category of an investment position.
type AssetType string

const (
	AssetTypeStock            AssetType = "stock"
	AssetTypeFund             AssetType = "fund"
	AssetTypeDeposit          AssetType = "deposit"
	AssetTypeWealthManagement AssetType = "wealth_management"
	AssetTypeRealEstate       AssetType = "real_estate"
	AssetTypeBond             AssetType = "bond"
	AssetTypeOther            AssetType = "other"
)

// AssetTypes lists every asset type in display order.
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeFund,
	AssetTypeDeposit,
	AssetTypeWealthManagement,
	AssetTypeRealEstate,
	AssetTypeBond,
	AssetTypeOther,
}

var assetTypeLabels = map[AssetType]string{
	AssetTypeStock:            "股票",
	AssetTypeFund:             "基金",
	AssetTypeDeposit:          "定期存款",
	AssetTypeWealthManagement: "理财产品",
	AssetTypeRealEstate:       "房产",
	AssetTypeBond:             "债券",
	AssetTypeOther:            "其他",
}

// IsValid reports whether t belongs to the closed set of asset types.
func (t AssetType) IsValid() bool {
	_, ok := assetTypeLabels[t]
	return ok
}

// Label returns the human-readable label of t, or "" for unknown types.
func (t AssetType) Label() string {
	return assetTypeLabels[t]
}

// AssetTypeFromLabel maps a human-readable label back to its type.
func AssetTypeFromLabel(label string) (AssetType, bool) {
	for t, l := range assetTypeLabels {
		if l == label {
			return t, true
		}
	}
	return "", false
}

// Asset represents one investment position.
type Asset struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AssetType       `json:"type"`
	InitialAmount  decimal.Decimal `json:"initialAmount"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	InvestmentDate Date            `json:"investmentDate"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	Description    string          `json:"description,omitempty"`
}

// ReturnRate is the percentage gain of the current value over the principal.
func (a *Asset) ReturnRate() decimal.Decimal {
	return Percent(a.CurrentValue.Sub(a.InitialAmount), a.InitialAmount)
}

// DaysInvested returns the number of whole days between the investment date and today.
func (a *Asset) DaysInvested(today Date) int {
	return DaysBetween(a.InvestmentDate, today)
}
