package domain

import "github.com/shopspring/decimal"

// TypeBreakdown aggregates the assets of one type.
type TypeBreakdown struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Percentage decimal.Decimal `json:"percentage"`
}

// AssetSummary is the derived portfolio view. It is never persisted.
type AssetSummary struct {
	TotalValue     decimal.Decimal              `json:"totalValue"`
	TotalInitial   decimal.Decimal              `json:"totalInitial"`
	TotalYield     decimal.Decimal              `json:"totalYield"`
	TotalYieldRate decimal.Decimal              `json:"totalYieldRate"`
	AssetsByType   map[AssetType]*TypeBreakdown `json:"assetsByType"`
}

// Summarize folds assets into an AssetSummary. Every asset type is present in the result.
func Summarize(assets []*Asset) *AssetSummary {
	s := &AssetSummary{
		TotalValue:   decimal.Zero,
		TotalInitial: decimal.Zero,
		AssetsByType: make(map[AssetType]*TypeBreakdown, len(AssetTypes)),
	}

	for _, t := range AssetTypes {
		s.AssetsByType[t] = &TypeBreakdown{TotalValue: decimal.Zero, Percentage: decimal.Zero}
	}

	for _, a := range assets {
		s.TotalValue = s.TotalValue.Add(a.CurrentValue)
		s.TotalInitial = s.TotalInitial.Add(a.InitialAmount)

		b, ok := s.AssetsByType[a.Type]
		if !ok {
			// Loaded state may carry a type outside the closed set.
			b = s.AssetsByType[AssetTypeOther]
		}
		b.Count++
		b.TotalValue = b.TotalValue.Add(a.CurrentValue)
	}

	s.TotalYield = s.TotalValue.Sub(s.TotalInitial)
	s.TotalYieldRate = Percent(s.TotalYield, s.TotalInitial)

	for _, b := range s.AssetsByType {
		b.Percentage = Percent(b.TotalValue, s.TotalValue)
	}

	return s
}
