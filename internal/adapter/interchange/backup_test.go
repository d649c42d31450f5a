package interchange

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

func TestEncodeBackup(t *testing.T) {
	snap := &usecase.Snapshot{
		Assets: []*domain.Asset{{
			ID:             "a1",
			Name:           "Deposit",
			Type:           domain.AssetTypeDeposit,
			InitialAmount:  decimal.NewFromInt(10000),
			CurrentValue:   decimal.RequireFromString("10512.67"),
			InterestRate:   decimal.NewFromInt(5),
			InvestmentDate: domain.NewDate(2024, time.January, 1),
			LastUpdated:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		TakenAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBackup(&buf, snap))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "2025-01-02T03:04:05Z", doc["exportDate"])
	assert.Equal(t, []any{}, doc["yieldRecords"])

	assets, ok := doc["assets"].([]any)
	require.True(t, ok)
	require.Len(t, assets, 1)
	asset := assets[0].(map[string]any)
	assert.Equal(t, "deposit", asset["type"])
	assert.Equal(t, "2024-01-01", asset["investmentDate"])
}

func TestDecodeBackup(t *testing.T) {
	input := `{
	  "version": "1.0",
	  "yieldRecords": [{"id": "ignored"}],
	  "assets": [
	    {"name": "Numeric", "type": "bond", "initialAmount": 2500, "interestRate": 3.5, "investmentDate": "2024-02-01"},
	    {"name": "Stringly", "type": "fund", "initialAmount": "1200.50", "interestRate": "oops"},
	    {"name": "", "type": "fund", "initialAmount": 1},
	    {"name": "Bad type", "type": "crypto", "initialAmount": 1},
	    {"name": "No amount", "type": "stock"},
	    {"name": "Bad date", "type": "other", "initialAmount": 1, "investmentDate": "yesterday"},
	    "not an object"
	  ]
	}`

	rows, err := DecodeBackup(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	require.NoError(t, rows[0].Err)
	assert.Equal(t, 1, rows[0].Row)
	assert.Equal(t, domain.AssetTypeBond, rows[0].Input.Type)
	assert.True(t, rows[0].Input.InitialAmount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, rows[0].Input.InterestRate.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, domain.NewDate(2024, time.February, 1), rows[0].Input.InvestmentDate)

	require.NoError(t, rows[1].Err)
	assert.True(t, rows[1].Input.InitialAmount.Equal(decimal.RequireFromString("1200.5")))
	assert.True(t, rows[1].Input.InterestRate.IsZero())
	assert.True(t, rows[1].Input.InvestmentDate.IsZero())

	assert.ErrorIs(t, rows[2].Err, ErrMissingName)
	assert.ErrorIs(t, rows[3].Err, ErrUnknownType)
	assert.ErrorIs(t, rows[4].Err, ErrInvalidAmount)
	assert.ErrorIs(t, rows[5].Err, ErrInvalidDate)
	assert.Error(t, rows[6].Err)
}

func TestDecodeBackup_InvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "assets: []"},
		{name: "missing assets", input: `{"yieldRecords": []}`},
		{name: "assets not array", input: `{"assets": {"name": "x"}}`},
		{name: "null assets", input: `{"assets": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBackup(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	snap := &usecase.Snapshot{
		Assets: []*domain.Asset{{
			ID:             "a1",
			Name:           "House",
			Type:           domain.AssetTypeRealEstate,
			InitialAmount:  decimal.NewFromInt(300000),
			CurrentValue:   decimal.NewFromInt(310000),
			InterestRate:   decimal.RequireFromString("1.25"),
			InvestmentDate: domain.NewDate(2020, time.May, 20),
			Description:    "flat",
		}},
		TakenAt: time.Now(),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeBackup(&buf, snap))

	rows, err := DecodeBackup(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)

	in := rows[0].Input
	assert.Equal(t, "House", in.Name)
	assert.Equal(t, domain.AssetTypeRealEstate, in.Type)
	assert.True(t, in.InitialAmount.Equal(decimal.NewFromInt(300000)))
	assert.True(t, in.InterestRate.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, domain.NewDate(2020, time.May, 20), in.InvestmentDate)
	assert.Equal(t, "flat", in.Description)
}
