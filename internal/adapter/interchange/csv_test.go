package interchange

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/wealthledger/internal/domain"
)

const csvHeaderLine = "资产名称,资产类型,初始金额,当前价值,年化利率(%),投资日期,最后更新,描述\n"

func TestDecodeCSV(t *testing.T) {
	input := "\ufeff" + csvHeaderLine +
		`"招商银行定存","定期存款","10000","10512.67","5","2024-01-01","2025-01-01T00:00:00Z","三年期"` + "\n" +
		"Crypto,加密货币,500,500,0,2024-01-01,,\n" +
		"Short,股票,100\n" +
		"Bad amount,基金,abc,0,1,2024-01-01,,\n" +
		"No rate,债券,2000,2000,,,,\n" +
		",,,,,,,\n" +
		"Bad date,房产,100,100,1,2024-13-45,,\n"

	rows, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 6)

	deposit := rows[0]
	require.NoError(t, deposit.Err)
	assert.Equal(t, 2, deposit.Row)
	assert.Equal(t, "招商银行定存", deposit.Input.Name)
	assert.Equal(t, domain.AssetTypeDeposit, deposit.Input.Type)
	assert.True(t, deposit.Input.InitialAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, deposit.Input.InterestRate.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, domain.NewDate(2024, time.January, 1), deposit.Input.InvestmentDate)
	assert.Equal(t, "三年期", deposit.Input.Description)

	assert.ErrorIs(t, rows[1].Err, ErrUnknownType)
	assert.Equal(t, 3, rows[1].Row)
	assert.ErrorIs(t, rows[2].Err, ErrTooFewColumns)
	assert.ErrorIs(t, rows[3].Err, ErrInvalidAmount)

	noRate := rows[4]
	require.NoError(t, noRate.Err)
	assert.True(t, noRate.Input.InterestRate.IsZero())
	assert.True(t, noRate.Input.InvestmentDate.IsZero(), "missing date is filled in by the importer")

	assert.ErrorIs(t, rows[5].Err, ErrInvalidDate)
	assert.Equal(t, 8, rows[5].Row)
}

func TestDecodeCSV_InvalidFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "header only", input: csvHeaderLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCSV(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidFormat)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestEncodeCSV_RoundTrip(t *testing.T) {
	assets := []*domain.Asset{
		{
			ID:             "a1",
			Name:           "Fund, with comma",
			Type:           domain.AssetTypeFund,
			InitialAmount:  decimal.NewFromInt(1500),
			CurrentValue:   decimal.RequireFromString("1520.5"),
			InterestRate:   decimal.RequireFromString("3.2"),
			InvestmentDate: domain.NewDate(2023, time.June, 15),
			LastUpdated:    time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
			Description:    `quoted "note"`,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, assets))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, csvHeaderLine))
	assert.Contains(t, out, "基金")
	assert.Contains(t, out, "2025-01-01T08:00:00Z")

	rows, err := DecodeCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)

	in := rows[0].Input
	assert.Equal(t, "Fund, with comma", in.Name)
	assert.Equal(t, domain.AssetTypeFund, in.Type)
	assert.True(t, in.InitialAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, in.InterestRate.Equal(decimal.RequireFromString("3.2")))
	assert.Equal(t, domain.NewDate(2023, time.June, 15), in.InvestmentDate)
	assert.Equal(t, `quoted "note"`, in.Description)
}
