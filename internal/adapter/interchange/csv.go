package interchange

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// CSVHeader is the header row of the asset sheet.
var CSVHeader = []string{"资产名称", "资产类型", "初始金额", "当前价值", "年化利率(%)", "投资日期", "最后更新", "描述"}

const (
	colName = iota
	colType
	colInitialAmount
	colCurrentValue
	colInterestRate
	colInvestmentDate
	colLastUpdated
	colDescription

	minCSVColumns = colInvestmentDate + 1
)

const utf8BOM = "\ufeff"

// EncodeCSV writes one row per asset under CSVHeader. Types are written as labels.
func EncodeCSV(w io.Writer, assets []*domain.Asset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, a := range assets {
		record := []string{
			a.Name,
			a.Type.Label(),
			a.InitialAmount.String(),
			a.CurrentValue.String(),
			a.InterestRate.String(),
			a.InvestmentDate.String(),
			a.LastUpdated.UTC().Format(time.RFC3339),
			a.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for asset %s: %w", a.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// DecodeCSV reads an asset sheet as import rows. The first record is the header and is
// skipped. Row numbers are the line numbers in the file. The current value and last-updated
// columns are ignored.
func DecodeCSV(r io.Reader) ([]usecase.ImportRow, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidFormat)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	var rows []usecase.ImportRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}

		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}
		rows = append(rows, decodeCSVRecord(line, record))
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidFormat)
	}

	return rows, nil
}

func decodeCSVRecord(line int, record []string) usecase.ImportRow {
	row := usecase.ImportRow{Row: line}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	row.Input.Name = record[colName]

	if len(record) < minCSVColumns {
		row.Err = fmt.Errorf("%w: got %d, need %d", ErrTooFewColumns, len(record), minCSVColumns)
		return row
	}

	if len(record) > colDescription {
		row.Input.Description = record[colDescription]
	}

	if row.Input.Name == "" {
		row.Err = ErrMissingName
		return row
	}

	t, ok := domain.AssetTypeFromLabel(record[colType])
	if !ok {
		row.Err = fmt.Errorf("%w: %q", ErrUnknownType, record[colType])
		return row
	}
	row.Input.Type = t

	amount, err := decimal.NewFromString(record[colInitialAmount])
	if err != nil {
		row.Err = fmt.Errorf("%w: %q", ErrInvalidAmount, record[colInitialAmount])
		return row
	}
	row.Input.InitialAmount = amount

	if rate, err := decimal.NewFromString(record[colInterestRate]); err == nil {
		row.Input.InterestRate = rate
	}

	if s := record[colInvestmentDate]; s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			row.Err = fmt.Errorf("%w: %v", ErrInvalidDate, err)
			return row
		}
		row.Input.InvestmentDate = d
	}

	return row
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
