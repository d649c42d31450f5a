// Package interchange encodes and decodes the ledger's bulk file formats: the full JSON
// backup and the asset CSV sheet.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

// BackupVersion is written into every backup document.
const BackupVersion = "1.0"

// ErrInvalidFormat rejects a whole import file.
var ErrInvalidFormat = fmt.Errorf("%w: invalid import file", domain.ErrValidation)

// Row-level reasons.
var (
	ErrMissingName   = errors.New("missing name")
	ErrUnknownType   = errors.New("missing or unknown asset type")
	ErrInvalidAmount = errors.New("initial amount is not a number")
	ErrInvalidDate   = errors.New("invalid investment date")
	ErrTooFewColumns = errors.New("too few columns")
)

// Backup is the full-backup document.
type Backup struct {
	Assets       []*domain.Asset       `json:"assets"`
	YieldRecords []*domain.YieldRecord `json:"yieldRecords"`
	ExportDate   time.Time             `json:"exportDate"`
	Version      string                `json:"version"`
}

// NewBackup wraps a ledger snapshot.
func NewBackup(snap *usecase.Snapshot) *Backup {
	b := &Backup{
		Assets:       snap.Assets,
		YieldRecords: snap.YieldRecords,
		ExportDate:   snap.TakenAt.UTC(),
		Version:      BackupVersion,
	}
	if b.Assets == nil {
		b.Assets = []*domain.Asset{}
	}
	if b.YieldRecords == nil {
		b.YieldRecords = []*domain.YieldRecord{}
	}
	return b
}

// EncodeBackup writes snap as an indented backup document.
func EncodeBackup(w io.Writer, snap *usecase.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewBackup(snap)); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// backupAsset is the lenient shape read from a backup. Everything but assets is ignored.
type backupAsset struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialAmount  json.RawMessage `json:"initialAmount"`
	InterestRate   json.RawMessage `json:"interestRate"`
	InvestmentDate string          `json:"investmentDate"`
	Description    string          `json:"description"`
}

// DecodeBackup reads the assets of a backup document as import rows. Rows are numbered
// from 1 in array order.
func DecodeBackup(r io.Reader) ([]usecase.ImportRow, error) {
	var doc struct {
		Assets json.RawMessage `json:"assets"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	var raw []json.RawMessage
	if len(doc.Assets) == 0 || doc.Assets[0] != '[' {
		return nil, fmt.Errorf("%w: assets array is missing", ErrInvalidFormat)
	}
	if err := json.Unmarshal(doc.Assets, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	rows := make([]usecase.ImportRow, 0, len(raw))
	for i, item := range raw {
		rows = append(rows, decodeBackupAsset(i+1, item))
	}

	return rows, nil
}

func decodeBackupAsset(n int, item json.RawMessage) usecase.ImportRow {
	row := usecase.ImportRow{Row: n}

	var a backupAsset
	if err := json.Unmarshal(item, &a); err != nil {
		row.Err = fmt.Errorf("malformed asset: %w", err)
		return row
	}

	row.Input.Name = strings.TrimSpace(a.Name)
	row.Input.Description = a.Description

	if row.Input.Name == "" {
		row.Err = ErrMissingName
		return row
	}

	t := domain.AssetType(a.Type)
	if !t.IsValid() {
		row.Err = ErrUnknownType
		return row
	}
	row.Input.Type = t

	amount, ok := parseJSONNumber(a.InitialAmount)
	if !ok {
		row.Err = ErrInvalidAmount
		return row
	}
	row.Input.InitialAmount = amount

	if rate, ok := parseJSONNumber(a.InterestRate); ok {
		row.Input.InterestRate = rate
	}

	if a.InvestmentDate != "" {
		d, err := domain.ParseDate(a.InvestmentDate)
		if err != nil {
			row.Err = fmt.Errorf("%w: %v", ErrInvalidDate, err)
			return row
		}
		row.Input.InvestmentDate = d
	}

	return row
}

// parseJSONNumber accepts a JSON number or a string holding one.
func parseJSONNumber(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, false
	}
	return d, true
}
