package handler

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/iho/wealthledger/internal/adapter/http/dto"
	"github.com/iho/wealthledger/internal/adapter/interchange"
	"github.com/iho/wealthledger/internal/domain"
	"github.com/iho/wealthledger/internal/usecase"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// InterchangeService defines the behavior needed by InterchangeHandler.
type InterchangeService interface {
	Import(ctx context.Context, rows []usecase.ImportRow) *usecase.ImportResult
	Export(ctx context.Context) *usecase.Snapshot
}

// InterchangeHandler handles bulk export and import.
type InterchangeHandler struct {
	interchange InterchangeService
	maxBytes    int64
}

// NewInterchangeHandler creates a new InterchangeHandler. Import bodies larger than
// maxBytes are rejected; zero disables the limit.
func NewInterchangeHandler(interchange InterchangeService, maxBytes int64) *InterchangeHandler {
	return &InterchangeHandler{interchange: interchange, maxBytes: maxBytes}
}

// Export writes the ledger as a JSON backup (default) or a CSV sheet of assets.
func (h *InterchangeHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = formatJSON
	}

	snap := h.interchange.Export(r.Context())
	filename := fmt.Sprintf("wealth-management-%s.%s", domain.DateOf(snap.TakenAt), format)

	switch format {
	case formatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		interchange.EncodeBackup(w, snap)
	case formatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		interchange.EncodeCSV(w, snap.Assets)
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format", format)
	}
}

// Import adds the assets of an uploaded backup or CSV sheet. The format comes from
// ?format= or, failing that, the request Content-Type.
func (h *InterchangeHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := importFormat(r)
	if format == "" {
		writeError(w, http.StatusBadRequest, "unsupported import format", r.Header.Get("Content-Type"))
		return
	}

	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	var (
		rows []usecase.ImportRow
		err  error
	)
	switch format {
	case formatJSON:
		rows, err = interchange.DecodeBackup(body)
	case formatCSV:
		rows, err = interchange.DecodeCSV(body)
	}
	if err != nil {
		writeDomainError(w, err, "failed to read import file")
		return
	}

	res := h.interchange.Import(r.Context(), rows)

	writeJSON(w, http.StatusOK, dto.ImportFromUseCase(res))
}

func importFormat(r *http.Request) string {
	if f := strings.ToLower(r.URL.Query().Get("format")); f != "" {
		if f == formatJSON || f == formatCSV {
			return f
		}
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/json":
		return formatJSON
	case "text/csv", "application/csv":
		return formatCSV
	}
	return ""
}
