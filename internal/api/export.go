package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/backoffice/internal/export"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/store"
)

// ExportHandler serves item lists as downloadable documents. Prices are
// masked per row exactly as in the JSON API.
type ExportHandler struct {
	Records store.Records
	Options export.Options
}

// Spreadsheet handles GET /api/export/items.xlsx.
func (h *ExportHandler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "xlsx", func(rows []export.Row, now time.Time) (*export.Document, error) {
		return export.Spreadsheet(rows, now)
	})
}

// PDF handles GET /api/export/items.pdf.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pdf", func(rows []export.Row, now time.Time) (*export.Document, error) {
		return export.PDF(rows, now, h.Options)
	})
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, format string,
	build func([]export.Row, time.Time) (*export.Document, error)) {
	var f store.ItemFilter
	if t := r.URL.Query().Get("type"); t != "" {
		if !model.ValidType(t) {
			validationError(w, map[string]string{"type": "oneof"})
			return
		}
		f.Types = []string{t}
	}

	items, err := h.Records.ListItems(r.Context(), f)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export items")
		return
	}

	doc, err := build(export.Rows(items, viewerOf(r)), time.Now())
	if err != nil {
		slog.Error("failed to export items", "format", format, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export items")
		return
	}

	slog.Info("export generated", "user", GetClaims(r.Context()).Email,
		"format", format, "rows", len(items), "bytes", len(doc.Data))
	attachment(w, doc.MIME, doc.Filename, doc.Data)
}
