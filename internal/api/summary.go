package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
	"github.com/erazemk/backoffice/internal/store"
)

// SummaryHandler serves the dashboard status counts.
type SummaryHandler struct {
	Records store.Records
}

type summary struct {
	types []string
	count func([]model.Item) []status.Count
}

var summaries = map[string]summary{
	"import": {[]string{model.TypeIncome, model.TypeConsignment}, status.ImportSummary},
	"repair": {[]string{model.TypeRepair}, status.RepairSummary},
	"pawn":   {[]string{model.TypePawn}, status.PawnSummary},
	"payout": {[]string{model.TypeConsignment}, status.PayoutSummary},
}

// Get handles GET /api/summary/{name}.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := summaries[r.PathValue("name")]
	if !ok {
		jsonError(w, http.StatusNotFound, "unknown summary")
		return
	}

	items, err := h.Records.ListItems(r.Context(), store.ItemFilter{Types: s.types})
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	jsonResponse(w, http.StatusOK, s.count(items))
}
