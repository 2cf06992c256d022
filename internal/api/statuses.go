package api

import (
	"net/http"

	"github.com/erazemk/backoffice/internal/status"
)

// Statuses handles GET /api/statuses?workflow=. Without a workflow it returns
// the global label table.
func Statuses(w http.ResponseWriter, r *http.Request) {
	var wf status.Workflow
	if v := r.URL.Query().Get("workflow"); v != "" {
		var err error
		wf, err = status.ParseWorkflow(v)
		if err != nil {
			validationError(w, map[string]string{"workflow": "oneof"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, status.Table(wf))
}
