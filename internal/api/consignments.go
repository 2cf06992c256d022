package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/backoffice/internal/access"
	"github.com/erazemk/backoffice/internal/export"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/store"
)

// ConsignmentsHandler handles batch endpoints. Any signed-in user may create
// a batch; editing and deleting follow the role gate.
type ConsignmentsHandler struct {
	Records store.Records
	DB      *sql.DB
	Export  export.Options
}

// List handles GET /api/consignments.
func (h *ConsignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ConsignmentFilter{
		Type:  q.Get("type"),
		Query: strings.TrimSpace(q.Get("q")),
	}
	if f.Type != "" && !model.ValidType(f.Type) {
		validationError(w, map[string]string{"type": "oneof"})
		return
	}
	if v := q.Get("owner"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid owner id")
			return
		}
		f.OwnerID = id
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	f.Normalize()

	list, total, err := h.Records.ListConsignments(r.Context(), f)
	if err != nil {
		slog.Error("failed to list consignments", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list consignments")
		return
	}

	v := viewerOf(r)
	views := make([]consignmentView, 0, len(list))
	for _, c := range list {
		views = append(views, newConsignmentView(c, v))
	}
	jsonResponse(w, http.StatusOK, consignmentPage{
		Consignments: views,
		Total:        total,
		Page:         f.Page,
		PageSize:     f.PageSize,
	})
}

// Get handles GET /api/consignments/{id}.
func (h *ConsignmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, newConsignmentView(*c, viewerOf(r)))
}

// Create handles POST /api/consignments.
func (h *ConsignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c model.Consignment
	if err := decodeJSON(r, &c); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validateBody(w, &c) {
		return
	}

	v := viewerOf(r)
	c.UserID = v.ID
	created, err := h.Records.CreateConsignment(r.Context(), &c)
	if err != nil {
		slog.Error("failed to create consignment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create consignment")
		return
	}

	slog.Info("consignment created", "user", GetClaims(r.Context()).Email,
		"lot", created.LotCode, "type", created.Type, "items", len(created.Items))
	jsonResponse(w, http.StatusCreated, newConsignmentView(*created, v))
}

// Update handles PUT /api/consignments/{id}.
func (h *ConsignmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.load(w, r)
	if !ok {
		return
	}
	v := viewerOf(r)
	if !access.For(v, current.UserID).CanEdit {
		jsonError(w, http.StatusForbidden, "cannot edit this consignment")
		return
	}

	var c model.Consignment
	if err := decodeJSON(r, &c); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Type cannot change; fill it in so partial clients still validate.
	c.Type = current.Type
	if !validateBody(w, &c) {
		return
	}

	updated, err := h.Records.UpdateConsignment(r.Context(), current.ID, &c)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "consignment not found")
		return
	}
	if err != nil {
		slog.Error("failed to update consignment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update consignment")
		return
	}

	slog.Info("consignment updated", "user", GetClaims(r.Context()).Email,
		"lot", updated.LotCode, "items", len(updated.Items))
	jsonResponse(w, http.StatusOK, newConsignmentView(*updated, v))
}

// Delete handles DELETE /api/consignments/{id}.
func (h *ConsignmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	current, ok := h.load(w, r)
	if !ok {
		return
	}
	if !access.For(viewerOf(r), current.UserID).CanDelete {
		jsonError(w, http.StatusForbidden, "cannot delete this consignment")
		return
	}

	if err := h.Records.DeleteConsignment(r.Context(), current.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "consignment not found")
			return
		}
		slog.Error("failed to delete consignment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete consignment")
		return
	}

	slog.Info("consignment deleted", "user", GetClaims(r.Context()).Email, "lot", current.LotCode)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "consignment deleted"})
}

// Label handles GET /api/consignments/{id}/label.pdf.
func (h *ConsignmentsHandler) Label(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}

	shop, err := store.GetShopProfile(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get shop profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build label")
		return
	}

	doc, err := export.Label(c, shop, h.Export)
	if err != nil {
		slog.Error("failed to build label", "lot", c.LotCode, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build label")
		return
	}
	attachment(w, doc.MIME, doc.Filename, doc.Data)
}

// load fetches the {id} batch, answering 400 or 404 itself when it cannot.
func (h *ConsignmentsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Consignment, bool) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid consignment id")
		return nil, false
	}
	c, err := h.Records.GetConsignment(r.Context(), id)
	if err != nil {
		slog.Error("failed to get consignment", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get consignment")
		return nil, false
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "consignment not found")
		return nil, false
	}
	return c, true
}
