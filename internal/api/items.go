package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/backoffice/internal/access"
	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/status"
	"github.com/erazemk/backoffice/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Records store.Records
	DB      *sql.DB
}

type transitionRequest struct {
	Workflow string `json:"workflow"`
	Status   string `json:"status"`
	status.Input
}

type transitionsResponse struct {
	Workflow string         `json:"workflow"`
	Current  status.Label   `json:"current"`
	Options  []status.Label `json:"options"`
}

// imageKinds maps the {kind} path value to the list it appends to.
var imageKinds = map[string]func(it *model.Item) *[]string{
	"defect":     func(it *model.Item) *[]string { return &it.DefectImages },
	"evidence":   func(it *model.Item) *[]string { return &it.ConditionImages },
	"redemption": func(it *model.Item) *[]string { return &it.RedemptionSlips },
}

// List handles GET /api/items. type may be repeated or comma separated.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f store.ItemFilter
	for _, v := range q["type"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t == "" {
				continue
			}
			if !model.ValidType(t) {
				validationError(w, map[string]string{"type": "oneof"})
				return
			}
			f.Types = append(f.Types, t)
		}
	}
	f.Status = strings.TrimSpace(q.Get("status"))

	items, err := h.Records.ListItems(r.Context(), f)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, itemViews(items, viewerOf(r)))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*it, viewerOf(r), it.OwnerID))
}

// Update handles PATCH /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	it, ok := h.loadEditable(w, r)
	if !ok {
		return
	}

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validateBody(w, &patch) {
		return
	}

	updated, err := h.Records.UpdateItem(r.Context(), it.ID, patch)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(*updated, viewerOf(r), updated.OwnerID))
}

// SetStatus handles PUT /api/items/{id}/status. The body names the workflow,
// the target state and whatever that state needs (dates, slips, evidence).
func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	it, ok := h.loadEditable(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wf, err := status.ParseWorkflow(req.Workflow)
	if err != nil {
		validationError(w, map[string]string{"workflow": "oneof"})
		return
	}
	if !validateBody(w, &req.Input) {
		return
	}

	from, err := status.Apply(it, wf, req.Status, req.Input)
	if err != nil {
		var incomplete *status.IncompleteError
		switch {
		case errors.As(err, &incomplete):
			validationError(w, incomplete.Fields)
		case errors.Is(err, status.ErrUnknownStatus):
			validationError(w, map[string]string{"status": "oneof"})
		case errors.Is(err, status.ErrImageLimit):
			validationError(w, map[string]string{"images": "max"})
		default:
			slog.Error("failed to apply status", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to change status")
		}
		return
	}

	claims := GetClaims(r.Context())
	entry := model.HistoryEntry{
		ItemID:    it.ID,
		Workflow:  string(wf),
		From:      from,
		To:        req.Status,
		ChangedBy: &claims.UserID,
	}
	if err := store.SaveTransition(r.Context(), h.DB, it, entry); err != nil {
		slog.Error("failed to save status", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to change status")
		return
	}

	slog.Info("status changed", "user", claims.Email, "item", it.ID,
		"workflow", wf, "from", from, "to", req.Status)
	jsonResponse(w, http.StatusOK, newItemView(*it, viewerOf(r), it.OwnerID))
}

// Transitions handles GET /api/items/{id}/transitions?workflow=.
func (h *ItemsHandler) Transitions(w http.ResponseWriter, r *http.Request) {
	it, ok := h.load(w, r)
	if !ok {
		return
	}
	wf, err := status.ParseWorkflow(r.URL.Query().Get("workflow"))
	if err != nil {
		validationError(w, map[string]string{"workflow": "oneof"})
		return
	}

	current := status.Current(it, wf)
	options := []status.Label{}
	for _, s := range status.Next(wf, current) {
		options = append(options, status.LabelOf(wf, s))
	}
	jsonResponse(w, http.StatusOK, transitionsResponse{
		Workflow: string(wf),
		Current:  status.LabelOf(wf, current),
		Options:  options,
	})
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	it, ok := h.load(w, r)
	if !ok {
		return
	}

	history, err := store.GetItemHistory(r.Context(), h.DB, it.ID)
	if err != nil {
		slog.Error("failed to get item history", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item history")
		return
	}
	if history == nil {
		history = []model.HistoryEntry{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// AddImage handles POST /api/items/{id}/images/{kind}.
func (h *ItemsHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	list, known := imageKinds[r.PathValue("kind")]
	if !known {
		jsonError(w, http.StatusNotFound, "unknown image kind")
		return
	}
	it, ok := h.loadEditable(w, r)
	if !ok {
		return
	}

	if len(*list(it)) >= status.MaxImages {
		validationError(w, map[string]string{r.PathValue("kind"): "max"})
		return
	}

	key, _, ok := saveUpload(w, r, h.DB)
	if !ok {
		return
	}
	updated, err := store.AppendItemImage(r.Context(), h.DB, it.ID, list, key)
	if err != nil {
		h.discardUpload(r, key)
		switch {
		case errors.Is(err, status.ErrImageLimit):
			validationError(w, map[string]string{r.PathValue("kind"): "max"})
		case errors.Is(err, store.ErrNotFound):
			jsonError(w, http.StatusNotFound, "item not found")
		default:
			slog.Error("failed to save item", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to save item")
		}
		return
	}
	jsonResponse(w, http.StatusCreated, newItemView(*updated, viewerOf(r), updated.OwnerID))
}

// load fetches the {id} item, answering 400 or 404 itself when it cannot.
func (h *ItemsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return nil, false
	}
	it, err := h.Records.GetItem(r.Context(), id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return nil, false
	}
	if it == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return nil, false
	}
	return it, true
}

// loadEditable is load plus the role gate's edit check.
func (h *ItemsHandler) loadEditable(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	it, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	if !access.For(viewerOf(r), it.OwnerID).CanEdit {
		jsonError(w, http.StatusForbidden, "cannot edit this item")
		return nil, false
	}
	return it, true
}

// discardUpload removes an image stored for a request that then failed.
func (h *ItemsHandler) discardUpload(r *http.Request, key string) {
	if err := store.DeleteImage(r.Context(), h.DB, key); err != nil {
		slog.Warn("failed to discard upload", "key", key, "error", err)
	}
}
