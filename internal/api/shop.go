package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/backoffice/internal/model"
	"github.com/erazemk/backoffice/internal/store"
)

// ShopHandler handles the shop profile.
type ShopHandler struct {
	DB *sql.DB
}

// Get handles GET /api/shop.
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := store.GetShopProfile(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get shop profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get shop profile")
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// Update handles PUT /api/shop.
func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p model.ShopProfile
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validateBody(w, &p) {
		return
	}

	updated, err := store.UpdateShopProfile(r.Context(), h.DB, &p)
	if err != nil {
		slog.Error("failed to update shop profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update shop profile")
		return
	}

	slog.Info("shop profile updated", "user", GetClaims(r.Context()).Email)
	jsonResponse(w, http.StatusOK, updated)
}
