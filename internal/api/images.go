package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/backoffice/internal/imaging"
	"github.com/erazemk/backoffice/internal/store"
)

// multipartOverhead leaves room for form boundaries and headers around the
// image itself.
const multipartOverhead = 64 << 10

// ImagesHandler handles image upload and download.
type ImagesHandler struct {
	DB *sql.DB
}

type uploadResponse struct {
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upload handles POST /api/images. The image goes in the "image" form field.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key, img, ok := saveUpload(w, r, h.DB)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusCreated, uploadResponse{Key: key, Width: img.Width, Height: img.Height})
}

// Get handles GET /api/images/{key}.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetImage(r.Context(), h.DB, r.PathValue("key"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	// Keys are never reused, so the content behind one never changes.
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	w.Write(data)
}

// saveUpload reads the "image" form field, normalizes it and stores it. On
// failure it has already answered the request.
func saveUpload(w http.ResponseWriter, r *http.Request, db *sql.DB) (string, *imaging.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+multipartOverhead)

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, http.StatusRequestEntityTooLarge, "image larger than 5 MB")
			return "", nil, false
		}
		jsonError(w, http.StatusBadRequest, "image file required")
		return "", nil, false
	}
	defer file.Close()

	img, err := imaging.Process(file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "image larger than 5 MB")
		return "", nil, false
	case errors.Is(err, imaging.ErrUnsupported):
		jsonError(w, http.StatusUnsupportedMediaType, "image must be JPEG or PNG")
		return "", nil, false
	case err != nil:
		jsonError(w, http.StatusBadRequest, "could not read image")
		return "", nil, false
	}

	key, err := store.SaveImage(r.Context(), db, img.Data, img.MIME)
	if err != nil {
		slog.Error("failed to save image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return "", nil, false
	}
	return key, img, true
}
