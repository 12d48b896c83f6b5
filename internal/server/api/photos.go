package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/store"
)

// PhotoHandler handles HTTP requests for the photo-cell catalog. Catalog
// changes immediately reassign the photo particles in the running field.
type PhotoHandler struct {
	store *store.Store
	app   *app.App
}

// NewPhotoHandler creates a new PhotoHandler with the given store and application.
func NewPhotoHandler(s *store.Store, a *app.App) *PhotoHandler {
	return &PhotoHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PhotoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/photos or /api/photos/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/photos")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/photos
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/photos/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createPhotoRequest struct {
	Label string  `json:"label"`
	CellX float64 `json:"cell_x"`
	CellY float64 `json:"cell_y"`
}

type photoResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	CellX     float64 `json:"cell_x"`
	CellY     float64 `json:"cell_y"`
	CreatedAt string  `json:"created_at"`
}

type listPhotosResponse struct {
	Photos []photoResponse `json:"photos"`
}

// toResponse converts a store.Photo to a photoResponse.
func toResponse(p *store.Photo) photoResponse {
	return photoResponse{
		ID:        p.ID,
		Label:     p.Label,
		CellX:     p.CellX,
		CellY:     p.CellY,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/photos and returns the catalog.
func (h *PhotoHandler) list(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.Photos().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	response := listPhotosResponse{
		Photos: make([]photoResponse, 0, len(photos)),
	}

	for _, p := range photos {
		response.Photos = append(response.Photos, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/photos/{id} and returns a single catalog entry.
func (h *PhotoHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	photo, err := h.store.Photos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get photo")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(photo))
}

// create handles POST /api/photos and adds a catalog entry.
func (h *PhotoHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Cell origins are normalized atlas coordinates
	if req.CellX < 0 || req.CellX > 1 || req.CellY < 0 || req.CellY > 1 {
		writeError(w, http.StatusBadRequest, "Cell origin out of range")
		return
	}

	photo := &store.Photo{
		ID:    uuid.New().String(),
		Label: req.Label,
		CellX: req.CellX,
		CellY: req.CellY,
	}

	if err := h.store.Photos().Create(photo); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create photo")
		return
	}

	if err := h.app.RefreshPhotoCells(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign photo cells")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(photo))
}

// delete handles DELETE /api/photos/{id} and removes a catalog entry.
func (h *PhotoHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Photos().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	if err := h.app.RefreshPhotoCells(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign photo cells")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
