// Package api provides HTTP API handlers for the Mudra particle installation.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/app"
)

// ShapeHandler handles HTTP requests for the shape library and the active
// shape selection.
type ShapeHandler struct {
	app *app.App
}

// NewShapeHandler creates a new ShapeHandler over the given application.
func NewShapeHandler(a *app.App) *ShapeHandler {
	return &ShapeHandler{app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ShapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/shapes or /api/shapes/active
	path := strings.TrimPrefix(r.URL.Path, "/api/shapes")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case path == "active":
		switch r.Method {
		case http.MethodGet:
			h.getActive(w, r)
		case http.MethodPut:
			h.setActive(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type setShapeRequest struct {
	Shape string `json:"shape"`
}

type activeShapeResponse struct {
	Shape string `json:"shape"`
}

type listShapesResponse struct {
	Shapes []string `json:"shapes"`
	Active string   `json:"active"`
}

// list handles GET /api/shapes and returns the shape library.
func (h *ShapeHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listShapesResponse{
		Shapes: h.app.Shapes(),
		Active: h.app.Engine().ActiveShape(),
	})
}

// getActive handles GET /api/shapes/active.
func (h *ShapeHandler) getActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, activeShapeResponse{Shape: h.app.Engine().ActiveShape()})
}

// setActive handles PUT /api/shapes/active and switches the assembled shape.
// Unknown shape ids fall back to the default, so the response echoes the
// shape that actually took effect.
func (h *ShapeHandler) setActive(w http.ResponseWriter, r *http.Request) {
	var req setShapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Shape == "" {
		writeError(w, http.StatusBadRequest, "Shape is required")
		return
	}

	h.app.SetShape(req.Shape)
	writeJSON(w, http.StatusOK, activeShapeResponse{Shape: h.app.Engine().ActiveShape()})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
