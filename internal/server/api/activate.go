package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// ActivateHandler handles the discrete activation event that pulls a photo
// particle into the focus popup.
type ActivateHandler struct {
	app *app.App
}

// NewActivateHandler creates a new ActivateHandler over the given application.
func NewActivateHandler(a *app.App) *ActivateHandler {
	return &ActivateHandler{app: a}
}

type activateResponse struct {
	ParticleID int `json:"particle_id"`
}

// ServeHTTP handles POST /api/activate. Activation is rejected with 409
// while a popup is already running, while the hand is closed, or when no
// photo particles exist.
func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.app.Activate()
	if !ok {
		writeError(w, http.StatusConflict, "Activation unavailable")
		return
	}

	writeJSON(w, http.StatusOK, activateResponse{ParticleID: id})
}
