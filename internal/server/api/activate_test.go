package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cogentcore.org/core/math32"
)

func TestActivateHandler_NoPhotoParticles(t *testing.T) {
	h := NewActivateHandler(testApp(t))

	req := httptest.NewRequest(http.MethodPost, "/api/activate", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d with no photo particles, got %d", http.StatusConflict, rec.Code)
	}
}

func TestActivateHandler_Succeeds(t *testing.T) {
	a := testApp(t)
	a.Engine().AssignPhotoCells([]math32.Vector2{math32.Vec2(0, 0)})

	h := NewActivateHandler(a)

	req := httptest.NewRequest(http.MethodPost, "/api/activate", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	// A second activation while the popup runs is rejected.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activate", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d for concurrent activation, got %d", http.StatusConflict, rec.Code)
	}
}

func TestActivateHandler_MethodNotAllowed(t *testing.T) {
	h := NewActivateHandler(testApp(t))

	req := httptest.NewRequest(http.MethodGet, "/api/activate", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
