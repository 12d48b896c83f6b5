package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/store"
)

func testPhotoHandler(t *testing.T) (*PhotoHandler, *app.App) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	st, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	a := app.New(app.Config{Store: st, ParticleCount: 200})
	return NewPhotoHandler(st, a), a
}

func TestPhotoHandler_CreateAssignsParticle(t *testing.T) {
	h, a := testPhotoHandler(t)

	body := strings.NewReader(`{"label": "beach", "cell_x": 0.25, "cell_y": 0.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response struct {
		ID    string  `json:"id"`
		Label string  `json:"label"`
		CellX float64 `json:"cell_x"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID == "" {
		t.Error("expected a generated id")
	}
	if response.Label != "beach" || response.CellX != 0.25 {
		t.Errorf("unexpected response: %+v", response)
	}

	// The running field picked up the new cell.
	if got := len(a.Engine().PhotoParticleIDs()); got != 1 {
		t.Errorf("expected 1 photo particle, got %d", got)
	}
}

func TestPhotoHandler_CreateRejectsOutOfRangeCell(t *testing.T) {
	h, _ := testPhotoHandler(t)

	body := strings.NewReader(`{"cell_x": 1.5, "cell_y": 0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/photos", body)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPhotoHandler_ListAndDelete(t *testing.T) {
	h, a := testPhotoHandler(t)

	// Seed one entry through the handler.
	body := strings.NewReader(`{"cell_x": 0, "cell_y": 0}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", rec.Code)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	// List
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}

	var listed struct {
		Photos []photoResponse `json:"photos"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listed.Photos) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(listed.Photos))
	}

	// Delete
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/photos/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", rec.Code)
	}

	if got := len(a.Engine().PhotoParticleIDs()); got != 0 {
		t.Errorf("expected 0 photo particles after delete, got %d", got)
	}

	// Deleting again is a 404.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/photos/"+created.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPhotoHandler_GetMissing(t *testing.T) {
	h, _ := testPhotoHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/no-such-id", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
