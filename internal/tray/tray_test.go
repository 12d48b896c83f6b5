package tray

import "testing"

func TestNew_Defaults(t *testing.T) {
	tr := New()

	if !tr.IsEnabled() {
		t.Error("tracking should be enabled by default")
	}
	if tr.Shape() != "sphere" {
		t.Errorf("expected default shape sphere, got %q", tr.Shape())
	}
}

func TestTray_SetShapeBeforeRun(t *testing.T) {
	tr := New()

	// The menu does not exist until Run; the name must still stick so the
	// menu item is built with it.
	tr.SetShape("tree")

	if tr.Shape() != "tree" {
		t.Errorf("expected stored shape tree, got %q", tr.Shape())
	}
}
