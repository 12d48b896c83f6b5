package pose

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestEstimate_OpenPalm(t *testing.T) {
	hand := detector.OpenPalmLandmarks()

	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("expected estimate to succeed")
	}

	if sig.Gesture != GestureOpen {
		t.Errorf("expected open gesture, got %v", sig.Gesture)
	}

	if !sig.HasOrientation {
		t.Error("expected orientation from non-degenerate palm geometry")
	}

	q := sig.Orientation
	length := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
	if math.Abs(length-1) > 1e-3 {
		t.Errorf("expected unit quaternion, got length %f", length)
	}
}

func TestEstimate_ClosedFist(t *testing.T) {
	hand := detector.ClosedFistLandmarks()

	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("expected estimate to succeed")
	}

	if sig.Gesture != GestureClosed {
		t.Errorf("expected closed gesture, got %v", sig.Gesture)
	}
}

func TestEstimate_ScaleInvariance(t *testing.T) {
	// Uniformly scaling all landmarks models the same hand nearer or
	// farther from the camera; classification must not change.
	scales := []float64{0.3, 1.0, 3.0}

	for _, k := range scales {
		open := scaleHand(detector.OpenPalmLandmarks(), k)
		sig, ok := Estimate(&open)
		if !ok {
			t.Fatalf("scale %v: expected estimate to succeed", k)
		}
		if sig.Gesture != GestureOpen {
			t.Errorf("scale %v: open hand classified as %v", k, sig.Gesture)
		}

		closed := scaleHand(detector.ClosedFistLandmarks(), k)
		sig, ok = Estimate(&closed)
		if !ok {
			t.Fatalf("scale %v: expected estimate to succeed", k)
		}
		if sig.Gesture != GestureClosed {
			t.Errorf("scale %v: closed hand classified as %v", k, sig.Gesture)
		}
	}
}

func TestEstimate_MirroredPosition(t *testing.T) {
	hand := detector.OpenPalmLandmarks()
	mcp := hand.Points[detector.MiddleMCP]

	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("expected estimate to succeed")
	}

	wantX := float32(1 - mcp.X)
	wantY := float32(mcp.Y)
	if math.Abs(float64(sig.Position.X-wantX)) > 1e-6 {
		t.Errorf("expected mirrored x %f, got %f", wantX, sig.Position.X)
	}
	if math.Abs(float64(sig.Position.Y-wantY)) > 1e-6 {
		t.Errorf("expected y %f, got %f", wantY, sig.Position.Y)
	}
}

func TestEstimate_DepthScale(t *testing.T) {
	hand := detector.OpenPalmLandmarks()
	want := float32(detector.DistXY(hand.Points[detector.Wrist], hand.Points[detector.MiddleMCP]))

	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("expected estimate to succeed")
	}

	if math.Abs(float64(sig.DepthScale-want)) > 1e-6 {
		t.Errorf("expected depth scale %f, got %f", want, sig.DepthScale)
	}
}

func TestEstimate_DegenerateGeometry(t *testing.T) {
	hand := detector.CoincidentLandmarks()

	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("degenerate geometry should still produce a signal")
	}

	if sig.HasOrientation {
		t.Error("coincident landmarks should not produce an orientation")
	}

	if !sig.Valid() {
		t.Error("degenerate signal should still be finite")
	}
}

func TestEstimate_NilHand(t *testing.T) {
	if _, ok := Estimate(nil); ok {
		t.Error("expected estimate of nil hand to fail")
	}
}

func TestSignal_Valid(t *testing.T) {
	sig := Signal{}
	if !sig.Valid() {
		t.Error("zero signal should be valid")
	}

	nan := float32(math.NaN())

	sig = Signal{}
	sig.Position.X = nan
	if sig.Valid() {
		t.Error("NaN position should invalidate the signal")
	}

	sig = Signal{}
	sig.DepthScale = nan
	if sig.Valid() {
		t.Error("NaN depth scale should invalidate the signal")
	}

	sig = Signal{HasOrientation: true}
	sig.Orientation.W = nan
	if sig.Valid() {
		t.Error("NaN orientation should invalidate the signal")
	}
}

// scaleHand scales every landmark about the origin, preserving all distance
// ratios.
func scaleHand(h detector.HandLandmarks, k float64) detector.HandLandmarks {
	for i := range h.Points {
		h.Points[i].X *= k
		h.Points[i].Y *= k
		h.Points[i].Z *= k
	}
	return h
}
