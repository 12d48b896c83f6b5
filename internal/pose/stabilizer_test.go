package pose

import (
	"math"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/ayusman/mudra/internal/detector"
)

const tickDt = float32(1.0 / 60.0)

func estimateOrFail(t *testing.T, hand detector.HandLandmarks) Signal {
	t.Helper()
	sig, ok := Estimate(&hand)
	if !ok {
		t.Fatal("expected estimate to succeed")
	}
	return sig
}

func TestStabilizer_InitialState(t *testing.T) {
	s := NewStabilizer()

	pos := s.Position()
	if pos.X != 0.5 || pos.Y != 0.5 {
		t.Errorf("expected centered position, got %v", pos)
	}

	if s.Scale() != 1.0 {
		t.Errorf("expected unit scale, got %f", s.Scale())
	}

	if s.Blend() != 0 {
		t.Errorf("expected fully dispersed blend, got %f", s.Blend())
	}

	if s.Gesture() != GestureOpen {
		t.Errorf("expected open gesture at rest, got %v", s.Gesture())
	}
}

func TestStabilizer_BlendConvergesWhenClosed(t *testing.T) {
	s := NewStabilizer()
	sig := estimateOrFail(t, detector.ClosedFistLandmarks())

	// Five seconds of held fist at 60 ticks per second.
	s.Ingest(sig)
	for i := 0; i < 300; i++ {
		s.Tick(tickDt)
	}

	if s.Blend() <= 0.99 {
		t.Errorf("expected blend above 0.99 after five seconds, got %f", s.Blend())
	}
	if s.Blend() > 1 {
		t.Errorf("blend exceeded 1: %f", s.Blend())
	}
}

func TestStabilizer_BlendStaysBounded(t *testing.T) {
	s := NewStabilizer()
	open := estimateOrFail(t, detector.OpenPalmLandmarks())
	closed := estimateOrFail(t, detector.ClosedFistLandmarks())

	// Alternate gestures with wildly varying dt.
	dts := []float32{0.001, tickDt, 0.1, 0.5, 2.0}
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			s.Ingest(closed)
		} else {
			s.Ingest(open)
		}
		s.Tick(dts[i%len(dts)])

		if s.Blend() < 0 || s.Blend() > 1 {
			t.Fatalf("blend left [0,1] at step %d: %f", i, s.Blend())
		}
	}
}

func TestStabilizer_BlendIsContinuous(t *testing.T) {
	s := NewStabilizer()
	s.Ingest(estimateOrFail(t, detector.ClosedFistLandmarks()))

	prev := s.Blend()
	for i := 0; i < 120; i++ {
		s.Tick(tickDt)
		b := s.Blend()

		// First-order approach: monotone toward the target, no single
		// step larger than the remaining gap times the rate window.
		if b < prev {
			t.Fatalf("blend regressed at step %d: %f -> %f", i, prev, b)
		}
		if b-prev > 0.05 {
			t.Fatalf("blend jumped at step %d: %f -> %f", i, prev, b)
		}
		prev = b
	}
}

func TestStabilizer_RejectsNaNSignal(t *testing.T) {
	s := NewStabilizer()

	bad := estimateOrFail(t, detector.OpenPalmLandmarks())
	bad.Position.X = float32(math.NaN())

	if s.Ingest(bad) {
		t.Fatal("expected NaN signal to be rejected")
	}

	for i := 0; i < 60; i++ {
		s.Tick(tickDt)
	}

	pos := s.Position()
	if pos.X != 0.5 || pos.Y != 0.5 {
		t.Errorf("rejected signal should not move the position, got %v", pos)
	}
	if math32.IsNaN(s.Position().X) || math32.IsNaN(s.Scale()) {
		t.Error("NaN leaked into smoothed state")
	}
}

func TestStabilizer_HoldsPoseWhenHandDisappears(t *testing.T) {
	s := NewStabilizer()
	s.Ingest(estimateOrFail(t, detector.ClosedFistLandmarks()))

	for i := 0; i < 600; i++ {
		s.Tick(tickDt)
	}
	held := s.Position()
	heldBlend := s.Blend()

	// No further ingests: the hand has left the frame. State holds.
	for i := 0; i < 600; i++ {
		s.Tick(tickDt)
	}

	pos := s.Position()
	if math.Abs(float64(pos.X-held.X)) > 1e-3 || math.Abs(float64(pos.Y-held.Y)) > 1e-3 {
		t.Errorf("position drifted without input: %v -> %v", held, pos)
	}
	if s.Blend() < heldBlend {
		t.Errorf("blend decayed without input: %f -> %f", heldBlend, s.Blend())
	}
	if s.Gesture() != GestureClosed {
		t.Errorf("gesture should persist, got %v", s.Gesture())
	}
}

func TestStabilizer_ClosedDampsHarderThanOpen(t *testing.T) {
	open := NewStabilizer()
	closed := NewStabilizer()

	sigOpen := estimateOrFail(t, detector.OpenPalmLandmarks())
	sigClosed := estimateOrFail(t, detector.ClosedFistLandmarks())

	// Same position target for both so the comparison is fair.
	sigClosed.Position = sigOpen.Position

	open.Ingest(sigOpen)
	closed.Ingest(sigClosed)
	open.Tick(tickDt)
	closed.Tick(tickDt)

	movedOpen := open.Position().Sub(math32.Vec2(0.5, 0.5)).Length()
	movedClosed := closed.Position().Sub(math32.Vec2(0.5, 0.5)).Length()

	if movedOpen <= movedClosed {
		t.Errorf("open hand should track faster: open moved %f, closed moved %f",
			movedOpen, movedClosed)
	}
}

func TestStabilizer_ScaleRemap(t *testing.T) {
	cases := []struct {
		name  string
		depth float32
		want  float32
	}{
		{"near clamps to max", 0.5, 2.5},
		{"far clamps to min", 0.05, 1.0},
		{"midpoint lands mid-range", 0.2, 1.75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStabilizer()
			sig := estimateOrFail(t, detector.OpenPalmLandmarks())
			sig.DepthScale = tc.depth

			s.Ingest(sig)
			for i := 0; i < 1200; i++ {
				s.Tick(tickDt)
			}

			if math.Abs(float64(s.Scale()-tc.want)) > 0.05 {
				t.Errorf("expected scale near %f, got %f", tc.want, s.Scale())
			}
		})
	}
}

func TestStabilizer_TiltFollowsPalmHeight(t *testing.T) {
	s := NewStabilizer()
	sig := estimateOrFail(t, detector.OpenPalmLandmarks())
	sig.Orientation.SetIdentity()
	sig.HasOrientation = true
	sig.Position = math32.Vec2(0.5, 0.0) // palm at the top of the frame

	s.Ingest(sig)
	for i := 0; i < 2400; i++ {
		s.Tick(tickDt)
	}

	euler := s.Orientation().ToEuler()
	want := math32.DegToRad(72)
	if math.Abs(float64(euler.X-want)) > 0.15 {
		t.Errorf("expected pitch near %f rad at top of frame, got %f", want, euler.X)
	}
}

func TestStabilizer_OrientationStaysUnit(t *testing.T) {
	s := NewStabilizer()
	sig := estimateOrFail(t, detector.OpenPalmLandmarks())

	s.Ingest(sig)
	for i := 0; i < 600; i++ {
		s.Tick(tickDt)

		q := s.Orientation()
		length := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
		if math.Abs(length-1) > 1e-3 {
			t.Fatalf("orientation drifted off unit length at step %d: %f", i, length)
		}
	}
}

func TestStabilizer_DegenerateFrameKeepsOrientation(t *testing.T) {
	s := NewStabilizer()
	good := estimateOrFail(t, detector.OpenPalmLandmarks())

	s.Ingest(good)
	for i := 0; i < 300; i++ {
		s.Tick(tickDt)
	}
	before := s.Orientation()

	// A degenerate frame carries no orientation; the previous target holds.
	degenerate := estimateOrFail(t, detector.CoincidentLandmarks())
	degenerate.Position = good.Position
	s.Ingest(degenerate)
	for i := 0; i < 300; i++ {
		s.Tick(tickDt)
	}

	after := s.Orientation()
	dot := before.X*after.X + before.Y*after.Y + before.Z*after.Z + before.W*after.W
	if math.Abs(float64(dot)) < 0.99 {
		t.Errorf("orientation moved through degenerate frames: dot %f", dot)
	}
}
