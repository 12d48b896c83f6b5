package pose

import (
	"cogentcore.org/core/math32"
)

// Smoothing constants. Position, orientation and scale all share the
// gesture-dependent factor: a fist should hold steady, an open hand
// should feel directly attached.
const (
	// SmoothingOpen is the per-tick exponential smoothing factor while open.
	SmoothingOpen = 0.15
	// SmoothingClosed is the per-tick factor while closed (heavy damping).
	SmoothingClosed = 0.03

	// MaxTiltDeg caps the synthesized pitch derived from vertical palm
	// position. Raw wrist pitch from the detector is unreliable, so the
	// pitch component is replaced entirely.
	MaxTiltDeg = 72

	// BlendRate is the first-order rate constant (per second) at which
	// the blend parameter approaches its gesture target. Deliberately
	// slower than pose smoothing so assembly reads as a transition, yet
	// fast enough that a held fist converges past 0.99 within five
	// seconds.
	BlendRate = 1.0

	// Raw depthScale input range and the world-scale output range it
	// remaps to.
	depthInMin  = 0.1
	depthInMax  = 0.3
	scaleOutMin = 1.0
	scaleOutMax = 2.5
)

// Stabilizer filters the raw pose signal over time and owns the blend
// parameter. All values hold their last state when the hand disappears;
// there is no decay to an idle pose.
type Stabilizer struct {
	position    math32.Vector2
	orientation math32.Quat
	scale       float32
	blend       float32

	latest    Signal
	hasSignal bool
}

// NewStabilizer returns a Stabilizer at rest: centered palm, identity
// orientation, unit scale, fully dispersed.
func NewStabilizer() *Stabilizer {
	s := &Stabilizer{}
	s.Reset()
	return s
}

// Reset re-initializes all smoothed state. The only path that ever clears
// held pose values.
func (s *Stabilizer) Reset() {
	s.position = math32.Vec2(0.5, 0.5)
	s.orientation.SetIdentity()
	s.scale = scaleOutMin
	s.blend = 0
	s.latest = Signal{Gesture: GestureOpen}
	s.hasSignal = false
}

// Ingest validates and stores a raw signal as the smoothing target.
// Signals with NaN components are rejected whole: no field of the smoothed
// state is touched by a partially corrupt frame. Returns whether the
// signal was accepted.
func (s *Stabilizer) Ingest(sig Signal) bool {
	if !sig.Valid() {
		return false
	}
	if !sig.HasOrientation {
		// Hold the previous orientation target through degenerate frames.
		sig.Orientation = s.latest.Orientation
		sig.HasOrientation = s.latest.HasOrientation
	}
	s.latest = sig
	s.hasSignal = true
	return true
}

// Tick advances all smoothed values by one frame of dt seconds toward the
// most recently ingested signal. With no signal ever ingested only the
// blend parameter moves (toward dispersed).
func (s *Stabilizer) Tick(dt float32) {
	alpha := float32(SmoothingOpen)
	if s.latest.Gesture == GestureClosed {
		alpha = SmoothingClosed
	}

	if s.hasSignal {
		// Position: exponential approach toward the raw palm center.
		s.position = s.position.Add(s.latest.Position.Sub(s.position).MulScalar(alpha))

		// Scale: remap raw depth to world scale, then smooth.
		t := math32.Clamp((s.latest.DepthScale-depthInMin)/(depthInMax-depthInMin), 0, 1)
		target := scaleOutMin + t*(scaleOutMax-scaleOutMin)
		s.scale += (target - s.scale) * alpha

		if s.latest.HasOrientation {
			s.orientation.Slerp(s.tiltedTarget(), alpha)
			s.orientation.Normalize()
		}
	}

	// Blend: first-order exponential approach to the binary gesture
	// target, independent of the pose smoothing factor.
	blendTarget := float32(0)
	if s.latest.Gesture == GestureClosed {
		blendTarget = 1
	}
	s.blend += (blendTarget - s.blend) * (1 - math32.Exp(-BlendRate*dt))
	s.blend = math32.Clamp(s.blend, 0, 1)
}

// tiltedTarget returns the raw orientation with its pitch component
// replaced by a function of the smoothed vertical position: palm high on
// screen tilts the field away, palm low tilts it toward the viewer. Yaw
// and roll pass through from the detector.
func (s *Stabilizer) tiltedTarget() math32.Quat {
	euler := s.latest.Orientation.ToEuler()
	tilt := math32.Clamp((0.5-s.position.Y)*2, -1, 1)
	euler.X = tilt * math32.DegToRad(MaxTiltDeg)

	var q math32.Quat
	q.SetFromEuler(euler)
	return q
}

// Position returns the smoothed palm center in [0,1]x[0,1].
func (s *Stabilizer) Position() math32.Vector2 { return s.position }

// Orientation returns the smoothed palm orientation. Always unit length.
func (s *Stabilizer) Orientation() math32.Quat { return s.orientation }

// Scale returns the smoothed world scale in [1.0, 2.5].
func (s *Stabilizer) Scale() float32 { return s.scale }

// Blend returns the assembly blend parameter in [0,1]:
// 0 fully dispersed, 1 fully assembled.
func (s *Stabilizer) Blend() float32 { return s.blend }

// Gesture returns the gesture of the most recent signal; it persists when
// the hand leaves the frame.
func (s *Stabilizer) Gesture() Gesture { return s.latest.Gesture }
