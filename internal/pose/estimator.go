// Package pose derives a stable hand-pose signal from raw landmark frames.
//
// The estimator turns one 21-point landmark frame into a discrete
// open/closed gesture plus a continuous position/orientation/scale signal.
// The stabilizer filters that signal over time so detector jitter never
// reaches the particle engine.
package pose

import (
	"cogentcore.org/core/math32"

	"github.com/ayusman/mudra/internal/detector"
)

// Gesture is the binary hand openness classification.
type Gesture int

const (
	// GestureOpen means the hand is open: particles disperse and follow
	// the palm responsively.
	GestureOpen Gesture = iota
	// GestureClosed means a fist: particles assemble into the active shape.
	GestureClosed
)

// String returns the gesture name for logging.
func (g Gesture) String() string {
	if g == GestureClosed {
		return "closed"
	}
	return "open"
}

// closedRatio is the tip-to-knuckle distance ratio below which a hand
// counts as closed. Ratio-based, so hand-to-camera distance does not
// affect classification.
const closedRatio = 1.3

// Signal is one frame's derived hand pose. Immutable once produced.
type Signal struct {
	Gesture Gesture
	// Position is the palm center in [0,1]x[0,1], x mirrored for a
	// front-facing camera.
	Position math32.Vector2
	// Orientation is the palm basis as a unit quaternion. Only valid
	// when HasOrientation is true; degenerate palm geometry omits it.
	Orientation    math32.Quat
	HasOrientation bool
	// DepthScale is the image-plane wrist-to-palm distance, roughly
	// 0.1 (far) to 0.4 (close). Consumers remap it.
	DepthScale float32
}

// Estimate derives a Signal from one hand's landmarks.
// Returns false when hand is nil.
func Estimate(hand *detector.HandLandmarks) (Signal, bool) {
	if hand == nil {
		return Signal{}, false
	}

	wrist := hand.Points[detector.Wrist]
	middleMCP := hand.Points[detector.MiddleMCP]

	var tipSum, mcpSum float64
	for i := 0; i < 4; i++ {
		tipSum += detector.Dist(wrist, hand.Points[detector.FingerTips[i]])
		mcpSum += detector.Dist(wrist, hand.Points[detector.FingerMCPs[i]])
	}
	avgTip := tipSum / 4
	avgMCP := mcpSum / 4

	gesture := GestureOpen
	if avgTip < closedRatio*avgMCP {
		gesture = GestureClosed
	}

	sig := Signal{
		Gesture: gesture,
		// Mirror x so moving the hand right moves the field right.
		Position:   math32.Vec2(float32(1-middleMCP.X), float32(middleMCP.Y)),
		DepthScale: float32(detector.DistXY(wrist, middleMCP)),
	}

	if q, ok := palmOrientation(hand); ok {
		sig.Orientation = q
		sig.HasOrientation = true
	}

	return sig, true
}

// palmOrientation builds a unit quaternion from the palm's landmark basis:
// forward = wrist to middle knuckle, normal = cross of the wrist-to-index
// and wrist-to-pinky spans, right = forward x normal. X and Y are flipped
// to match mirrored screen handedness. Returns false on degenerate
// (collinear or coincident) geometry so callers keep the previous frame's
// orientation instead of a garbage quaternion.
func palmOrientation(hand *detector.HandLandmarks) (math32.Quat, bool) {
	wrist := hand.Points[detector.Wrist]

	span := func(idx int) math32.Vector3 {
		p := hand.Points[idx]
		return math32.Vec3(
			float32(-(p.X - wrist.X)),
			float32(-(p.Y - wrist.Y)),
			float32(p.Z-wrist.Z),
		)
	}

	forward := span(detector.MiddleMCP)
	toIndex := span(detector.IndexMCP)
	toPinky := span(detector.PinkyMCP)

	const eps = 1e-6
	if forward.Length() < eps {
		return math32.Quat{}, false
	}
	forward = forward.Normal()

	normal := toIndex.Cross(toPinky)
	if normal.Length() < eps {
		return math32.Quat{}, false
	}
	normal = normal.Normal()

	right := forward.Cross(normal)
	if right.Length() < eps {
		return math32.Quat{}, false
	}
	right = right.Normal()

	// Re-derive the normal so the basis is exactly orthonormal.
	normal = right.Cross(forward)

	q := quatFromBasis(right, forward, normal)
	if math32.IsNaN(q.X) || math32.IsNaN(q.Y) || math32.IsNaN(q.Z) || math32.IsNaN(q.W) {
		return math32.Quat{}, false
	}
	q.Normalize()
	return q, true
}

// quatFromBasis converts an orthonormal right-handed basis (columns x, y, z
// of a rotation matrix) to a quaternion using the standard trace method.
func quatFromBasis(x, y, z math32.Vector3) math32.Quat {
	m11, m12, m13 := x.X, y.X, z.X
	m21, m22, m23 := x.Y, y.Y, z.Y
	m31, m32, m33 := x.Z, y.Z, z.Z

	var q math32.Quat
	trace := m11 + m22 + m33

	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (m32 - m23) * s
		q.Y = (m13 - m31) * s
		q.Z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s := 2.0 * math32.Sqrt(1.0+m11-m22-m33)
		q.W = (m32 - m23) / s
		q.X = 0.25 * s
		q.Y = (m12 + m21) / s
		q.Z = (m13 + m31) / s
	case m22 > m33:
		s := 2.0 * math32.Sqrt(1.0+m22-m11-m33)
		q.W = (m13 - m31) / s
		q.X = (m12 + m21) / s
		q.Y = 0.25 * s
		q.Z = (m23 + m32) / s
	default:
		s := 2.0 * math32.Sqrt(1.0+m33-m11-m22)
		q.W = (m21 - m12) / s
		q.X = (m13 + m31) / s
		q.Y = (m23 + m32) / s
		q.Z = 0.25 * s
	}
	return q
}

// Valid reports whether the signal is free of NaN components. Signals
// failing this check must be dropped whole, never partially applied.
func (s *Signal) Valid() bool {
	if math32.IsNaN(s.Position.X) || math32.IsNaN(s.Position.Y) || math32.IsNaN(s.DepthScale) {
		return false
	}
	if s.HasOrientation {
		q := s.Orientation
		if math32.IsNaN(q.X) || math32.IsNaN(q.Y) || math32.IsNaN(q.Z) || math32.IsNaN(q.W) {
			return false
		}
	}
	return true
}
