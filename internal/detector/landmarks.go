// Package detector provides hand landmark detection for the Mudra particle field.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips are the four non-thumb fingertip indices, used by the
// open/closed gesture test. The thumb is excluded because it curls
// sideways rather than toward the wrist.
var FingerTips = [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}

// FingerMCPs are the knuckle indices corresponding to FingerTips.
var FingerMCPs = [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Point3D represents a 3D point in normalized image coordinates.
// Z is relative depth as reported by the landmark model.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Normalize returns a copy of the landmarks translated so the wrist sits at
// the origin and scaled so the wrist to middle-knuckle distance is 1. Useful
// for comparing hands independent of position and camera distance.
func (h HandLandmarks) Normalize() HandLandmarks {
	wrist := h.Points[Wrist]
	scale := Dist(wrist, h.Points[MiddleMCP])
	if scale == 0 {
		scale = 1
	}

	out := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i, p := range h.Points {
		out.Points[i] = Point3D{
			X: (p.X - wrist.X) / scale,
			Y: (p.Y - wrist.Y) / scale,
			Z: (p.Z - wrist.Z) / scale,
		}
	}
	return out
}

// Dist returns the Euclidean distance between two landmarks.
func Dist(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// DistXY returns the distance between two landmarks in the image plane,
// ignoring relative depth. Depth from the landmark model is too noisy to
// fold into scale estimation.
func DistXY(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
