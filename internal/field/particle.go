// Package field owns the particle state engine: per-particle static
// attributes, the assembled/dispersed morph, and the focus popup animation.
package field

import (
	"cogentcore.org/core/math32"
)

// Particle holds one particle's static attributes. Count is fixed at
// engine construction; only Target and Color are ever rewritten (in bulk,
// on shape change). Seed, photo assignment and identity survive for the
// particle's lifetime.
type Particle struct {
	ID int
	// Target is the assembled-shape coordinate, replaced on shape change.
	Target math32.Vector3
	// Color is the particle RGB in [0,1], replaced on shape change.
	Color math32.Vector3
	// Seed drives the particle's float, tumble and breathing phase.
	// Components are uniform in [0,1) and never change.
	Seed math32.Vector3
	// IsPhoto marks particles that render an atlas cell instead of a
	// plain sprite; only these can be pulled into the focus popup.
	IsPhoto bool
	// CellOffset is the particle's cell origin in the texture atlas.
	CellOffset math32.Vector2
	// SizeScale is the particle's individual size multiplier.
	SizeScale float32
}

// FrameUniforms is the fixed, typed set of global parameters handed to the
// render front end every tick.
type FrameUniforms struct {
	Blend          float32    `json:"blend"`
	Clock          float32    `json:"clock"`
	PalmPosition   [3]float32 `json:"palmPosition"`
	Orientation    [4]float32 `json:"orientation"` // x, y, z, w
	Scale          float32    `json:"scale"`
	Gesture        string     `json:"gesture"`
	HiddenParticle int        `json:"hiddenParticle"` // -1 when none
	FocusActive    bool       `json:"focusActive"`
	FocusFactor    float32    `json:"focusFactor"`
	FocusPosition  [3]float32 `json:"focusPosition"`
}

// AttributeBuffers is the bulk per-particle data for the render front end.
// Sent once at startup and again whenever a shape change marks it dirty;
// per-tick motion is closed-form on the GPU side from these plus the
// frame uniforms.
type AttributeBuffers struct {
	Targets     []float32 `json:"targets"`     // xyz triples
	Colors      []float32 `json:"colors"`      // rgb triples
	Seeds       []float32 `json:"seeds"`       // xyz triples
	Sizes       []float32 `json:"sizes"`       // one per particle
	PhotoFlags  []uint8   `json:"photoFlags"`  // 1 = photo particle
	CellOffsets []float32 `json:"cellOffsets"` // xy pairs
}
