package field

import (
	"math/rand/v2"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/tanema/gween/ease"

	"github.com/ayusman/mudra/internal/pose"
)

// Focus animation timing: sinusoidal rise, hold, linear fall.
const (
	focusRiseEnd  = 0.3
	focusHoldEnd  = 1.2
	focusDuration = 1.5
)

// FocusEndPosition is the fixed screen-facing point the popup settles at.
var FocusEndPosition = math32.Vec3(0, 0, 8)

// FocusState is the animator's per-frame output for the render front end.
// The popup always billboards toward the camera; only position and the
// scale/opacity factor animate.
type FocusState struct {
	Active     bool
	ParticleID int
	Factor     float32
	Position   math32.Vector3
}

// FocusAnimator pulls one photo particle out of the field into a
// screen-fixed popup. It holds only the particle id and a position
// snapshot; particle records stay untouched. At most one popup is active
// at a time and it owns its own timer, independent of the main blend.
type FocusAnimator struct {
	mu       sync.Mutex
	engine   *Engine
	active   bool
	t        float32
	targetID int
	startPos math32.Vector3
	endPos   math32.Vector3
	factor   float32
}

// NewFocusAnimator creates an inactive animator over the given engine.
func NewFocusAnimator(e *Engine) *FocusAnimator {
	return &FocusAnimator{
		engine:   e,
		targetID: -1,
		endPos:   FocusEndPosition,
	}
}

// Activate starts the popup on a randomly chosen photo particle,
// capturing its current field position as the animation start. Activation
// is rejected while a popup is already running, while the gesture is
// closed, or when no photo particles exist. Returns the chosen particle
// id and whether activation happened.
func (f *FocusAnimator) Activate() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active {
		return -1, false
	}
	if f.engine.Gesture() != pose.GestureOpen {
		return -1, false
	}

	ids := f.engine.PhotoParticleIDs()
	if len(ids) == 0 {
		return -1, false
	}

	id := ids[rand.IntN(len(ids))]
	f.targetID = id
	f.startPos = f.engine.ComputeParticle(id)
	f.t = 0
	f.factor = 0
	f.active = true
	f.engine.setFocus(id)
	return id, true
}

// Update advances the popup timer by dt seconds. Past the total duration
// the animator deactivates and restores the particle to the main draw set.
func (f *FocusAnimator) Update(dt float32) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		return
	}

	f.t += dt
	switch {
	case f.t >= focusDuration:
		f.active = false
		f.factor = 0
		f.targetID = -1
		f.engine.clearFocus()
	case f.t >= focusHoldEnd:
		f.factor = ease.Linear(f.t-focusHoldEnd, 1, -1, focusDuration-focusHoldEnd)
	case f.t >= focusRiseEnd:
		f.factor = 1
	default:
		f.factor = ease.InSine(f.t, 0, 1, focusRiseEnd)
	}
}

// Active reports whether a popup is running.
func (f *FocusAnimator) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// State returns the current popup state. Position interpolates from the
// captured start toward the fixed end point, driven by the factor.
func (f *FocusAnimator) State() FocusState {
	f.mu.Lock()
	defer f.mu.Unlock()

	pos := f.startPos.Add(f.endPos.Sub(f.startPos).MulScalar(f.factor))
	return FocusState{
		Active:     f.active,
		ParticleID: f.targetID,
		Factor:     f.factor,
		Position:   pos,
	}
}
