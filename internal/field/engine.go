package field

import (
	"log"
	"math/rand/v2"
	"sync"

	"cogentcore.org/core/math32"

	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/shape"
)

// Config holds the tunable constants of the particle engine. Zero values
// fall back to defaults.
type Config struct {
	// ParticleCount is fixed for the engine's lifetime.
	ParticleCount int
	// Shape is the initial assembled shape id.
	Shape string
	// WorldExtent maps the palm's [0,1] screen position onto world units.
	WorldExtent float32
	// DisperseRadius is the half-width of the wide per-particle offset in
	// the dispersed cloud.
	DisperseRadius float32
	// OrbitRadius is the radius of the per-particle orbital float.
	OrbitRadius float32
	// BreatheAmp is the amplitude of the assembled breathing offset.
	BreatheAmp float32
	// Reach is how far the Bezier control point extends P0 outward,
	// giving the morph its explosion arc.
	Reach float32
	// ClosedSize and OpenSize bound the per-particle visual size sweep
	// driven by the blend parameter.
	ClosedSize float32
	OpenSize   float32
}

func (c *Config) applyDefaults() {
	if c.ParticleCount <= 0 {
		c.ParticleCount = 30000
	}
	if c.Shape == "" {
		c.Shape = shape.DefaultShape
	}
	if c.WorldExtent == 0 {
		c.WorldExtent = 10
	}
	if c.DisperseRadius == 0 {
		c.DisperseRadius = 6
	}
	if c.OrbitRadius == 0 {
		c.OrbitRadius = 0.6
	}
	if c.BreatheAmp == 0 {
		c.BreatheAmp = 0.12
	}
	if c.Reach == 0 {
		c.Reach = 2.5
	}
	if c.ClosedSize == 0 {
		c.ClosedSize = 1.0
	}
	if c.OpenSize == 0 {
		c.OpenSize = 1.8
	}
}

// Engine owns the particle records and the smoothed pose state, and
// computes each particle's transform per frame. One instance per field;
// all state is explicit, nothing global.
type Engine struct {
	mu        sync.RWMutex
	cfg       Config
	provider  shape.Provider
	stab      *pose.Stabilizer
	particles []Particle
	photoIDs  []int
	clock     float32
	focusID   int
	active    string
	dirty     bool
}

// NewEngine creates an engine with cfg.ParticleCount particles, assigns
// their immutable seeds and sizes, and applies the initial shape.
func NewEngine(cfg Config, provider shape.Provider) *Engine {
	cfg.applyDefaults()

	e := &Engine{
		cfg:      cfg,
		provider: provider,
		stab:     pose.NewStabilizer(),
		focusID:  -1,
	}

	e.particles = make([]Particle, cfg.ParticleCount)
	for i := range e.particles {
		p := &e.particles[i]
		p.ID = i
		p.Seed = math32.Vec3(rand.Float32(), rand.Float32(), rand.Float32())
		p.SizeScale = seededSize(p.Seed)
	}

	e.applyShape(cfg.Shape)
	return e
}

// Tick advances the engine by dt seconds. A non-nil sig is ingested into
// the stabilizer first; a nil sig means no new detection this tick and
// the smoothed state simply keeps approaching its last target.
func (e *Engine) Tick(dt float32, sig *pose.Signal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock += dt
	if sig != nil {
		e.stab.Ingest(*sig)
	}
	e.stab.Tick(dt)
}

// Clock returns the monotonic animation clock in seconds.
func (e *Engine) Clock() float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clock
}

// Gesture returns the current (held) gesture.
func (e *Engine) Gesture() pose.Gesture {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stab.Gesture()
}

// Blend returns the current blend parameter.
func (e *Engine) Blend() float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stab.Blend()
}

// ParticleCount returns the fixed particle count.
func (e *Engine) ParticleCount() int {
	return len(e.particles)
}

// Particle returns a copy of particle i's static record.
func (e *Engine) Particle(i int) Particle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.particles[i]
}

// ActiveShape returns the id of the currently assembled shape.
func (e *Engine) ActiveShape() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// SetShape regenerates every particle's target position and color for the
// named shape in one bulk pass. Identity, seed, photo flag and cell
// assignment are preserved; unknown ids fall back to the default shape.
func (e *Engine) SetShape(shapeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyShape(shapeID)
}

// applyShape must be called with the write lock held (or before the
// engine is shared).
func (e *Engine) applyShape(shapeID string) {
	if !e.provider.Known(shapeID) {
		log.Printf("unknown shape %q, using %q", shapeID, shape.DefaultShape)
		shapeID = shape.DefaultShape
	}

	buf := e.provider.Generate(shapeID, len(e.particles))
	for i := range e.particles {
		p := &e.particles[i]
		p.Target = math32.Vec3(buf.Positions[3*i], buf.Positions[3*i+1], buf.Positions[3*i+2])
		p.Color = math32.Vec3(buf.Colors[3*i], buf.Colors[3*i+1], buf.Colors[3*i+2])
	}
	e.active = shapeID
	e.dirty = true
}

// photoSizeScale replaces the seeded size on photo particles so the
// image cell is legible in the field.
const photoSizeScale = 3.0

// seededSize is the base per-particle size derived from the immutable seed.
func seededSize(seed math32.Vector3) float32 {
	return 0.6 + seed.X*0.8
}

// AssignPhotoCells flags one particle per atlas cell as a photo particle.
// Cells land on a random permutation of the particle ids, so every cell
// gets a distinct particle as long as cells fit in the pool. Particles
// that lose the flag drop back to their seeded size.
func (e *Engine) AssignPhotoCells(cells []math32.Vector2) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Clear previous assignment.
	for i := range e.particles {
		p := &e.particles[i]
		p.IsPhoto = false
		p.CellOffset = math32.Vector2{}
		p.SizeScale = seededSize(p.Seed)
	}
	e.photoIDs = e.photoIDs[:0]

	perm := rand.Perm(len(e.particles))
	for i, cell := range cells {
		if i >= len(perm) {
			break
		}
		p := &e.particles[perm[i]]
		p.IsPhoto = true
		p.CellOffset = cell
		p.SizeScale = photoSizeScale
		e.photoIDs = append(e.photoIDs, perm[i])
	}
	e.dirty = true
}

// PhotoParticleIDs returns the precomputed ids of photo-flagged particles.
func (e *Engine) PhotoParticleIDs() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]int, len(e.photoIDs))
	copy(out, e.photoIDs)
	return out
}

// setFocus hides particle id from the main draw set. Called by the focus
// animator only.
func (e *Engine) setFocus(id int) {
	e.mu.Lock()
	e.focusID = id
	e.mu.Unlock()
}

// clearFocus restores the hidden particle to the draw set.
func (e *Engine) clearFocus() {
	e.mu.Lock()
	e.focusID = -1
	e.mu.Unlock()
}

// FocusedParticle returns the id of the hidden particle, or -1.
func (e *Engine) FocusedParticle() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.focusID
}

// Visible reports whether particle i belongs in the main draw set this
// frame. The focused particle is excluded so the popup never renders the
// same subject twice.
func (e *Engine) Visible(i int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return i != e.focusID
}

// ComputeParticle returns particle i's world position this frame: the
// quadratic Bezier between its assembled and dispersed positions at
// t = 1 - blend.
func (e *Engine) ComputeParticle(i int) math32.Vector3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.computeParticle(i)
}

func (e *Engine) computeParticle(i int) math32.Vector3 {
	p := &e.particles[i]
	const twoPi = 2 * math32.Pi

	// P0: assembled. Static target rotated by the smoothed palm
	// orientation, scaled by the smoothed depth scale, breathing slightly
	// in and out along its own direction.
	p0 := p.Target.MulQuat(e.stab.Orientation()).MulScalar(e.stab.Scale())
	dir := outwardDir(p0)
	breathe := e.cfg.BreatheAmp * math32.Sin(e.clock*1.5+p.Seed.X*twoPi)
	p0 = p0.Add(dir.MulScalar(breathe))

	// P2: dispersed. Palm position in world space plus a wide static
	// seeded offset plus a slow orbital float.
	pos := e.stab.Position()
	palm := math32.Vec3(
		(pos.X-0.5)*e.cfg.WorldExtent,
		(0.5-pos.Y)*e.cfg.WorldExtent*0.75,
		0,
	)
	wide := math32.Vec3(p.Seed.X*2-1, p.Seed.Y*2-1, p.Seed.Z*2-1).MulScalar(e.cfg.DisperseRadius)
	phase := e.clock*(0.5+p.Seed.Z) + p.Seed.Y*twoPi
	orbit := math32.Vec3(
		math32.Cos(phase),
		math32.Sin(phase*0.9+p.Seed.X*twoPi),
		math32.Sin(phase),
	).MulScalar(e.cfg.OrbitRadius)
	p2 := palm.Add(wide).Add(orbit)

	// P1: P0 pushed outward along its own direction, arcing the morph
	// through an explosion rather than a straight line.
	p1 := p0.Add(outwardDir(p0).MulScalar(e.cfg.Reach))

	t := 1 - e.stab.Blend()
	u := 1 - t
	return p0.MulScalar(u * u).
		Add(p1.MulScalar(2 * u * t)).
		Add(p2.MulScalar(t * t))
}

// ComputeTumble returns particle i's self-rotation axis and angle this
// frame. Tumble speed scales with (1 - blend): fully assembled particles
// hold still.
func (e *Engine) ComputeTumble(i int) (axis math32.Vector3, angle float32) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p := &e.particles[i]
	axis = math32.Vec3(p.Seed.X*2-1, p.Seed.Y*2-1, p.Seed.Z*2-1)
	if axis.Length() < 1e-6 {
		axis = math32.Vec3(0, 1, 0)
	}
	axis = axis.Normal()

	rate := 0.5 + p.Seed.Y*1.5
	angle = e.clock * rate * (1 - e.stab.Blend())
	return axis, angle
}

// ComputeSize returns particle i's visual size this frame, interpolated
// between the closed baseline and the larger open size by (1 - blend).
func (e *Engine) ComputeSize(i int) float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p := &e.particles[i]
	open := 1 - e.stab.Blend()
	return p.SizeScale * (e.cfg.ClosedSize + (e.cfg.OpenSize-e.cfg.ClosedSize)*open)
}

// Frame returns this tick's global parameters for the render front end.
// Focus fields are filled in by the caller that owns the focus animator.
func (e *Engine) Frame() FrameUniforms {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pos := e.stab.Position()
	q := e.stab.Orientation()
	return FrameUniforms{
		Blend: e.stab.Blend(),
		Clock: e.clock,
		PalmPosition: [3]float32{
			(pos.X - 0.5) * e.cfg.WorldExtent,
			(0.5 - pos.Y) * e.cfg.WorldExtent * 0.75,
			0,
		},
		Orientation:    [4]float32{q.X, q.Y, q.Z, q.W},
		Scale:          e.stab.Scale(),
		Gesture:        e.stab.Gesture().String(),
		HiddenParticle: e.focusID,
	}
}

// Buffers exports the bulk per-particle attributes.
func (e *Engine) Buffers() AttributeBuffers {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := len(e.particles)
	b := AttributeBuffers{
		Targets:     make([]float32, 3*n),
		Colors:      make([]float32, 3*n),
		Seeds:       make([]float32, 3*n),
		Sizes:       make([]float32, n),
		PhotoFlags:  make([]uint8, n),
		CellOffsets: make([]float32, 2*n),
	}
	for i := range e.particles {
		p := &e.particles[i]
		b.Targets[3*i], b.Targets[3*i+1], b.Targets[3*i+2] = p.Target.X, p.Target.Y, p.Target.Z
		b.Colors[3*i], b.Colors[3*i+1], b.Colors[3*i+2] = p.Color.X, p.Color.Y, p.Color.Z
		b.Seeds[3*i], b.Seeds[3*i+1], b.Seeds[3*i+2] = p.Seed.X, p.Seed.Y, p.Seed.Z
		b.Sizes[i] = p.SizeScale
		if p.IsPhoto {
			b.PhotoFlags[i] = 1
		}
		b.CellOffsets[2*i], b.CellOffsets[2*i+1] = p.CellOffset.X, p.CellOffset.Y
	}
	return b
}

// TakeDirty reports whether the attribute buffers changed since the last
// call and clears the flag.
func (e *Engine) TakeDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.dirty
	e.dirty = false
	return d
}

// outwardDir returns v's direction, or +Y for a particle sitting at the
// origin.
func outwardDir(v math32.Vector3) math32.Vector3 {
	if v.Length() < 1e-6 {
		return math32.Vec3(0, 1, 0)
	}
	return v.Normal()
}
