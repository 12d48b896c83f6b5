// Package app wires camera capture, hand detection, pose estimation and
// the particle engine into the running Mudra application.
package app

import (
	"log"
	"sync"

	"cogentcore.org/core/math32"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/field"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the capture rate while the scene is static.
	IdleFPS = 5
	// ActiveFPS is the capture rate during active detection.
	ActiveFPS = 15
	// RenderFPS is the engine tick rate.
	RenderFPS = 60
	// IdleTimeoutMs is how long without motion before dropping back to
	// idle capture.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	CameraID      int
	MotionThresh  float64
	ParticleCount int
	Shape         string
	Provider      shape.Provider
}

// App orchestrates the detection pipeline and the particle engine tick.
type App struct {
	config   Config
	provider shape.Provider
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	mailbox  *pose.Mailbox
	engine   *field.Engine
	focus    *field.FocusAnimator
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}

	onShapeChange func(shapeID string)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	provider := config.Provider
	if provider == nil {
		provider = shape.NewLibrary()
	}

	engine := field.NewEngine(field.Config{
		ParticleCount: config.ParticleCount,
		Shape:         config.Shape,
	}, provider)

	a := &App{
		config:   config,
		provider: provider,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionDetector(motionThreshold),
		mailbox:  &pose.Mailbox{},
		engine:   engine,
		focus:    field.NewFocusAnimator(engine),
		enabled:  true,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables hand detection. The engine keeps
// ticking either way; with detection off the pose simply holds.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Must be called before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Engine returns the particle engine.
func (a *App) Engine() *field.Engine {
	return a.engine
}

// Focus returns the focus animator.
func (a *App) Focus() *field.FocusAnimator {
	return a.focus
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Activate routes the discrete activate event to the focus animator.
func (a *App) Activate() (int, bool) {
	return a.focus.Activate()
}

// OnShapeChange sets the callback invoked whenever the assembled shape
// changes, with the shape id that actually took effect.
func (a *App) OnShapeChange(fn func(shapeID string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShapeChange = fn
}

// SetShape switches the assembled shape and persists the choice.
func (a *App) SetShape(shapeID string) {
	a.engine.SetShape(shapeID)
	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(store.SettingActiveShape, a.engine.ActiveShape()); err != nil {
			log.Printf("Failed to persist shape setting: %v", err)
		}
	}

	a.mu.RLock()
	notify := a.onShapeChange
	a.mu.RUnlock()
	if notify != nil {
		notify(a.engine.ActiveShape())
	}
}

// Shapes lists the ids of all shapes the provider can generate.
func (a *App) Shapes() []string {
	return a.provider.Shapes()
}

// RefreshPhotoCells reloads the photo-cell catalog from the database and
// reassigns the photo particles.
func (a *App) RefreshPhotoCells() error {
	if a.config.Store == nil {
		return nil
	}

	photos, err := a.config.Store.Photos().List()
	if err != nil {
		return err
	}

	cells := make([]math32.Vector2, len(photos))
	for i, p := range photos {
		cells[i] = math32.Vec2(float32(p.CellX), float32(p.CellY))
	}
	a.engine.AssignPhotoCells(cells)
	return nil
}

// Frame merges the engine uniforms with the focus animator state into the
// complete per-tick parameter set for the render front end.
func (a *App) Frame() field.FrameUniforms {
	u := a.engine.Frame()
	fs := a.focus.State()
	u.FocusActive = fs.Active
	u.FocusFactor = fs.Factor
	u.FocusPosition = [3]float32{fs.Position.X, fs.Position.Y, fs.Position.Z}
	return u
}

// LoadState restores the persisted shape selection and photo-cell catalog
// from the database.
func (a *App) LoadState() error {
	if a.config.Store == nil {
		return nil
	}

	if shapeID, err := a.config.Store.Settings().Get(store.SettingActiveShape); err == nil && shapeID != "" {
		a.engine.SetShape(shapeID)
	}

	return a.RefreshPhotoCells()
}

// Start begins the capture pipeline and the engine tick loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runCapture(a.stopCh)
	go a.runTicks(a.stopCh)

	log.Println("Pipeline started")
	return nil
}

// Stop halts both loops and releases camera and detector resources. The
// engine is left intact: it keeps serving the last stabilized pose.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}
