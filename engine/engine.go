package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/profiler"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/Carmen-Shannon/oxy-classroom/engine/window"
	"github.com/rs/zerolog"
)

var (
	// ErrNotStarted is returned by Step before Start has been called.
	ErrNotStarted = errors.New("engine: frame loop not started")

	// ErrNoWindow is returned by Run when the engine was built without a window.
	ErrNoWindow = errors.New("engine: no window configured")
)

// FrameRenderer draws one frame of a scene from a camera.
// renderer.Pair is the production implementation.
type FrameRenderer interface {
	RenderFrame(s scene.Scene, cam camera.Camera) error
	Resize(width, height int)
}

// engine implements the Engine interface.
// Everything except Post and Quit runs on the goroutine that owns the window.
type engine struct {
	mu     sync.Mutex
	posted []func()

	started  bool
	quit     bool
	quitOnce sync.Once

	window   window.Window
	scene    scene.Scene
	renderer FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	frames           uint64

	log zerolog.Logger
}

// Engine is the main entry point for the engine.
// It owns the single-threaded frame loop: posted tasks, the tick callback, the camera
// update, the paired render and the render callback run in that order every frame.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the loop renders.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called first in every frame, after posted tasks.
	// Use this for controls and other per-frame state updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after the frame is rendered.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers a function called after the renderer and camera have
	// been resized.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Post queues fn to run at the start of the next frame on the loop goroutine.
	// Safe to call from any goroutine.
	//
	// Parameters:
	//   - fn: the task to run
	Post(fn func())

	// Start marks the loop as running. It does not depend on any asset being loaded.
	Start()

	// Started reports whether Start has been called.
	Started() bool

	// Step runs exactly one frame with the given delta time.
	// A panic inside the frame is recovered and returned as an error. A panic in a
	// posted task is only logged, so the tasks queued after it still run.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	//
	// Returns:
	//   - error: ErrNotStarted, or the render error of this frame
	Step(deltaTime float32) error

	// Run starts the loop and drives it from the window message pump.
	// It blocks until the window closes or Quit is called.
	//
	// Returns:
	//   - error: ErrNoWindow if the engine is headless
	Run() error

	// Frames returns the number of frames stepped so far.
	Frames() uint64

	// Quit stops the loop before the next frame and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - s: the scene to render each frame
//   - r: the renderer that draws the scene, may be nil for logic-only loops
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the profiler cannot be created
func NewEngine(s scene.Scene, r FrameRenderer, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		scene:    s,
		renderer: r,
		log:      zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	p, err := profiler.NewProfiler(profiler.WithLogger(e.log))
	if err != nil {
		return nil, fmt.Errorf("creating profiler: %w", err)
	}
	e.profiler = p

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.posted = append(e.posted, fn)
	e.mu.Unlock()
}

func (e *engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.lastFrame = time.Now()
	e.log.Info().Msg("frame loop started")
}

func (e *engine) Started() bool {
	return e.started
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}

	e.Start()
	e.window.SetUpdateCallback(func() {
		if e.quitRequested() {
			if err := e.window.Close(); err != nil {
				e.log.Warn().Err(err).Msg("closing window")
			}
			return
		}

		now := time.Now()
		dt := float32(now.Sub(e.lastFrame).Seconds())
		e.lastFrame = now

		if err := e.Step(dt); err != nil {
			e.log.Error().Err(err).Uint64("frame", e.frames).Msg("frame failed")
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()

	e.log.Info().Uint64("frames", e.frames).Msg("frame loop stopped")
	return nil
}

func (e *engine) Step(deltaTime float32) (err error) {
	if !e.started {
		return ErrNotStarted
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panicked: %v", r)
			e.log.Error().Interface("panic", r).Uint64("frame", e.frames).Msg("recovered from panic in frame")
		}
	}()

	e.frames++
	e.drainPosted()

	if e.tickCallback != nil {
		e.tickCallback(deltaTime)
	}

	var cam camera.Camera
	if e.scene != nil {
		cam = e.scene.Camera()
	}
	if cam != nil {
		cam.Update()
	}

	if e.renderer != nil && e.scene != nil && cam != nil {
		err = e.renderer.RenderFrame(e.scene, cam)
	}

	if e.renderCallback != nil {
		e.renderCallback(deltaTime)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
	return err
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.quit = true
		e.mu.Unlock()
	})
}

func (e *engine) quitRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

// drainPosted runs every task queued before this call. Tasks posted while draining wait
// for the next frame. A panicking task is logged and the rest of the batch still runs.
func (e *engine) drainPosted() {
	e.mu.Lock()
	tasks := e.posted
	e.posted = nil
	e.mu.Unlock()

	for i, fn := range tasks {
		e.runPosted(i, fn)
	}
}

func (e *engine) runPosted(index int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Int("task", index).Uint64("frame", e.frames).Msg("recovered from panic in posted task")
		}
	}()
	fn()
}

// resize propagates a framebuffer change to the renderer and the camera aspect.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.scene != nil {
		if cam := e.scene.Camera(); cam != nil {
			cam.SetAspect(float32(width) / float32(height))
		}
	}
	if e.resizeCallback != nil {
		e.resizeCallback(width, height)
	}
}
