package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-classroom/engine/window"
	"github.com/rs/zerolog"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window whose message pump drives the loop in Run.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithLogger sets the logger for loop lifecycle events, frame errors and profiler output.
func WithLogger(log zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.log = log
	}
}
