package whiteboard

import (
	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/rs/zerolog"
)

// RecorderOption is a functional option for configuring a Recorder.
type RecorderOption func(*Recorder)

// WithModifier sets the modifier that must be held to start drawing.
//
// Parameters:
//   - mod: the modifier, default input.ModControl
//
// Returns:
//   - RecorderOption: option function to apply
func WithModifier(mod input.Modifiers) RecorderOption {
	return func(r *Recorder) {
		r.modifier = mod
	}
}

// WithColor sets the color of finalized strokes.
func WithColor(c common.Color) RecorderOption {
	return func(r *Recorder) {
		r.color = c
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.log = log
	}
}
