package overlay

import (
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/rs/zerolog"
)

// Sink receives overlay frames.
type Sink interface {
	Publish(f Frame) error
}

// Renderer lays out overlay proxies each frame and hands the result to a Sink.
type Renderer struct {
	sink          Sink
	width, height int
	log           zerolog.Logger
	last          Frame
}

// NewRenderer creates an overlay Renderer.
//
// Parameters:
//   - sink: where frames are published
//   - width, height: the initial viewport size in CSS pixels
//   - options: functional options to configure the renderer
//
// Returns:
//   - *Renderer: the renderer
func NewRenderer(sink Sink, width, height int, options ...RendererOption) *Renderer {
	r := &Renderer{
		sink:   sink,
		width:  width,
		height: height,
		log:    zerolog.Nop(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Render publishes the layout of every overlay proxy in s. A zero-sized
// viewport publishes nothing.
func (r *Renderer) Render(s scene.Scene, cam camera.Camera) error {
	if r.width <= 0 || r.height <= 0 {
		return nil
	}
	r.last = BuildFrame(s, cam, r.width, r.height)
	if r.sink == nil {
		return nil
	}
	return r.sink.Publish(r.last)
}

// Resize sets the viewport size in CSS pixels.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	r.log.Debug().Int("width", width).Int("height", height).Msg("overlay resized")
}

// Last returns the most recently built frame.
func (r *Renderer) Last() Frame {
	return r.last
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// WithRendererLogger sets the logger.
func WithRendererLogger(log zerolog.Logger) RendererOption {
	return func(r *Renderer) {
		r.log = log
	}
}
