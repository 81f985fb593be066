// Package whiteboard records freehand strokes drawn onto the drawing surface.
package whiteboard

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// State is the recorder state.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Projector maps a client-space pointer position onto the drawing surface.
type Projector interface {
	Project(x, y float32) ([3]float32, bool)
}

// Navigator is the camera navigation that must stay disabled while a stroke is drawn.
type Navigator interface {
	SetEnabled(enabled bool)
}

// StrokeStore receives finalized strokes.
type StrokeStore interface {
	Add(obj game_object.GameObject) uint64
}

// Recorder is the Idle/Recording state machine behind freehand drawing.
//
// A primary press with the drawing modifier held starts a stroke if the pointer
// projects onto the surface. Each move that projects appends the segment from the
// previous point to the new one; moves that miss are skipped. Release turns a
// buffer of at least two points into one line entity. Navigation is disabled for
// exactly the span of a stroke.
type Recorder struct {
	projector Projector
	store     StrokeStore
	nav       Navigator

	modifier input.Modifiers
	color    common.Color
	log      zerolog.Logger

	state  State
	prev   [3]float32
	points [][3]float32

	created   metric.Int64Counter
	discarded metric.Int64Counter
}

// NewRecorder creates a Recorder in the Idle state.
//
// Parameters:
//   - projector: the drawing surface projection
//   - store: where finalized strokes are added
//   - nav: the navigation controller to suspend while drawing
//   - options: functional options to configure the recorder
//
// Returns:
//   - *Recorder: the recorder
//   - error: an error if the metric instruments cannot be created
func NewRecorder(projector Projector, store StrokeStore, nav Navigator, options ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		projector: projector,
		store:     store,
		nav:       nav,
		modifier:  input.ModControl,
		color:     common.ColorBlack,
		log:       zerolog.Nop(),
	}
	for _, option := range options {
		option(r)
	}

	m := meter()
	var err error
	r.created, err = m.Int64Counter(
		"whiteboard.strokes.created",
		metric.WithDescription("Strokes added to the scene"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating strokes created counter: %w", err)
	}
	r.discarded, err = m.Int64Counter(
		"whiteboard.strokes.discarded",
		metric.WithDescription("Drags that ended with too few points to keep"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating strokes discarded counter: %w", err)
	}
	return r, nil
}

// State returns the current recorder state.
func (r *Recorder) State() State {
	return r.state
}

// Points returns a copy of the points buffered for the stroke in progress.
func (r *Recorder) Points() [][3]float32 {
	return append([][3]float32(nil), r.points...)
}

// HandleEvent implements input.Handler.
//
// A modifier press is always consumed, even when it misses the surface, so a
// drawing gesture never falls through to camera navigation. Cancel events are
// never consumed so other handlers can reset too.
func (r *Recorder) HandleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.EventPointerDown:
		if r.state == StateRecording {
			return true
		}
		if ev.Button != input.ButtonPrimary || !ev.Modifiers.Has(r.modifier) {
			return false
		}
		r.Begin(ev.X, ev.Y)
		return true
	case input.EventPointerMove:
		if r.state != StateRecording {
			return false
		}
		r.Extend(ev.X, ev.Y)
		return true
	case input.EventPointerUp:
		if r.state != StateRecording {
			return false
		}
		if ev.Button == input.ButtonPrimary {
			r.Finish()
		}
		return true
	case input.EventCancel:
		r.Cancel()
	}
	return false
}

// Begin attempts the Idle to Recording transition at pointer (x, y).
//
// Parameters:
//   - x, y: pointer position in window client coordinates
//
// Returns:
//   - bool: true if recording started, false if already recording or the pointer missed
func (r *Recorder) Begin(x, y float32) bool {
	if r.state == StateRecording {
		return false
	}
	p, ok := r.projector.Project(x, y)
	if !ok {
		return false
	}
	r.nav.SetEnabled(false)
	r.points = r.points[:0]
	r.prev = p
	r.state = StateRecording
	r.log.Debug().Floats32("start", p[:]).Msg("stroke started")
	return true
}

// Extend samples the pointer while recording, appending one segment on a hit.
//
// Parameters:
//   - x, y: pointer position in window client coordinates
//
// Returns:
//   - bool: true if a segment was appended
func (r *Recorder) Extend(x, y float32) bool {
	if r.state != StateRecording {
		return false
	}
	p, ok := r.projector.Project(x, y)
	if !ok {
		return false
	}
	r.points = append(r.points, r.prev, p)
	r.prev = p
	return true
}

// Finish ends the stroke. A buffer of at least two points becomes a line entity in
// the store. Navigation is re-enabled and the buffer cleared either way.
//
// Returns:
//   - game_object.GameObject: the new stroke, or nil if nothing was kept
//   - bool: true if a stroke was added
func (r *Recorder) Finish() (game_object.GameObject, bool) {
	if r.state != StateRecording {
		return nil, false
	}
	defer r.reset()

	if len(r.points) < 2 {
		r.discarded.Add(context.Background(), 1)
		r.log.Debug().Int("points", len(r.points)).Msg("stroke discarded")
		return nil, false
	}

	stroke := game_object.NewGameObject(
		game_object.WithName("stroke"),
		game_object.AsLine(r.points),
		game_object.WithColor(r.color),
	)
	id := r.store.Add(stroke)
	r.created.Add(context.Background(), 1)
	r.log.Info().Uint64("id", id).Int("segments", len(r.points)/2).Msg("stroke added")
	return stroke, true
}

// Cancel aborts a stroke in progress without adding anything to the store.
func (r *Recorder) Cancel() {
	if r.state != StateRecording {
		return
	}
	r.discarded.Add(context.Background(), 1)
	r.log.Debug().Msg("stroke cancelled")
	r.reset()
}

// reset returns to Idle and hands control back to navigation.
func (r *Recorder) reset() {
	r.points = r.points[:0]
	r.prev = [3]float32{}
	r.state = StateIdle
	r.nav.SetEnabled(true)
}
