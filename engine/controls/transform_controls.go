package controls

import (
	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/projection"
	"github.com/chewxy/math32"
	"github.com/rs/zerolog"
)

// Constraint limits how a dragged object may move.
type Constraint int

const (
	// ConstraintGround moves the object in the horizontal plane through its grab point.
	ConstraintGround Constraint = iota
	ConstraintX
	ConstraintY
	ConstraintZ
)

func (c Constraint) String() string {
	switch c {
	case ConstraintX:
		return "x"
	case ConstraintY:
		return "y"
	case ConstraintZ:
		return "z"
	default:
		return "ground"
	}
}

func (c Constraint) axis() [3]float32 {
	switch c {
	case ConstraintX:
		return [3]float32{1, 0, 0}
	case ConstraintY:
		return [3]float32{0, 1, 0}
	case ConstraintZ:
		return [3]float32{0, 0, 1}
	default:
		return [3]float32{}
	}
}

// Picker casts pointer rays against candidate planes.
type Picker interface {
	Pick(x, y float32, candidates []game_object.GameObject) []projection.Hit
	Ray(x, y float32) (common.Ray, bool)
}

// CandidatesFunc returns the objects the gizmo may grab.
type CandidatesFunc func() []game_object.GameObject

// TransformControls is a translate gizmo. A primary press on a selectable plane
// attaches it and starts a drag; moves translate the attached object along the
// active constraint until release.
type TransformControls struct {
	picker     Picker
	candidates CandidatesFunc
	log        zerolog.Logger

	enabled    bool
	constraint Constraint
	attached   game_object.GameObject

	dragging    bool
	planePoint  [3]float32
	planeNormal [3]float32
	grab        [3]float32
	start       [3]float32

	onDraggingChanged []func(dragging bool)
	onChange          []func(obj game_object.GameObject)
}

// NewTransformControls creates enabled TransformControls.
//
// Parameters:
//   - picker: ray caster for the pointer
//   - candidates: source of grabbable objects
//   - options: functional options to configure the gizmo
//
// Returns:
//   - *TransformControls: the gizmo
func NewTransformControls(picker Picker, candidates CandidatesFunc, options ...TransformControlsOption) *TransformControls {
	t := &TransformControls{
		picker:     picker,
		candidates: candidates,
		log:        zerolog.Nop(),
		enabled:    true,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// OnDraggingChanged registers fn to run when a drag starts or ends.
func (t *TransformControls) OnDraggingChanged(fn func(dragging bool)) {
	t.onDraggingChanged = append(t.onDraggingChanged, fn)
}

// OnChange registers fn to run after every drag move.
func (t *TransformControls) OnChange(fn func(obj game_object.GameObject)) {
	t.onChange = append(t.onChange, fn)
}

func (t *TransformControls) Enabled() bool {
	return t.enabled
}

// SetEnabled shows or hides the gizmo. Hiding it ends any drag.
func (t *TransformControls) SetEnabled(enabled bool) {
	if !enabled {
		t.endDrag()
	}
	t.enabled = enabled
}

func (t *TransformControls) Constraint() Constraint {
	return t.constraint
}

func (t *TransformControls) Attached() game_object.GameObject {
	return t.attached
}

func (t *TransformControls) Dragging() bool {
	return t.dragging
}

// HandleEvent implements input.Handler.
//
// G toggles the gizmo. X, Y and Z switch to the matching axis constraint and
// pressing the same key again returns to the ground plane.
func (t *TransformControls) HandleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.EventCancel:
		t.endDrag()
		return false
	case input.EventKeyDown:
		return t.handleKey(ev.Key)
	}
	if !t.enabled {
		return false
	}

	switch ev.Type {
	case input.EventPointerDown:
		if ev.Button != input.ButtonPrimary || t.dragging {
			return false
		}
		return t.beginDrag(ev.X, ev.Y)
	case input.EventPointerMove:
		if !t.dragging {
			return false
		}
		t.drag(ev.X, ev.Y)
		return true
	case input.EventPointerUp:
		if !t.dragging || ev.Button != input.ButtonPrimary {
			return false
		}
		t.endDrag()
		return true
	}
	return false
}

func (t *TransformControls) handleKey(key uint32) bool {
	var c Constraint
	switch key {
	case common.KeyG:
		t.SetEnabled(!t.enabled)
		t.log.Debug().Bool("enabled", t.enabled).Msg("gizmo toggled")
		return true
	case common.KeyX:
		c = ConstraintX
	case common.KeyY:
		c = ConstraintY
	case common.KeyZ:
		c = ConstraintZ
	default:
		return false
	}
	if !t.enabled || t.dragging {
		return false
	}
	if t.constraint == c {
		c = ConstraintGround
	}
	t.constraint = c
	t.log.Debug().Stringer("constraint", c).Msg("gizmo constraint changed")
	return true
}

func (t *TransformControls) beginDrag(x, y float32) bool {
	hits := t.picker.Pick(x, y, t.selectable())
	if len(hits) == 0 {
		return false
	}
	hit := hits[0]
	if t.attached != nil {
		for _, h := range hits {
			if h.Object == t.attached {
				hit = h
				break
			}
		}
	}
	ray, ok := t.picker.Ray(x, y)
	if !ok {
		return false
	}

	t.attached = hit.Object
	t.grab = hit.Point
	px, py, pz := hit.Object.Position()
	t.start = [3]float32{px, py, pz}
	t.planePoint = hit.Point
	t.planeNormal = t.dragNormal(ray.Direction)
	t.dragging = true
	t.log.Debug().Uint64("id", hit.Object.ID()).Stringer("constraint", t.constraint).Msg("drag started")
	for _, fn := range t.onDraggingChanged {
		fn(true)
	}
	return true
}

func (t *TransformControls) drag(x, y float32) {
	ray, ok := t.picker.Ray(x, y)
	if !ok {
		return
	}
	p, ok := intersectDragPlane(ray, t.planePoint, t.planeNormal)
	if !ok {
		return
	}

	delta := common.Sub3(p, t.grab)
	if t.constraint == ConstraintGround {
		delta[1] = 0
	} else {
		axis := t.constraint.axis()
		delta = common.Scale3(axis, common.Dot3(delta, axis))
	}
	pos := common.Add3(t.start, delta)
	t.attached.SetPosition(pos[0], pos[1], pos[2])
	for _, fn := range t.onChange {
		fn(t.attached)
	}
}

func (t *TransformControls) endDrag() {
	if !t.dragging {
		return
	}
	t.dragging = false
	t.log.Debug().Msg("drag ended")
	for _, fn := range t.onDraggingChanged {
		fn(false)
	}
}

// dragNormal picks the plane the pointer ray is intersected with while dragging.
// For an axis constraint it is the plane containing the axis that faces the viewer
// most directly.
func (t *TransformControls) dragNormal(viewDir [3]float32) [3]float32 {
	up := [3]float32{0, 1, 0}
	if t.constraint == ConstraintGround {
		return up
	}
	axis := t.constraint.axis()
	n := common.Cross3(axis, common.Cross3(viewDir, axis))
	if common.Length3(n) < 1e-6 {
		if t.constraint == ConstraintY {
			return [3]float32{0, 0, 1}
		}
		return up
	}
	return common.Normalize3(n)
}

func (t *TransformControls) selectable() []game_object.GameObject {
	var out []game_object.GameObject
	for _, obj := range t.candidates() {
		if obj.Selectable() || obj == t.attached {
			out = append(out, obj)
		}
	}
	return out
}

// intersectDragPlane intersects ray with the infinite plane through point with normal n.
func intersectDragPlane(ray common.Ray, point, n [3]float32) ([3]float32, bool) {
	denom := common.Dot3(ray.Direction, n)
	if math32.Abs(denom) < 1e-6 {
		return [3]float32{}, false
	}
	t := common.Dot3(common.Sub3(point, ray.Origin), n) / denom
	if t < 0 {
		return [3]float32{}, false
	}
	return ray.At(t), true
}
