package controls_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/controls"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// topDownPicker casts straight-down rays from (x, 10, y) and reports a hit on
// target whenever the pointer is inside the unit square around the origin.
type topDownPicker struct {
	target game_object.GameObject
}

func (p topDownPicker) Pick(x, y float32, candidates []game_object.GameObject) []projection.Hit {
	for _, c := range candidates {
		if c == p.target && x >= -2 && x <= 2 && y >= -2 && y <= 2 {
			return []projection.Hit{{Object: c, Point: [3]float32{x, 0, y}, Distance: 10}}
		}
	}
	return nil
}

func (p topDownPicker) Ray(x, y float32) (common.Ray, bool) {
	return common.Ray{Origin: [3]float32{x, 10, y}, Direction: [3]float32{0, -1, 0}}, true
}

func newGizmo(selectable bool) (*controls.TransformControls, game_object.GameObject) {
	obj := game_object.NewGameObject(
		game_object.AsPlane(4, 4, true),
		game_object.WithSelectable(selectable),
	)
	g := controls.NewTransformControls(topDownPicker{target: obj}, func() []game_object.GameObject {
		return []game_object.GameObject{obj}
	})
	return g, obj
}

func TestTransformControls_GroundDrag(t *testing.T) {
	g, obj := newGizmo(true)
	var states []bool
	var changes int
	g.OnDraggingChanged(func(d bool) { states = append(states, d) })
	g.OnChange(func(game_object.GameObject) { changes++ })

	require.True(t, g.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1)))
	assert.True(t, g.Dragging())
	assert.Equal(t, obj, g.Attached())

	assert.True(t, g.HandleEvent(input.PointerMove(0, 3, 4)))
	x, y, z := obj.Position()
	assert.InDelta(t, 2, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 3, z, 1e-5)

	assert.True(t, g.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, 3, 4)))
	assert.Equal(t, []bool{true, false}, states)
	assert.Equal(t, 1, changes)
}

func TestTransformControls_AxisConstraint(t *testing.T) {
	g, obj := newGizmo(true)

	assert.True(t, g.HandleEvent(input.KeyDown(common.KeyX)))
	assert.Equal(t, controls.ConstraintX, g.Constraint())

	g.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1))
	g.HandleEvent(input.PointerMove(0, 3, 4))
	x, y, z := obj.Position()
	assert.InDelta(t, 2, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
	g.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, 3, 4))

	g.HandleEvent(input.KeyDown(common.KeyX))
	assert.Equal(t, controls.ConstraintGround, g.Constraint())
}

func TestTransformControls_MissAndNonSelectable(t *testing.T) {
	g, _ := newGizmo(true)
	assert.False(t, g.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 9, 9)))

	g2, _ := newGizmo(false)
	assert.False(t, g2.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1)))
}

func TestTransformControls_ToggleEndsDrag(t *testing.T) {
	g, _ := newGizmo(true)
	var states []bool
	g.OnDraggingChanged(func(d bool) { states = append(states, d) })

	g.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1))
	assert.True(t, g.HandleEvent(input.KeyDown(common.KeyG)))
	assert.False(t, g.Enabled())
	assert.False(t, g.Dragging())
	assert.Equal(t, []bool{true, false}, states)

	assert.False(t, g.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1)))
}

func TestTransformControls_ExcludesOrbitWhileDragging(t *testing.T) {
	g, obj := newGizmo(true)
	o, cc := newOrbit(controls.WithDamping(1))
	g.OnDraggingChanged(func(d bool) { o.SetEnabled(!d) })
	d := input.NewDispatcher(g, o)

	d.Dispatch(input.PointerDown(input.ButtonPrimary, 0, 1, 1))
	assert.False(t, o.Enabled())
	d.Dispatch(input.PointerMove(0, 2, 1))
	d.Dispatch(input.PointerUp(input.ButtonPrimary, 0, 2, 1))
	assert.True(t, o.Enabled())
	o.Update(1.0 / 60)
	assert.Equal(t, float32(0), cc.Azimuth())

	x, _, _ := obj.Position()
	assert.InDelta(t, 1, x, 1e-5)

	// A press that misses every selectable plane falls through to navigation.
	assert.True(t, d.Dispatch(input.PointerDown(input.ButtonPrimary, 0, 50, 50)))
	assert.False(t, g.Dragging())
}
