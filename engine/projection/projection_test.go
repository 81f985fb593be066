package projection

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRig is a camera at (0,0,10) looking down -Z with a 90° fov over a 100x100 viewport,
// so client x maps to world x = (x-50)/5 on the z=0 plane.
type testRig struct {
	cam      camera.Camera
	viewport common.Viewport
	surface  game_object.GameObject
}

func newRig() *testRig {
	return &testRig{
		cam: camera.NewCamera(
			camera.WithFov(math32.Pi/2),
			camera.WithController(camera.NewCameraController(
				camera.WithElevationBounds(-1, 1),
				camera.WithEye(0, 0, 10),
			)),
		),
		viewport: common.Viewport{Width: 100, Height: 100},
		surface:  game_object.NewGameObject(game_object.AsPlane(10, 10, false)),
	}
}

func (r *testRig) projector() *Projector {
	return NewProjector(r.cam,
		func() common.Viewport { return r.viewport },
		func() game_object.GameObject { return r.surface },
	)
}

func TestProjectCenterHitsOrigin(t *testing.T) {
	r := newRig()
	p, ok := r.projector().Project(50, 50)

	require.True(t, ok)
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 0, p[1], 1e-4)
	assert.InDelta(t, 0, p[2], 1e-4)
}

func TestProjectUsesViewportOffset(t *testing.T) {
	r := newRig()
	r.viewport = common.Viewport{Left: 200, Top: 100, Width: 100, Height: 100}

	p, ok := r.projector().Project(270, 140)
	require.True(t, ok)
	assert.InDelta(t, 4, p[0], 1e-3)
	assert.InDelta(t, 2, p[1], 1e-3)
}

func TestProjectOutsideBoundsMisses(t *testing.T) {
	r := newRig()
	p, ok := r.projector().Project(0, 0)

	assert.False(t, ok)
	assert.Equal(t, [3]float32{}, p, "a miss never carries a stale point")
}

func TestProjectOntoOtherEntityNeverHits(t *testing.T) {
	r := newRig()
	other := game_object.NewGameObject(game_object.AsPlane(100, 100, true))

	_, ok := r.projector().ProjectOnto(other, 50, 50)
	assert.False(t, ok)

	_, ok = r.projector().ProjectOnto(r.surface, 50, 50)
	assert.True(t, ok)
}

func TestProjectWithoutSurfaceOrViewportMisses(t *testing.T) {
	r := newRig()
	r.viewport = common.Viewport{}
	_, ok := r.projector().Project(50, 50)
	assert.False(t, ok)

	r = newRig()
	r.surface = nil
	_, ok = r.projector().Project(50, 50)
	assert.False(t, ok)
}

func TestSingleSidedSurfaceIgnoresBackFace(t *testing.T) {
	r := newRig()
	r.surface.SetRotation(0, math32.Pi, 0)

	_, ok := r.projector().Project(50, 50)
	assert.False(t, ok)

	r.surface = game_object.NewGameObject(game_object.AsPlane(10, 10, true), game_object.WithRotation(0, math32.Pi, 0))
	_, ok = r.projector().Project(50, 50)
	assert.True(t, ok)
}

func TestSurfaceBehindCameraMisses(t *testing.T) {
	r := newRig()
	r.surface = game_object.NewGameObject(game_object.AsPlane(10, 10, true), game_object.WithPosition(0, 0, 20))

	_, ok := r.projector().Project(50, 50)
	assert.False(t, ok)
}

func TestToScreenRoundTrip(t *testing.T) {
	r := newRig()
	proj := r.projector()

	x, y, ok := proj.ToScreen([3]float32{3, -2, 0})
	require.True(t, ok)
	assert.InDelta(t, 65, x, 1e-3)
	assert.InDelta(t, 60, y, 1e-3)

	p, ok := proj.Project(x, y)
	require.True(t, ok)
	assert.InDelta(t, 3, p[0], 1e-3)
	assert.InDelta(t, -2, p[1], 1e-3)

	_, _, ok = proj.ToScreen([3]float32{0, 0, 30})
	assert.False(t, ok)
}

func TestPickSortsByDistance(t *testing.T) {
	r := newRig()
	near := game_object.NewGameObject(game_object.AsPlane(2, 2, true), game_object.WithPosition(0, 0, 5))
	far := game_object.NewGameObject(game_object.AsPlane(2, 2, true), game_object.WithPosition(0, 0, -5))
	off := game_object.NewGameObject(game_object.AsPlane(2, 2, true), game_object.WithPosition(30, 0, 0))
	line := game_object.NewGameObject(game_object.AsLine(nil))

	picker := NewPicker(r.cam, func() common.Viewport { return r.viewport })
	hits := picker.Pick(50, 50, []game_object.GameObject{far, off, near, line})

	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Object)
	assert.Same(t, far, hits[1].Object)
	assert.InDelta(t, 5, hits[0].Distance, 1e-3)
}
