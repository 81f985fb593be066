package classroom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
	"github.com/Carmen-Shannon/oxy-classroom/engine/projection"
	"github.com/Carmen-Shannon/oxy-classroom/engine/whiteboard"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = common.Viewport{Width: 800, Height: 600}

func newClassroom(t *testing.T, options ...Option) *Classroom {
	t.Helper()
	c, err := New(func() common.Viewport { return testViewport }, options...)
	require.NoError(t, err)
	return c
}

func screenOf(t *testing.T, c *Classroom, world [3]float32) (float32, float32) {
	t.Helper()
	x, y, ok := projection.ToScreen(c.Camera(), testViewport, world)
	require.True(t, ok, "point %v must be in front of the camera", world)
	return x, y
}

// faceWhiteboard moves the camera square in front of the board.
func faceWhiteboard(c *Classroom) {
	ctrl := c.Camera().Controller()
	ctrl.SetTarget(-8, 8.5, -44)
	ctrl.SetPosition(-8, 8.5, -30)
	c.Camera().Update()
}

func TestGridLayout(t *testing.T) {
	c := newClassroom(t)
	surfaces := c.Surfaces()
	require.Len(t, surfaces, 12)

	first := surfaces[0].Plane
	x, y, z := first.Position()
	assert.Equal(t, [3]float32{-23.5, 0, -15}, [3]float32{x, y, z})

	last := surfaces[11].Plane
	x, y, z = last.Position()
	assert.Equal(t, [3]float32{15.5, 0, 15}, [3]float32{x, y, z})

	rx, _, _ := first.Rotation()
	assert.InDelta(t, -math32.Pi/4, rx, 1e-6)
	w, h := first.Size()
	assert.Equal(t, [2]float32{5, 3}, [2]float32{w, h})
	assert.True(t, first.DoubleSided())
	assert.Equal(t, common.ColorBlue, first.Color())
}

func TestOverlaysTrackTheirPlanes(t *testing.T) {
	c := newClassroom(t)
	for i, s := range c.Surfaces() {
		assert.Equal(t, i, s.Index)
		pt, at := s.Overlay.Transform(), s.Plane.Transform()
		assert.Equal(t, at.Position, pt.Position)
		assert.Equal(t, at.Rotation, pt.Rotation)
		assert.Equal(t, [3]float32{0.01, 0.01, 0.01}, pt.Scale)

		ew, eh := s.Overlay.ElementSize()
		assert.Equal(t, [2]int{500, 300}, [2]int{ew, eh})
	}
	assert.Equal(t, "https://3dclass.daily.co/3dclass?user=5", c.Surfaces()[5].Overlay.Source())
}

func TestOverlayURL(t *testing.T) {
	got, err := OverlayURL("https://rooms.example.test/class?lang=en", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://rooms.example.test/class?lang=en&user=3", got)

	_, err = OverlayURL("://bad", 0)
	assert.Error(t, err)
}

func TestCustomRoomAndGrid(t *testing.T) {
	c := newClassroom(t, WithRoomURL("https://rooms.example.test/x"), WithGrid(1, 2))
	require.Len(t, c.Surfaces(), 2)
	assert.Equal(t, "https://rooms.example.test/x?user=1", c.Surfaces()[1].Overlay.Source())

	_, err := New(func() common.Viewport { return testViewport }, WithGrid(0, 4))
	assert.Error(t, err)
}

func TestCameraAndWhiteboardDefaults(t *testing.T) {
	c := newClassroom(t)

	cam := c.Camera()
	assert.InDelta(t, 75*math32.Pi/180, cam.Fov(), 1e-6)
	assert.InDelta(t, 0.01, cam.Near(), 1e-9)
	assert.InDelta(t, 1000, cam.Far(), 1e-3)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)
	pos := cam.Position()
	assert.InDelta(t, 0, pos[0], 1e-4)
	assert.InDelta(t, 3, pos[1], 1e-4)
	assert.InDelta(t, 5, pos[2], 1e-4)

	wb := c.Whiteboard()
	assert.Same(t, wb, c.Scene().DrawingSurface())
	x, y, z := wb.Position()
	assert.Equal(t, [3]float32{-8, 8.5, -44}, [3]float32{x, y, z})
	assert.False(t, wb.DoubleSided())
	assert.InDelta(t, 0.5, c.Scene().AmbientIntensity(), 1e-6)
}

func TestCtrlDragDrawsOneStroke(t *testing.T) {
	c := newClassroom(t)
	faceWhiteboard(c)

	x0, y0 := screenOf(t, c, [3]float32{-8, 8.5, -44})
	x1, y1 := screenOf(t, c, [3]float32{-6, 9, -44})
	x2, y2 := screenOf(t, c, [3]float32{-4, 8, -44})

	c.HandleEvent(input.KeyDown(common.KeyLeftControl))
	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x0, y0)))
	assert.Equal(t, whiteboard.StateRecording, c.Recorder().State())
	assert.False(t, c.Orbit().Enabled(), "navigation is suspended while drawing")

	c.HandleEvent(input.PointerMove(0, x1, y1))
	c.HandleEvent(input.PointerMove(0, x2, y2))
	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, x2, y2))

	assert.True(t, c.Orbit().Enabled())
	strokes := c.Scene().Strokes()
	require.Len(t, strokes, 1)
	points := strokes[0].Points()
	require.Len(t, points, 4)
	assert.InDelta(t, -8, points[0][0], 5e-3)
	assert.InDelta(t, -4, points[3][0], 5e-3)
	assert.InDelta(t, -44, points[3][2], 5e-3)
}

func TestDrawModifierIsConfigurable(t *testing.T) {
	c := newClassroom(t, WithDrawModifier(input.ModShift))
	faceWhiteboard(c)
	x0, y0 := screenOf(t, c, [3]float32{-8, 8.5, -44})
	x1, y1 := screenOf(t, c, [3]float32{-6, 8.5, -44})

	// control no longer draws; the press goes to navigation
	c.HandleEvent(input.KeyDown(common.KeyLeftControl))
	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x0, y0)))
	assert.Equal(t, whiteboard.StateIdle, c.Recorder().State())
	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, x0, y0))
	c.HandleEvent(input.KeyUp(common.KeyLeftControl))

	c.HandleEvent(input.KeyDown(common.KeyLeftShift))
	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x0, y0)))
	assert.Equal(t, whiteboard.StateRecording, c.Recorder().State())
	c.HandleEvent(input.PointerMove(0, x1, y1))
	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, x1, y1))

	assert.Len(t, c.Scene().Strokes(), 1)
}

func TestPlainDragNavigates(t *testing.T) {
	c := newClassroom(t)
	before := c.Camera().Controller().Azimuth()

	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 400, 300)))
	c.HandleEvent(input.PointerMove(0, 500, 300))
	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, 500, 300))
	for i := 0; i < 200; i++ {
		c.Tick(1.0 / 60)
	}

	assert.NotEqual(t, before, c.Camera().Controller().Azimuth())
	assert.Empty(t, c.Scene().Strokes())
}

func TestGizmoDragSuspendsNavigationAndMovesOverlay(t *testing.T) {
	c := newClassroom(t)
	target := c.Surfaces()[6]
	px, py, pz := target.Plane.Position()
	x, y := screenOf(t, c, [3]float32{px, py, pz})

	// disabled gizmo lets the press reach navigation
	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x, y)))
	assert.False(t, c.Gizmo().Dragging())
	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, x, y))

	require.True(t, c.HandleEvent(input.KeyDown(common.KeyG)))
	require.True(t, c.Gizmo().Enabled())

	require.True(t, c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x, y)))
	assert.True(t, c.Gizmo().Dragging())
	assert.False(t, c.Orbit().Enabled())

	c.HandleEvent(input.PointerMove(0, x+40, y))
	nx, _, _ := target.Plane.Position()
	assert.Greater(t, nx, px)
	assert.Equal(t, target.Plane.Transform().Position, target.Overlay.Transform().Position)

	c.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, x+40, y))
	assert.False(t, c.Gizmo().Dragging())
	assert.True(t, c.Orbit().Enabled())
}

func TestCancelRestoresNavigation(t *testing.T) {
	c := newClassroom(t)
	faceWhiteboard(c)
	x, y := screenOf(t, c, [3]float32{-8, 8.5, -44})

	c.HandleEvent(input.KeyDown(common.KeyLeftControl))
	c.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, x, y))
	c.HandleEvent(input.PointerMove(0, x+10, y))
	require.False(t, c.Orbit().Enabled())

	c.HandleEvent(input.Cancel())
	assert.True(t, c.Orbit().Enabled())
	assert.Equal(t, whiteboard.StateIdle, c.Recorder().State())
	assert.Empty(t, c.Scene().Strokes())
}

func triangleModel() model.Model {
	return model.NewModel(model.WithName("room"), model.WithMeshes(model.Mesh{
		Name:      "floor",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
		Color:     common.ColorWhite,
	}))
}

func TestApplyModel(t *testing.T) {
	c := newClassroom(t)
	count := c.Scene().Count()

	assert.False(t, c.ApplyModel(loader.Result{Source: "room.glb", Err: errors.New("no such file")}))
	assert.Nil(t, c.Room())
	assert.Equal(t, count, c.Scene().Count())

	require.True(t, c.ApplyModel(loader.Result{Source: "room.glb", Model: triangleModel()}))
	room := c.Room()
	require.NotNil(t, room)
	assert.Equal(t, game_object.KindModel, room.Kind())
	_, ry, _ := room.Rotation()
	assert.InDelta(t, 3*math32.Pi/2, ry, 1e-6)
	assert.Equal(t, count+1, c.Scene().Count())

	// a second load replaces the first
	require.True(t, c.ApplyModel(loader.Result{Source: "room.glb", Model: triangleModel()}))
	assert.Equal(t, count+1, c.Scene().Count())
}

func TestLoadRoomDeliversThroughDispatch(t *testing.T) {
	c := newClassroom(t)

	posted := make(chan func(), 16)
	l := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithWorkers(1),
		loader.WithModel("Classroom3.glb", triangleModel()),
		loader.WithDispatch(func(fn func()) { posted <- fn }),
	)
	c.LoadRoom(context.Background(), l, "Classroom3.glb")

	deadline := time.After(5 * time.Second)
	for c.Room() == nil {
		select {
		case fn := <-posted:
			fn()
		case <-deadline:
			t.Fatal("room never arrived")
		}
	}
	assert.Equal(t, "room", c.Room().Name())
}
