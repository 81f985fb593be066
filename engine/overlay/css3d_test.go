package overlay

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithFov(math32.Pi/2),
		camera.WithFar(1000),
		camera.WithController(camera.NewCameraController(camera.WithEye(0, 0, 10))),
	)
}

func overlayScene(t *testing.T, z float32) (scene.Scene, game_object.GameObject) {
	t.Helper()
	s := scene.NewScene("overlay", frontCamera())
	anchor := game_object.NewGameObject(game_object.AsPlane(5, 3, true), game_object.WithPosition(0, 0, z))
	proxy := game_object.NewGameObject(
		game_object.AsOverlay("https://meet.example/room?user=0", 500, 300),
		game_object.WithScale(0.01, 0.01, 0.01),
	)
	require.NoError(t, s.Pair(anchor, proxy))
	s.SyncOverlays()
	return s, proxy
}

func TestMatrixFormatting(t *testing.T) {
	m := [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	assert.Equal(t, "matrix3d(1,-2,3,4,5,-6,7,8,9,-10,11,12,13,-14,15,16)", CameraMatrix(m))
	assert.Equal(t, "matrix3d(1,2,3,4,-5,-6,-7,-8,9,10,11,12,13,14,15,16)", ObjectMatrix(m))
}

func TestCSSNumber(t *testing.T) {
	assert.Equal(t, "0", cssNumber(1e-12))
	assert.Equal(t, "0", cssNumber(-1e-12))
	assert.Equal(t, "0.01", cssNumber(0.01))
	assert.Equal(t, "-10", cssNumber(-10))
}

func TestBuildFrame(t *testing.T) {
	s, proxy := overlayScene(t, 0)

	f := BuildFrame(s, s.Camera(), 100, 100)

	assert.InDelta(t, 50, f.Perspective, 1e-4)
	assert.True(t, strings.HasPrefix(f.CameraTransform, "translateZ("), f.CameraTransform)
	assert.Contains(t, f.CameraTransform, "px)matrix3d(")
	assert.Contains(t, f.CameraTransform, "matrix3d(1,0,0,0,0,-1,0,0,0,0,1,0,0,0,-10,1)")
	assert.True(t, strings.HasSuffix(f.CameraTransform, "translate(50px,50px)"), f.CameraTransform)

	require.Len(t, f.Elements, 1)
	e := f.Elements[0]
	assert.Equal(t, proxy.ID(), e.ID)
	assert.Equal(t, "https://meet.example/room?user=0", e.Source)
	assert.Equal(t, 500, e.Width)
	assert.Equal(t, 300, e.Height)
	assert.Equal(t, "translate(-50%,-50%)matrix3d(0.01,0,0,0,0,-0.01,0,0,0,0,0.01,0,0,0,0,1)", e.Transform)
	assert.True(t, e.Visible)
}

func TestBuildFrameHidesElementsBehindCamera(t *testing.T) {
	s, _ := overlayScene(t, 50)

	f := BuildFrame(s, s.Camera(), 100, 100)
	require.Len(t, f.Elements, 1)
	assert.False(t, f.Elements[0].Visible)
}

type captureSink struct {
	frames []Frame
}

func (c *captureSink) Publish(f Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

func TestRendererPublishesAndResizes(t *testing.T) {
	s, _ := overlayScene(t, 0)
	sink := &captureSink{}
	r := NewRenderer(sink, 0, 0)

	require.NoError(t, r.Render(s, s.Camera()))
	assert.Empty(t, sink.frames)

	r.Resize(800, 600)
	require.NoError(t, r.Render(s, s.Camera()))
	require.Len(t, sink.frames, 1)
	assert.Equal(t, 800, sink.frames[0].Width)
	assert.Equal(t, sink.frames[0], r.Last())
}
