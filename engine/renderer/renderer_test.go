package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	name  string
	calls *[]string
	err   error
	probe func()
	sizes [][2]int
}

func (r *recordingRenderer) Render(s scene.Scene, cam camera.Camera) error {
	*r.calls = append(*r.calls, r.name)
	if r.probe != nil {
		r.probe()
	}
	return r.err
}

func (r *recordingRenderer) Resize(width, height int) {
	r.sizes = append(r.sizes, [2]int{width, height})
}

func testCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithFar(1000),
		camera.WithController(camera.NewCameraController(camera.WithEye(0, 0, 10))),
	)
}

func pairedScene(t *testing.T) (scene.Scene, game_object.GameObject, game_object.GameObject) {
	t.Helper()
	s := scene.NewScene("test", testCamera())
	anchor := game_object.NewGameObject(game_object.AsPlane(5, 3, true), game_object.WithSelectable(true))
	proxy := game_object.NewGameObject(game_object.AsOverlay("https://example.com/?user=0", 500, 300), game_object.WithScale(0.01, 0.01, 0.01))
	require.NoError(t, s.Pair(anchor, proxy))
	return s, anchor, proxy
}

func TestPair_RenderFrameSyncsBetweenPasses(t *testing.T) {
	s, anchor, proxy := pairedScene(t)
	anchor.SetPosition(3, 1, -2)
	anchor.SetRotation(-0.5, 0, 0)

	var calls []string
	var atGeometry, atOverlay game_object.Transform
	geometry := &recordingRenderer{name: "geometry", calls: &calls, probe: func() { atGeometry = proxy.Transform() }}
	overlay := &recordingRenderer{name: "overlay", calls: &calls, probe: func() { atOverlay = proxy.Transform() }}

	p := NewPair(geometry, overlay)
	require.NoError(t, p.RenderFrame(s, s.Camera()))

	assert.Equal(t, []string{"geometry", "overlay"}, calls)
	assert.NotEqual(t, anchor.Transform().Position, atGeometry.Position)
	assert.Equal(t, anchor.Transform().Position, atOverlay.Position)
	assert.Equal(t, anchor.Transform().Rotation, atOverlay.Rotation)
	assert.Equal(t, [3]float32{0.01, 0.01, 0.01}, atOverlay.Scale)
	assert.Equal(t, uint64(1), p.Frames())
}

func TestPair_OverlayFollowsMovedAnchorEveryFrame(t *testing.T) {
	s, anchor, proxy := pairedScene(t)
	var calls []string
	overlay := &recordingRenderer{name: "overlay", calls: &calls}
	overlay.probe = func() {
		ax, ay, az := anchor.Position()
		px, py, pz := proxy.Position()
		assert.Equal(t, [3]float32{ax, ay, az}, [3]float32{px, py, pz})
	}
	p := NewPair(nil, overlay)

	for i := range 5 {
		anchor.SetPosition(float32(i), 0, float32(-i))
		require.NoError(t, p.RenderFrame(s, s.Camera()))
	}
	assert.Len(t, calls, 5)
}

func TestPair_BothPassesRunOnError(t *testing.T) {
	s, _, _ := pairedScene(t)
	errGeo := errors.New("device lost")
	errOverlay := errors.New("sink closed")
	var calls []string
	p := NewPair(
		&recordingRenderer{name: "geometry", calls: &calls, err: errGeo},
		&recordingRenderer{name: "overlay", calls: &calls, err: errOverlay},
	)

	err := p.RenderFrame(s, s.Camera())
	require.Error(t, err)
	assert.ErrorIs(t, err, errGeo)
	assert.ErrorIs(t, err, errOverlay)
	assert.Equal(t, []string{"geometry", "overlay"}, calls)
}

func TestPair_ResizeReachesBoth(t *testing.T) {
	var calls []string
	geometry := &recordingRenderer{name: "geometry", calls: &calls}
	overlay := &recordingRenderer{name: "overlay", calls: &calls}
	NewPair(geometry, overlay).Resize(800, 600)

	assert.Equal(t, [][2]int{{800, 600}}, geometry.sizes)
	assert.Equal(t, [][2]int{{800, 600}}, overlay.sizes)
}

func TestParsePresentModeAndMSAA(t *testing.T) {
	m, err := ParsePresentMode("Uncapped")
	require.NoError(t, err)
	assert.Equal(t, PresentModeUncapped, m)

	_, err = ParsePresentMode("triple")
	assert.Error(t, err)

	n, err := ParseMSAASampleCount(4)
	require.NoError(t, err)
	assert.Equal(t, MSAA4x, n)

	_, err = ParseMSAASampleCount(3)
	assert.Error(t, err)
}
