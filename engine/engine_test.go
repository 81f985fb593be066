package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls   *[]string
	err     error
	resized [2]int
}

func (r *recordingRenderer) RenderFrame(s scene.Scene, cam camera.Camera) error {
	*r.calls = append(*r.calls, "render")
	return r.err
}

func (r *recordingRenderer) Resize(width, height int) {
	r.resized = [2]int{width, height}
}

func newTestEngine(t *testing.T) (*engine, *recordingRenderer, *[]string) {
	t.Helper()
	calls := &[]string{}
	r := &recordingRenderer{calls: calls}
	s := scene.NewScene("classroom", camera.NewCamera())

	e, err := NewEngine(s, r)
	require.NoError(t, err)
	return e.(*engine), r, calls
}

func TestStepBeforeStart(t *testing.T) {
	e, _, calls := newTestEngine(t)
	assert.False(t, e.Started())
	assert.ErrorIs(t, e.Step(0.016), ErrNotStarted)
	assert.Empty(t, *calls)
}

func TestStartsWithoutAnyAssetLoaded(t *testing.T) {
	e, _, calls := newTestEngine(t)
	e.Start()
	require.True(t, e.Started())

	require.NoError(t, e.Step(0.016))
	assert.Equal(t, []string{"render"}, *calls)
	assert.Equal(t, uint64(1), e.Frames())
}

func TestStepOrder(t *testing.T) {
	e, _, calls := newTestEngine(t)
	e.SetTickCallback(func(dt float32) { *calls = append(*calls, "tick") })
	e.SetRenderCallback(func(dt float32) { *calls = append(*calls, "after") })
	e.Post(func() { *calls = append(*calls, "posted") })
	e.Start()

	require.NoError(t, e.Step(0.016))
	assert.Equal(t, []string{"posted", "tick", "render", "after"}, *calls)
}

func TestPostedTasksDrainOnLoopAndOnlyOnce(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Start()

	var wg sync.WaitGroup
	count := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Post(func() { count++ })
		}()
	}
	wg.Wait()

	require.NoError(t, e.Step(0.016))
	assert.Equal(t, 50, count)
	require.NoError(t, e.Step(0.016))
	assert.Equal(t, 50, count)
}

func TestTaskPostedDuringDrainRunsNextFrame(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Start()

	ran := false
	e.Post(func() { e.Post(func() { ran = true }) })

	require.NoError(t, e.Step(0.016))
	assert.False(t, ran)
	require.NoError(t, e.Step(0.016))
	assert.True(t, ran)
}

func TestPanickingTaskDoesNotDropLaterTasks(t *testing.T) {
	e, _, calls := newTestEngine(t)
	e.Start()

	delivered := 0
	e.Post(func() { panic("bad task") })
	e.Post(func() { delivered++ })

	require.NoError(t, e.Step(0.016))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{"render"}, *calls)

	require.NoError(t, e.Step(0.016))
	assert.Equal(t, 1, delivered)
}

func TestPostedModelReachesScene(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Start()
	require.NoError(t, e.Step(0.016))

	room := game_object.NewGameObject(game_object.WithName("room"))
	posted := make(chan struct{})
	go func() {
		e.Post(func() { e.Scene().Add(room) })
		close(posted)
	}()
	<-posted

	assert.Zero(t, e.Scene().Count(), "nothing touches the scene off the loop")
	require.NoError(t, e.Step(0.016))
	assert.Equal(t, 1, e.Scene().Count())
}

func TestRenderErrorIsReturnedAndLoopContinues(t *testing.T) {
	e, r, calls := newTestEngine(t)
	r.err = errors.New("surface lost")
	after := 0
	e.SetRenderCallback(func(dt float32) { after++ })
	e.Start()

	assert.ErrorIs(t, e.Step(0.016), r.err)
	assert.Equal(t, 1, after)

	r.err = nil
	require.NoError(t, e.Step(0.016))
	assert.Len(t, *calls, 2)
}

func TestPanicInFrameIsRecovered(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetTickCallback(func(dt float32) { panic("boom") })
	e.Start()

	err := e.Step(0.016)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	e.SetTickCallback(nil)
	assert.NoError(t, e.Step(0.016))
}

func TestResizeUpdatesRendererAndCamera(t *testing.T) {
	e, r, _ := newTestEngine(t)
	var got [2]int
	e.SetResizeCallback(func(w, h int) { got = [2]int{w, h} })

	e.resize(800, 400)
	assert.Equal(t, [2]int{800, 400}, r.resized)
	assert.Equal(t, [2]int{800, 400}, got)
	assert.InDelta(t, 2.0, e.Scene().Camera().Aspect(), 1e-6)

	e.resize(0, 400)
	assert.Equal(t, [2]int{800, 400}, r.resized)
}

func TestRunWithoutWindow(t *testing.T) {
	e, _, _ := newTestEngine(t)
	assert.ErrorIs(t, e.Run(), ErrNoWindow)
}

func TestQuitIsIdempotent(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Quit()
	e.Quit()
	assert.True(t, e.quitRequested())
}

func TestFrameLimit(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.SetRenderFrameLimit(50)
	assert.Equal(t, int64(20_000_000), e.renderFrameLimit.Nanoseconds())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
