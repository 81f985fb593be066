package whiteboard_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/whiteboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface hits for any x below 100, mapping (x, y) to (x, -y, 0).
type fakeSurface struct{}

func (fakeSurface) Project(x, y float32) ([3]float32, bool) {
	if x >= 100 {
		return [3]float32{}, false
	}
	return [3]float32{x, -y, 0}, true
}

type fakeStore struct {
	added []game_object.GameObject
}

func (s *fakeStore) Add(obj game_object.GameObject) uint64 {
	s.added = append(s.added, obj)
	return uint64(len(s.added))
}

type fakeNav struct {
	enabled  bool
	disables int
	enables  int
}

func (n *fakeNav) SetEnabled(enabled bool) {
	n.enabled = enabled
	if enabled {
		n.enables++
	} else {
		n.disables++
	}
}

func newRecorder(t *testing.T) (*whiteboard.Recorder, *fakeStore, *fakeNav) {
	t.Helper()
	store := &fakeStore{}
	nav := &fakeNav{enabled: true}
	r, err := whiteboard.NewRecorder(fakeSurface{}, store, nav)
	require.NoError(t, err)
	return r, store, nav
}

func TestRecorder_ThreeHitsMakeOneStroke(t *testing.T) {
	r, store, nav := newRecorder(t)

	assert.True(t, r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 1, 1)))
	assert.Equal(t, whiteboard.StateRecording, r.State())
	assert.False(t, nav.enabled)

	r.HandleEvent(input.PointerMove(input.ModControl, 2, 2))
	r.HandleEvent(input.PointerMove(input.ModControl, 3, 3))
	r.HandleEvent(input.PointerUp(input.ButtonPrimary, input.ModControl, 3, 3))

	require.Len(t, store.added, 1)
	stroke := store.added[0]
	assert.Equal(t, game_object.KindLine, stroke.Kind())
	assert.Equal(t, common.ColorBlack, stroke.Color())
	assert.Equal(t, [][3]float32{
		{1, -1, 0}, {2, -2, 0},
		{2, -2, 0}, {3, -3, 0},
	}, stroke.Points())

	assert.Equal(t, whiteboard.StateIdle, r.State())
	assert.Empty(t, r.Points())
	assert.Equal(t, 1, nav.disables)
	assert.Equal(t, 1, nav.enables)
	assert.True(t, nav.enabled)
}

func TestRecorder_OffSurfaceMoveAddsNothing(t *testing.T) {
	r, store, nav := newRecorder(t)

	r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 1, 1))
	r.HandleEvent(input.PointerMove(input.ModControl, 150, 1))
	r.HandleEvent(input.PointerUp(input.ButtonPrimary, input.ModControl, 150, 1))

	assert.Empty(t, store.added)
	assert.Equal(t, 1, nav.disables)
	assert.Equal(t, 1, nav.enables)
}

func TestRecorder_MissMidStrokeIsSkipped(t *testing.T) {
	r, store, _ := newRecorder(t)

	r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 1, 0))
	r.HandleEvent(input.PointerMove(input.ModControl, 200, 0))
	r.HandleEvent(input.PointerMove(input.ModControl, 5, 0))
	r.HandleEvent(input.PointerUp(input.ButtonPrimary, input.ModControl, 5, 0))

	require.Len(t, store.added, 1)
	assert.Equal(t, [][3]float32{{1, 0, 0}, {5, 0, 0}}, store.added[0].Points())
}

func TestRecorder_PressWithoutModifierIsIgnored(t *testing.T) {
	r, store, nav := newRecorder(t)

	assert.False(t, r.HandleEvent(input.PointerDown(input.ButtonPrimary, 0, 1, 1)))
	assert.False(t, r.HandleEvent(input.PointerDown(input.ButtonSecondary, input.ModControl, 1, 1)))
	assert.False(t, r.HandleEvent(input.PointerMove(0, 2, 2)))

	assert.Equal(t, whiteboard.StateIdle, r.State())
	assert.Empty(t, store.added)
	assert.Zero(t, nav.disables)
}

func TestRecorder_PressMissIsConsumedWithoutDisablingNavigation(t *testing.T) {
	r, _, nav := newRecorder(t)

	assert.True(t, r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 500, 1)))
	assert.Equal(t, whiteboard.StateIdle, r.State())
	assert.Zero(t, nav.disables)
	assert.Zero(t, nav.enables)
}

func TestRecorder_CancelAbortsStroke(t *testing.T) {
	r, store, nav := newRecorder(t)

	r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 1, 1))
	r.HandleEvent(input.PointerMove(input.ModControl, 2, 2))
	assert.Len(t, r.Points(), 2)

	assert.False(t, r.HandleEvent(input.Cancel()))
	r.HandleEvent(input.PointerUp(input.ButtonPrimary, 0, 2, 2))

	assert.Empty(t, store.added)
	assert.Equal(t, whiteboard.StateIdle, r.State())
	assert.Equal(t, 1, nav.enables)
}

func TestRecorder_CustomModifierAndColor(t *testing.T) {
	store := &fakeStore{}
	nav := &fakeNav{}
	r, err := whiteboard.NewRecorder(fakeSurface{}, store, nav,
		whiteboard.WithModifier(input.ModShift),
		whiteboard.WithColor(common.ColorBlue),
	)
	require.NoError(t, err)

	assert.False(t, r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModControl, 1, 1)))
	assert.True(t, r.HandleEvent(input.PointerDown(input.ButtonPrimary, input.ModShift|input.ModAlt, 1, 1)))
	r.HandleEvent(input.PointerMove(input.ModShift, 2, 1))
	r.HandleEvent(input.PointerUp(input.ButtonPrimary, input.ModShift, 2, 1))

	require.Len(t, store.added, 1)
	assert.Equal(t, common.ColorBlue, store.added[0].Color())
}

func TestRecorder_ThroughDispatcherBlocksNavigation(t *testing.T) {
	r, store, _ := newRecorder(t)
	var navEvents int
	nav := input.HandlerFunc(func(ev input.Event) bool {
		switch ev.Type {
		case input.EventPointerDown, input.EventPointerMove, input.EventPointerUp:
			navEvents++
			return true
		}
		return false
	})
	d := input.NewDispatcher(r, nav)

	d.Dispatch(input.KeyDown(common.KeyLeftControl))
	d.Dispatch(input.PointerDown(input.ButtonPrimary, 0, 1, 1))
	d.Dispatch(input.KeyUp(common.KeyLeftControl))
	d.Dispatch(input.PointerMove(0, 4, 1))
	d.Dispatch(input.PointerUp(input.ButtonPrimary, 0, 4, 1))

	assert.Zero(t, navEvents)
	require.Len(t, store.added, 1)

	d.Dispatch(input.PointerMove(0, 5, 5))
	assert.Equal(t, 1, navEvents)
}
