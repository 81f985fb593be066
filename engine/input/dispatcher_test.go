package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events  []Event
	consume func(Event) bool
}

func (r *recorder) HandleEvent(ev Event) bool {
	r.events = append(r.events, ev)
	if r.consume == nil {
		return false
	}
	return r.consume(ev)
}

func TestDispatchPrecedenceAndCapture(t *testing.T) {
	first := &recorder{consume: func(ev Event) bool {
		return ev.Type == EventPointerDown && ev.Modifiers.Has(ModControl)
	}}
	second := &recorder{consume: func(Event) bool { return true }}
	d := NewDispatcher(first, second)

	d.Dispatch(KeyDown(common.KeyLeftControl))
	assert.True(t, d.Dispatch(PointerDown(ButtonPrimary, 0, 1, 1)))
	require.True(t, d.Captured())

	d.Dispatch(PointerMove(0, 2, 2))
	d.Dispatch(PointerUp(ButtonPrimary, 0, 2, 2))
	assert.False(t, d.Captured())

	// first saw the key, the down, and the captured move and up.
	require.Len(t, first.events, 4)
	assert.True(t, first.events[1].Modifiers.Has(ModControl), "held modifier merged into pointer event")
	// second only saw the key event that first declined.
	assert.Len(t, second.events, 1)
}

func TestDispatchFallsThroughWithoutModifier(t *testing.T) {
	first := &recorder{consume: func(ev Event) bool { return ev.Modifiers.Has(ModControl) }}
	second := &recorder{consume: func(Event) bool { return true }}
	d := NewDispatcher(first, second)

	d.Dispatch(PointerDown(ButtonPrimary, 0, 1, 1))
	d.Dispatch(PointerMove(0, 3, 3))
	d.Dispatch(PointerUp(ButtonPrimary, 0, 3, 3))

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 3)
}

func TestCancelReachesEveryHandler(t *testing.T) {
	a := &recorder{consume: func(Event) bool { return true }}
	b := &recorder{}
	d := NewDispatcher(a, b)

	d.Dispatch(KeyDown(common.KeyLeftShift))
	d.Dispatch(PointerDown(ButtonPrimary, 0, 0, 0))
	d.Dispatch(Cancel())

	assert.False(t, d.Captured())
	assert.Zero(t, d.Modifiers())
	assert.Equal(t, EventCancel, b.events[len(b.events)-1].Type)
}

func TestParseModifier(t *testing.T) {
	m, err := ParseModifier("Ctrl")
	require.NoError(t, err)
	assert.Equal(t, ModControl, m)

	_, err = ParseModifier("hyper")
	assert.Error(t, err)
	assert.False(t, Modifiers(0).Has(0))
}
