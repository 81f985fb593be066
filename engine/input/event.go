// Package input models pointer and keyboard activity as a stream of plain Event
// values. Windows produce events, handlers consume them, and nothing in between
// needs a real display, so every interaction can be replayed in tests.
package input

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-classroom/common"
)

// EventType identifies the kind of an Event.
type EventType int

const (
	EventPointerDown EventType = iota
	EventPointerMove
	EventPointerUp
	EventScroll
	EventKeyDown
	EventKeyUp
	// EventCancel aborts any drag in progress, e.g. when the window loses focus.
	EventCancel
)

func (t EventType) String() string {
	switch t {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerUp:
		return "pointer-up"
	case EventScroll:
		return "scroll"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary   Button = common.MouseButtonPrimary
	ButtonSecondary Button = common.MouseButtonSecondary
	ButtonMiddle    Button = common.MouseButtonMiddle
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Has reports whether every modifier in want is held.
func (m Modifiers) Has(want Modifiers) bool {
	return want != 0 && m&want == want
}

// ParseModifier maps the whiteboard.modifier config value to a modifier. Accepted
// names are ctrl, control, shift, alt, option, super, meta and cmd, in any case.
//
// Parameters:
//   - name: the modifier name
//
// Returns:
//   - Modifiers: the modifier bit
//   - error: an error for unknown names
func ParseModifier(name string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ctrl", "control":
		return ModControl, nil
	case "shift":
		return ModShift, nil
	case "alt", "option":
		return ModAlt, nil
	case "super", "meta", "cmd":
		return ModSuper, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q", name)
	}
}

// ModifierForKey returns the modifier a key code toggles, or 0.
func ModifierForKey(key uint32) Modifiers {
	switch key {
	case common.KeyLeftShift, common.KeyRightShift:
		return ModShift
	case common.KeyLeftControl, common.KeyRightControl:
		return ModControl
	case common.KeyLeftAlt, common.KeyRightAlt:
		return ModAlt
	case common.KeyLeftSuper, common.KeyRightSuper:
		return ModSuper
	default:
		return 0
	}
}

// Event is one input occurrence. Pointer coordinates are in window client space.
type Event struct {
	Type      EventType
	Button    Button
	Modifiers Modifiers
	X, Y      float32
	// ScrollY is the vertical wheel delta; positive scrolls away from the user.
	ScrollY float32
	Key     uint32
}

// PointerDown builds a button-press event.
func PointerDown(button Button, mods Modifiers, x, y float32) Event {
	return Event{Type: EventPointerDown, Button: button, Modifiers: mods, X: x, Y: y}
}

// PointerMove builds a pointer-move event.
func PointerMove(mods Modifiers, x, y float32) Event {
	return Event{Type: EventPointerMove, Modifiers: mods, X: x, Y: y}
}

// PointerUp builds a button-release event.
func PointerUp(button Button, mods Modifiers, x, y float32) Event {
	return Event{Type: EventPointerUp, Button: button, Modifiers: mods, X: x, Y: y}
}

// Scroll builds a wheel event.
func Scroll(delta float32) Event {
	return Event{Type: EventScroll, ScrollY: delta}
}

// KeyDown builds a key-press event.
func KeyDown(key uint32) Event {
	return Event{Type: EventKeyDown, Key: key}
}

// KeyUp builds a key-release event.
func KeyUp(key uint32) Event {
	return Event{Type: EventKeyUp, Key: key}
}

// Cancel builds a cancel event.
func Cancel() Event {
	return Event{Type: EventCancel}
}
