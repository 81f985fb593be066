package input

// Handler consumes input events. HandleEvent returns true when the event was
// consumed and must not reach lower priority handlers.
type Handler interface {
	HandleEvent(ev Event) bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev Event) bool

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) bool {
	return f(ev)
}

// Dispatcher routes events to handlers in priority order.
//
// The handler that consumes a pointer-down captures the pointer: it alone
// receives the following moves and the matching pointer-up. Cancel events reach
// every handler and release any capture. Held modifier keys are tracked from
// key events and merged into every pointer event.
type Dispatcher struct {
	handlers []Handler
	captured Handler
	button   Button
	mods     Modifiers
}

// NewDispatcher creates a Dispatcher. Handlers earlier in the list take precedence.
//
// Parameters:
//   - handlers: event handlers in priority order
//
// Returns:
//   - *Dispatcher: the dispatcher
func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Modifiers returns the modifier keys currently held.
func (d *Dispatcher) Modifiers() Modifiers {
	return d.mods
}

// Captured reports whether a handler currently owns the pointer.
func (d *Dispatcher) Captured() bool {
	return d.captured != nil
}

// Dispatch delivers ev and reports whether any handler consumed it.
//
// Parameters:
//   - ev: the event
//
// Returns:
//   - bool: true if a handler consumed the event
func (d *Dispatcher) Dispatch(ev Event) bool {
	switch ev.Type {
	case EventKeyDown:
		d.mods |= ModifierForKey(ev.Key)
	case EventKeyUp:
		d.mods &^= ModifierForKey(ev.Key)
	case EventPointerDown, EventPointerMove, EventPointerUp:
		ev.Modifiers |= d.mods
	case EventCancel:
		d.captured = nil
		d.mods = 0
		consumed := false
		for _, h := range d.handlers {
			if h.HandleEvent(ev) {
				consumed = true
			}
		}
		return consumed
	}

	if d.captured != nil {
		switch ev.Type {
		case EventPointerMove:
			return d.captured.HandleEvent(ev)
		case EventPointerUp:
			h := d.captured
			if ev.Button == d.button {
				d.captured = nil
			}
			return h.HandleEvent(ev)
		case EventPointerDown:
			// A second button while captured goes to the capturing handler only.
			return d.captured.HandleEvent(ev)
		}
	}

	for _, h := range d.handlers {
		if h.HandleEvent(ev) {
			if ev.Type == EventPointerDown {
				d.captured = h
				d.button = ev.Button
			}
			return true
		}
	}
	return false
}
