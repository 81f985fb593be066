package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Native input callbacks are translated into input.Event values so the rest of
// the program never sees platform types.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetInputCallback sets the function that receives every translated input event.
	//
	// Parameters:
	//   - callback: function receiving the event (or nil to drop input)
	SetInputCallback(callback func(ev input.Event))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if the window has not been closed
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window is not initialized
	Close() error

	// ProcessMessages runs the message loop until the window closes, calling the
	// update callback once per iteration after pending events are delivered.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Viewport returns the client rectangle in the coordinate space of pointer
	// events. On high-DPI displays this differs from the framebuffer size.
	//
	// Returns:
	//   - common.Viewport: the client rectangle
	Viewport() common.Viewport
}

type engineWindow struct {
	title     string
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// framebuffer size in pixels
	width  int
	height int

	// client size in screen coordinates, the space pointer positions are reported in
	clientWidth  int
	clientHeight int

	internalWindow any

	onUpdate func()
	onResize func(width, height int)
	onInput  func(ev input.Event)
}

var _ Window = &engineWindow{}

// NewWindow creates the platform window configured by the provided builder options.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "Default Window Title",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  600,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetInputCallback(callback func(ev input.Event)) {
	w.onInput = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) Viewport() common.Viewport {
	return common.Viewport{Width: float32(w.clientWidth), Height: float32(w.clientHeight)}
}

// emit forwards an event to the input callback if one is set.
func (w *engineWindow) emit(ev input.Event) {
	if w.onInput != nil {
		w.onInput(ev)
	}
}
