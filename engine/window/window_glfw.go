package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// translateMods converts GLFW modifier bits into input.Modifiers.
func translateMods(mods glfw.ModifierKey) input.Modifiers {
	var out input.Modifiers
	if mods&glfw.ModShift != 0 {
		out |= input.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= input.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		out |= input.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= input.ModSuper
	}
	return out
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press:
			w.emit(input.KeyDown(uint32(key)))
		case glfw.Release:
			w.emit(input.KeyUp(uint32(key)))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.emit(input.Scroll(float32(yoff)))
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		xpos, ypos := win.GetCursorPos()
		b := input.Button(button)
		switch action {
		case glfw.Press:
			w.emit(input.PointerDown(b, translateMods(mods), float32(xpos), float32(ypos)))
		case glfw.Release:
			w.emit(input.PointerUp(b, translateMods(mods), float32(xpos), float32(ypos)))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.emit(input.PointerMove(0, float32(xpos), float32(ypos)))
	})

	// A drag cannot complete once focus is gone, so it is cancelled instead.
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			w.emit(input.Cancel())
		}
	})

	// Pointer positions are reported in screen coordinates, which on high-DPI
	// displays differ from the framebuffer, so the client size is tracked separately.
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.clientWidth = width
		w.clientHeight = height
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight
	w.clientWidth, w.clientHeight = win.GetSize()

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
