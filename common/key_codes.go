package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII)
	KeyA     = 65  // A key (ASCII)
	KeyS     = 83  // S key (ASCII)
	KeyD     = 68  // D key (ASCII)
	KeyG     = 71  // G key (ASCII)
	KeyX     = 88  // X key (ASCII)
	KeyY     = 89  // Y key (ASCII)
	KeyZ     = 90  // Z key (ASCII)
	KeySpace = 32  // Spacebar (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
)

// Modifier keys
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyLeftAlt      = 342 // Left Alt (GLFW)
	KeyLeftSuper    = 343 // Left Super (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
	KeyRightAlt     = 346 // Right Alt (GLFW)
	KeyRightSuper   = 347 // Right Super (GLFW)
)

// Mouse buttons, matching glfw.MouseButton values.
const (
	MouseButtonPrimary   = 0 // Left button
	MouseButtonSecondary = 1 // Right button
	MouseButtonMiddle    = 2 // Middle button
)
