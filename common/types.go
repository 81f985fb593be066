package common

// Viewport is the client rectangle of the render surface in window coordinates.
// Pointer positions are normalized against it before any ray cast.
type Viewport struct {
	Left   float32
	Top    float32
	Width  float32
	Height float32
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Aspect returns width / height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Empty() {
		return 1
	}
	return v.Width / v.Height
}

// NDC converts a client-space pointer position into normalized device coordinates
// where x and y both span [-1, 1] and +y points up.
//
// Parameters:
//   - x, y: the pointer position in window client coordinates
//
// Returns:
//   - float32: the normalized x coordinate
//   - float32: the normalized y coordinate
func (v Viewport) NDC(x, y float32) (float32, float32) {
	return (x-v.Left)/v.Width*2 - 1, -(y-v.Top)/v.Height*2 + 1
}

// Color is a linear RGBA color with components in [0, 1].
type Color [4]float32

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
	ColorGray  = Color{0.6, 0.6, 0.6, 1}
)

// ColorFromHex converts a 0xRRGGBB value into an opaque Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
		1,
	}
}
