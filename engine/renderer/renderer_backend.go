package renderer

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a config value ("vsync" or "uncapped") to a PresentMode.
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", name)
	}
}

func (m PresentMode) toWGPU() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// ParseMSAASampleCount validates a configured sample count.
func ParseMSAASampleCount(n int) (MSAASampleCount, error) {
	switch MSAASampleCount(n) {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return MSAASampleCount(n), nil
	case 0:
		return MSAAOff, nil
	default:
		return MSAA4x, fmt.Errorf("unsupported msaa sample count %d", n)
	}
}
