package renderer

import (
	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/rs/zerolog"
)

// PairBuilderOption is a functional option applied to a Pair during construction via NewPair.
type PairBuilderOption func(*Pair)

// WithPairLogger sets the logger used to report failed frames.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - PairBuilderOption: a function that applies the logger to a Pair
func WithPairLogger(log zerolog.Logger) PairBuilderOption {
	return func(p *Pair) {
		p.log = log
	}
}

// GeometryRendererOption is a functional option applied to the WebGPU geometry
// renderer during construction via NewWGPUGeometryRenderer.
type GeometryRendererOption func(*wgpuGeometryRenderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GeometryRendererOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) GeometryRendererOption {
	return func(r *wgpuGeometryRenderer) {
		r.presentMode = mode.toWGPU()
	}
}

// WithMSAA sets the multisample anti-aliasing sample count.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
// Higher values (MSAA8x, MSAA16x) are adapter-dependent and may not be supported
// by all hardware.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - GeometryRendererOption: a function that applies the MSAA option
func WithMSAA(count MSAASampleCount) GeometryRendererOption {
	return func(r *wgpuGeometryRenderer) {
		r.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GeometryRendererOption: a function that applies the option
func WithForceSoftwareRenderer(force bool) GeometryRendererOption {
	return func(r *wgpuGeometryRenderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color.
func WithClearColor(c common.Color) GeometryRendererOption {
	return func(r *wgpuGeometryRenderer) {
		r.clearColor = c
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) GeometryRendererOption {
	return func(r *wgpuGeometryRenderer) {
		r.log = log
	}
}
