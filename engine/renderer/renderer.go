package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/rs/zerolog"
)

// GeometryRenderer rasterizes the scene's geometric entities.
type GeometryRenderer interface {
	// Render draws one frame of s as seen from cam.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw from
	//
	// Returns:
	//   - error: an error if the frame could not be produced
	Render(s scene.Scene, cam camera.Camera) error

	// Resize reconfigures the render target for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)
}

// OverlayRenderer positions the DOM overlay elements paired with scene planes.
type OverlayRenderer interface {
	// Render publishes the overlay transforms for one frame.
	Render(s scene.Scene, cam camera.Camera) error

	// Resize updates the overlay frame size in CSS pixels.
	Resize(width, height int)
}

// Pair drives a geometry renderer and an overlay renderer that share one camera.
// RenderFrame is the only per-frame render entry point.
type Pair struct {
	geometry GeometryRenderer
	overlay  OverlayRenderer
	log      zerolog.Logger

	frames uint64
}

// NewPair creates a Pair. Either renderer may be nil, in which case its pass is skipped.
//
// Parameters:
//   - geometry: the rasterizer
//   - overlay: the DOM overlay renderer
//   - options: functional options to configure the pair
//
// Returns:
//   - *Pair: the renderer pair
func NewPair(geometry GeometryRenderer, overlay OverlayRenderer, options ...PairBuilderOption) *Pair {
	p := &Pair{
		geometry: geometry,
		overlay:  overlay,
		log:      zerolog.Nop(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// RenderFrame draws the geometry, copies every anchor transform onto its overlay
// proxy, then renders the overlay. The sync sits between the passes so the overlay
// always reflects the transforms the geometry was drawn with. Both passes run even
// if one fails.
//
// Parameters:
//   - s: the scene to render
//   - cam: the shared camera
//
// Returns:
//   - error: the joined pass errors, or nil
func (p *Pair) RenderFrame(s scene.Scene, cam camera.Camera) error {
	if s == nil || cam == nil {
		return nil
	}
	p.frames++

	var errs []error
	if p.geometry != nil {
		if err := p.geometry.Render(s, cam); err != nil {
			errs = append(errs, fmt.Errorf("geometry pass: %w", err))
		}
	}

	synced := s.SyncOverlays()

	if p.overlay != nil {
		if err := p.overlay.Render(s, cam); err != nil {
			errs = append(errs, fmt.Errorf("overlay pass: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		p.log.Warn().Err(err).Uint64("frame", p.frames).Int("overlays", synced).Msg("frame rendered with errors")
	}
	return err
}

// Resize forwards a new surface size to both renderers.
//
// Parameters:
//   - width: the new width in pixels
//   - height: the new height in pixels
func (p *Pair) Resize(width, height int) {
	if p.geometry != nil {
		p.geometry.Resize(width, height)
	}
	if p.overlay != nil {
		p.overlay.Resize(width, height)
	}
}

// Frames returns the number of RenderFrame calls that had a scene to draw.
func (p *Pair) Frames() uint64 {
	return p.frames
}
