// Package controls turns pointer input into camera navigation and object manipulation.
package controls

import (
	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/chewxy/math32"
	"github.com/rs/zerolog"
)

// ViewportFunc returns the client rectangle pointer coordinates are relative to.
type ViewportFunc func() common.Viewport

// settleEpsilon is the residual motion below which damped deltas snap to zero.
const settleEpsilon = 1e-6

// OrbitControls navigates a camera around its target.
//
// A primary drag rotates, a secondary drag pans along the ground plane and the
// wheel zooms. Rotation and pan are damped: input accumulates into pending deltas
// that Update applies a fraction of each frame. Distance and polar limits are
// enforced by the camera controller.
type OrbitControls struct {
	cam      camera.Camera
	viewport ViewportFunc
	log      zerolog.Logger

	enabled      bool
	damping      float32
	rotateSpeed  float32
	panSpeed     float32
	zoomSpeed    float32
	wheelFactor  float32
	dragButton   input.Button
	dragging     bool
	lastX, lastY float32

	pendingAzimuth   float32
	pendingElevation float32
	pendingRight     float32
	pendingGround    float32
	pendingScale     float32
}

// NewOrbitControls creates enabled OrbitControls for cam.
//
// Parameters:
//   - cam: the camera whose controller is driven
//   - viewport: source of the current client rectangle
//   - options: functional options to configure the controls
//
// Returns:
//   - *OrbitControls: the controls
func NewOrbitControls(cam camera.Camera, viewport ViewportFunc, options ...OrbitControlsOption) *OrbitControls {
	o := &OrbitControls{
		cam:          cam,
		viewport:     viewport,
		log:          zerolog.Nop(),
		enabled:      true,
		damping:      0.05,
		rotateSpeed:  1,
		panSpeed:     1,
		zoomSpeed:    1,
		wheelFactor:  0.95,
		pendingScale: 1,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Enabled reports whether the controls react to input.
func (o *OrbitControls) Enabled() bool {
	return o.enabled
}

// SetEnabled turns input handling on or off. Disabling also drops any drag in
// progress and any motion still being damped so the view holds still.
//
// Parameters:
//   - enabled: true to accept input
func (o *OrbitControls) SetEnabled(enabled bool) {
	if o.enabled == enabled {
		return
	}
	o.enabled = enabled
	if !enabled {
		o.dragging = false
		o.stop()
	}
	o.log.Debug().Bool("enabled", enabled).Msg("orbit controls toggled")
}

// Damping returns the fraction of pending motion applied per 60 Hz frame.
func (o *OrbitControls) Damping() float32 {
	return o.damping
}

// Pending reports whether damped motion remains to be applied.
func (o *OrbitControls) Pending() bool {
	return o.pendingAzimuth != 0 || o.pendingElevation != 0 ||
		o.pendingRight != 0 || o.pendingGround != 0 || o.pendingScale != 1
}

// HandleEvent implements input.Handler.
func (o *OrbitControls) HandleEvent(ev input.Event) bool {
	if ev.Type == input.EventCancel {
		o.dragging = false
		return false
	}
	if !o.enabled {
		return false
	}

	switch ev.Type {
	case input.EventPointerDown:
		if o.dragging || (ev.Button != input.ButtonPrimary && ev.Button != input.ButtonSecondary) {
			return false
		}
		o.dragging = true
		o.dragButton = ev.Button
		o.lastX, o.lastY = ev.X, ev.Y
		return true
	case input.EventPointerMove:
		if !o.dragging {
			return false
		}
		dx, dy := ev.X-o.lastX, ev.Y-o.lastY
		o.lastX, o.lastY = ev.X, ev.Y
		if o.dragButton == input.ButtonPrimary {
			o.rotate(dx, dy)
		} else {
			o.pan(dx, dy)
		}
		return true
	case input.EventPointerUp:
		if !o.dragging || ev.Button != o.dragButton {
			return false
		}
		o.dragging = false
		return true
	case input.EventScroll:
		if ev.ScrollY == 0 {
			return false
		}
		o.pendingScale *= math32.Pow(o.wheelFactor, ev.ScrollY*o.zoomSpeed)
		return true
	}
	return false
}

// Update applies pending motion to the camera controller.
//
// Parameters:
//   - dt: seconds since the previous update
func (o *OrbitControls) Update(dt float32) {
	ctrl := o.cam.Controller()
	if ctrl == nil {
		return
	}

	if o.pendingScale != 1 {
		ctrl.SetRadius(ctrl.Radius() * o.pendingScale)
		o.pendingScale = 1
	}

	k := common.Clamp(o.damping*dt*60, 0, 1)
	if k == 0 {
		return
	}

	if o.pendingAzimuth != 0 || o.pendingElevation != 0 {
		ctrl.Rotate(o.pendingAzimuth*k, o.pendingElevation*k)
		o.pendingAzimuth = settle(o.pendingAzimuth * (1 - k))
		o.pendingElevation = settle(o.pendingElevation * (1 - k))
	}
	if o.pendingRight != 0 {
		ctrl.PanRight(o.pendingRight * k)
		o.pendingRight = settle(o.pendingRight * (1 - k))
	}
	if o.pendingGround != 0 {
		ctrl.PanGround(o.pendingGround * k)
		o.pendingGround = settle(o.pendingGround * (1 - k))
	}
}

// rotate converts a pointer delta in pixels into orbit angles. A drag across the
// full viewport height is one full turn.
func (o *OrbitControls) rotate(dx, dy float32) {
	h := o.viewport().Height
	if h <= 0 {
		return
	}
	o.pendingAzimuth -= 2 * math32.Pi * dx / h * o.rotateSpeed
	o.pendingElevation += 2 * math32.Pi * dy / h * o.rotateSpeed
}

// pan converts a pointer delta in pixels into world units at the target distance,
// so the ground under the pointer follows it.
func (o *OrbitControls) pan(dx, dy float32) {
	h := o.viewport().Height
	ctrl := o.cam.Controller()
	if h <= 0 || ctrl == nil {
		return
	}
	worldPerPixel := 2 * ctrl.Radius() * math32.Tan(o.cam.Fov()/2) / h * o.panSpeed
	o.pendingRight -= dx * worldPerPixel
	o.pendingGround += dy * worldPerPixel
}

func (o *OrbitControls) stop() {
	o.pendingAzimuth = 0
	o.pendingElevation = 0
	o.pendingRight = 0
	o.pendingGround = 0
	o.pendingScale = 1
}

func settle(v float32) float32 {
	if math32.Abs(v) < settleEpsilon {
		return 0
	}
	return v
}
