package controls

import "github.com/rs/zerolog"

// OrbitControlsOption is a functional option for configuring OrbitControls.
type OrbitControlsOption func(*OrbitControls)

// WithDamping sets the fraction of pending motion applied per 60 Hz frame.
// A value of 1 applies input immediately.
//
// Parameters:
//   - damping: factor in (0, 1], default 0.05
//
// Returns:
//   - OrbitControlsOption: option function to apply
func WithDamping(damping float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		if damping > 0 && damping <= 1 {
			o.damping = damping
		}
	}
}

// WithRotateSpeed scales drag rotation.
func WithRotateSpeed(speed float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.rotateSpeed = speed
	}
}

// WithPanSpeed scales drag panning.
func WithPanSpeed(speed float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.panSpeed = speed
	}
}

// WithZoomSpeed scales wheel zoom.
func WithZoomSpeed(speed float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.zoomSpeed = speed
	}
}

// WithOrbitLogger sets the logger.
func WithOrbitLogger(log zerolog.Logger) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.log = log
	}
}
