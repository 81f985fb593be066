package controls

import "github.com/rs/zerolog"

// TransformControlsOption is a functional option for configuring TransformControls.
type TransformControlsOption func(*TransformControls)

// WithConstraint sets the initial drag constraint.
//
// Parameters:
//   - c: the constraint, default ConstraintGround
//
// Returns:
//   - TransformControlsOption: option function to apply
func WithConstraint(c Constraint) TransformControlsOption {
	return func(t *TransformControls) {
		t.constraint = c
	}
}

// WithGizmoEnabled sets whether the gizmo starts enabled.
func WithGizmoEnabled(enabled bool) TransformControlsOption {
	return func(t *TransformControls) {
		t.enabled = enabled
	}
}

// WithGizmoLogger sets the logger.
func WithGizmoLogger(log zerolog.Logger) TransformControlsOption {
	return func(t *TransformControls) {
		t.log = log
	}
}
