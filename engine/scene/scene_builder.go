package scene

import (
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.addLocked(obj)
		}
	}
}

// WithAmbientIntensity sets the uniform light factor applied to model colors.
//
// Parameters:
//   - intensity: the ambient factor, 1 leaves colors unchanged
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientIntensity(intensity float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = intensity
	}
}
