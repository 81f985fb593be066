package game_object

import (
	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the label of the GameObject.
//
// Parameters:
//   - name: the object name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the world position of the GameObject.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Position = [3]float32{x, y, z}
	}
}

// WithRotation sets the Euler rotation of the GameObject in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the scale of the GameObject.
//
// Parameters:
//   - sx, sy, sz: scale components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Scale = [3]float32{sx, sy, sz}
	}
}

// WithColor sets the flat color of the GameObject.
func WithColor(c common.Color) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = c
	}
}

// WithSelectable marks the GameObject as pickable by the transform gizmo.
func WithSelectable(selectable bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.selectable = selectable
	}
}

// AsPlane makes the GameObject a rectangle of the given local size.
//
// Parameters:
//   - width: extent along local X
//   - height: extent along local Y
//   - doubleSided: true if the back face can be hit by ray casts
//
// Returns:
//   - GameObjectBuilderOption: functional option to configure the plane
func AsPlane(width, height float32, doubleSided bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = KindPlane
		obj.width = width
		obj.height = height
		obj.doubleSided = doubleSided
	}
}

// AsLine makes the GameObject a set of line segments. Points are copied and
// interpreted as world-space endpoint pairs.
//
// Parameters:
//   - points: segment endpoints, two per segment
//
// Returns:
//   - GameObjectBuilderOption: functional option to configure the line
func AsLine(points [][3]float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = KindLine
		obj.points = append([][3]float32(nil), points...)
	}
}

// AsModel makes the GameObject an instance of an imported Model.
//
// Parameters:
//   - m: the Model to place
//
// Returns:
//   - GameObjectBuilderOption: functional option to configure the model
func AsModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = KindModel
		obj.mdl = m
	}
}

// AsOverlay makes the GameObject a proxy for a DOM element of the given CSS
// pixel size that embeds the page at source.
//
// Parameters:
//   - source: the URL of the embedded page
//   - width, height: element size in CSS pixels
//
// Returns:
//   - GameObjectBuilderOption: functional option to configure the overlay proxy
func AsOverlay(source string, width, height int) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = KindOverlay
		obj.source = source
		obj.elementWidth = width
		obj.elementHeight = height
	}
}
