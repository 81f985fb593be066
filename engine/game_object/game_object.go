package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
)

// Kind identifies what a GameObject represents and therefore which renderer draws it.
type Kind int

const (
	// KindPlane is a flat rectangle of Size() in local XY, facing local +Z.
	KindPlane Kind = iota
	// KindLine is a list of world-space segment endpoints, two points per segment.
	KindLine
	// KindModel is an imported model placed by the object transform.
	KindModel
	// KindOverlay is a proxy for a DOM element drawn by the overlay renderer.
	KindOverlay
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindLine:
		return "line"
	case KindModel:
		return "model"
	case KindOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Transform is the position, Euler rotation (radians) and scale of an object.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

type gameObject struct {
	id      uint64
	name    string
	kind    Kind
	enabled atomic.Bool
	version uint64

	transform Transform

	width       float32
	height      float32
	doubleSided bool
	selectable  bool
	color       common.Color

	points [][3]float32
	mdl    model.Model

	source        string
	elementWidth  int
	elementHeight int
}

// GameObject defines the interface for a scene entity.
//
// Every entity carries a transform. What the transform positions depends on Kind:
// a plane, a stroke, a model or a DOM overlay proxy.
type GameObject interface {
	// ID returns the object's unique identifier. Zero means the object is not in a scene.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier. Called by the Scene on insertion.
	//
	// Parameters:
	//   - id: the new identifier
	SetID(id uint64)

	// Name returns the human readable label of the object.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Kind returns what the object represents.
	//
	// Returns:
	//   - Kind: the object kind
	Kind() Kind

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables the object for rendering.
	//
	// Parameters:
	//   - enabled: true to render the object
	SetEnabled(enabled bool)

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// Scale returns the object's scale factors.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetPosition sets the object's world position.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: rotation angles
	SetRotation(rx, ry, rz float32)

	// SetScale sets the object's scale factors.
	//
	// Parameters:
	//   - sx, sy, sz: scale components
	SetScale(sx, sy, sz float32)

	// Transform returns a copy of the full transform.
	//
	// Returns:
	//   - Transform: position, rotation and scale
	Transform() Transform

	// SetTransform replaces the full transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// Version returns a counter that increments on every transform change.
	// Renderers use it to invalidate cached world-space geometry.
	//
	// Returns:
	//   - uint64: the transform version
	Version() uint64

	// ModelMatrix writes the object's column-major world matrix into out.
	//
	// Parameters:
	//   - out: destination slice (must be at least 16 elements)
	ModelMatrix(out []float32)

	// Size returns the local width and height of a plane or overlay anchor.
	//
	// Returns:
	//   - w, h: plane extents in local units
	Size() (w, h float32)

	// DoubleSided reports whether a plane can be hit from its back face.
	//
	// Returns:
	//   - bool: true if both faces are hittable
	DoubleSided() bool

	// Selectable reports whether the transform gizmo may pick this object.
	//
	// Returns:
	//   - bool: true if selectable
	Selectable() bool

	// Color returns the flat color used by the geometry renderer.
	//
	// Returns:
	//   - common.Color: the RGBA color
	Color() common.Color

	// Points returns the segment endpoints of a line object.
	//
	// Returns:
	//   - [][3]float32: world-space points, two per segment
	Points() [][3]float32

	// Model returns the Model of a model object, or nil.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// SetModel sets the Model of a model object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// Source returns the URL embedded by an overlay object.
	//
	// Returns:
	//   - string: the page URL
	Source() string

	// ElementSize returns the CSS pixel size of an overlay object's DOM element.
	//
	// Returns:
	//   - w, h: element width and height in pixels
	ElementSize() (w, h int)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured by the provided builder options.
// The object starts enabled, as a plane, with unit scale and a white color.
//
// Parameters:
//   - options: functional options to configure the GameObject
//
// Returns:
//   - GameObject: the constructed GameObject
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		kind:      KindPlane,
		transform: Transform{Scale: [3]float32{1, 1, 1}},
		color:     common.ColorWhite,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Kind() Kind {
	return g.kind
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() (x, y, z float32) {
	p := g.transform.Position
	return p[0], p[1], p[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	r := g.transform.Rotation
	return r[0], r[1], r[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	s := g.transform.Scale
	return s[0], s[1], s[2]
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.transform.Position = [3]float32{x, y, z}
	g.version++
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.transform.Rotation = [3]float32{rx, ry, rz}
	g.version++
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.transform.Scale = [3]float32{sx, sy, sz}
	g.version++
}

func (g *gameObject) Transform() Transform {
	return g.transform
}

func (g *gameObject) SetTransform(t Transform) {
	g.transform = t
	g.version++
}

func (g *gameObject) Version() uint64 {
	return g.version
}

func (g *gameObject) ModelMatrix(out []float32) {
	p, r, s := g.transform.Position, g.transform.Rotation, g.transform.Scale
	common.BuildModelMatrix(out, p[0], p[1], p[2], r[0], r[1], r[2], s[0], s[1], s[2])
}

func (g *gameObject) Size() (w, h float32) {
	return g.width, g.height
}

func (g *gameObject) DoubleSided() bool {
	return g.doubleSided
}

func (g *gameObject) Selectable() bool {
	return g.selectable
}

func (g *gameObject) Color() common.Color {
	return g.color
}

func (g *gameObject) Points() [][3]float32 {
	return g.points
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	g.version++
}

func (g *gameObject) Source() string {
	return g.source
}

func (g *gameObject) ElementSize() (w, h int) {
	return g.elementWidth, g.elementHeight
}
