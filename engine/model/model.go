package model

import "github.com/chewxy/math32"

// model is the implementation of the Model interface.
type model struct {
	name   string
	meshes []Mesh
	min    [3]float32
	max    [3]float32
}

// Model defines the interface for a loaded 3D model.
// A Model is a CPU-side container of model-space meshes produced by the Loader.
// The geometry renderer places it in the world through the owning GameObject's transform.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves every mesh of the model in import order.
	//
	// Returns:
	//   - []Mesh: the model meshes
	Meshes() []Mesh

	// Bounds retrieves the axis-aligned bounding box of all mesh positions.
	//
	// Returns:
	//   - min: the smallest corner
	//   - max: the largest corner
	Bounds() (min, max [3]float32)

	// BoundingRadius retrieves the radius of the sphere around the bounds center
	// that encloses the whole model.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// TriangleCount retrieves the total number of triangles across all meshes.
	//
	// Returns:
	//   - int: the triangle count
	TriangleCount() int
}

var _ Model = &model{}

// NewModel creates a new Model configured by the provided builder options.
// Bounds are computed from the meshes after all options are applied.
//
// Parameters:
//   - options: functional options to configure the Model
//
// Returns:
//   - Model: the constructed Model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	m.computeBounds()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Bounds() (min, max [3]float32) {
	return m.min, m.max
}

func (m *model) BoundingRadius() float32 {
	dx := (m.max[0] - m.min[0]) / 2
	dy := (m.max[1] - m.min[1]) / 2
	dz := (m.max[2] - m.min[2]) / 2
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (m *model) TriangleCount() int {
	total := 0
	for _, mesh := range m.meshes {
		total += mesh.TriangleCount()
	}
	return total
}

func (m *model) computeBounds() {
	first := true
	for _, mesh := range m.meshes {
		for _, p := range mesh.Positions {
			if first {
				m.min, m.max = p, p
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				m.min[i] = math32.Min(m.min[i], p[i])
				m.max[i] = math32.Max(m.max[i], p[i])
			}
		}
	}
}
