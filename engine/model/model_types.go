package model

import "github.com/Carmen-Shannon/oxy-classroom/common"

// Mesh is one triangle list of a model with positions already baked into model space.
// Node hierarchy transforms are applied at import, so a Mesh never carries its own transform.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Indices   []uint32
	Color     common.Color
}

// TriangleCount returns the number of triangles described by the mesh indices.
// Meshes without indices are treated as a flat triangle list over Positions.
func (m Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the three model-space corners of triangle i.
func (m Mesh) Triangle(i int) (a, b, c [3]float32) {
	if len(m.Indices) > 0 {
		return m.Positions[m.Indices[i*3]], m.Positions[m.Indices[i*3+1]], m.Positions[m.Indices[i*3+2]]
	}
	return m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]
}
