package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewModelComputesBounds(t *testing.T) {
	m := NewModel(
		WithName("room"),
		WithMeshes(
			Mesh{Positions: [][3]float32{{-1, 0, 0}, {1, 2, 0}, {0, 0, 3}}, Indices: []uint32{0, 1, 2}},
			Mesh{Positions: [][3]float32{{4, -2, 1}, {0, 0, 0}, {0, 1, 0}}},
		),
	)

	min, max := m.Bounds()
	assert.Equal(t, [3]float32{-1, -2, 0}, min)
	assert.Equal(t, [3]float32{4, 2, 3}, max)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, "room", m.Name())
	assert.Greater(t, m.BoundingRadius(), float32(3))
}

func TestMeshTriangleUsesIndices(t *testing.T) {
	mesh := Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{2, 1, 0},
	}
	a, b, c := mesh.Triangle(0)
	assert.Equal(t, [3]float32{0, 1, 0}, a)
	assert.Equal(t, [3]float32{1, 0, 0}, b)
	assert.Equal(t, [3]float32{0, 0, 0}, c)
}

func TestEmptyModel(t *testing.T) {
	m := NewModel()
	min, max := m.Bounds()
	assert.Equal(t, [3]float32{}, min)
	assert.Equal(t, [3]float32{}, max)
	assert.Zero(t, m.TriangleCount())
}
