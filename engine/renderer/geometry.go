package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
)

// Vertex is one world-space vertex of the flattened geometry stream.
type Vertex struct {
	Position [3]float32
	Color    common.Color
}

// VertexStride is the byte size of a marshalled Vertex (float32x3 + float32x4).
const VertexStride = 28

// MarshalVertices packs vertices into the little-endian layout the vertex buffer expects.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*VertexStride bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		o := i * VertexStride
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[o+j*4:], math.Float32bits(v.Position[j]))
		}
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[o+12+j*4:], math.Float32bits(v.Color[j]))
		}
	}
	return buf
}

type cachedGeometry struct {
	version   uint64
	ambient   float32
	triangles []Vertex
	lines     []Vertex
	center    [3]float32
	radius    float32
}

// geometryCache flattens scene entities into triangle-list and line-list vertex
// streams. Each entity is re-flattened only when its Version changes.
type geometryCache struct {
	entries map[uint64]*cachedGeometry
	seen    map[uint64]bool

	triangles []Vertex
	lines     []Vertex
	culled    int
}

func newGeometryCache() *geometryCache {
	return &geometryCache{
		entries: make(map[uint64]*cachedGeometry),
		seen:    make(map[uint64]bool),
	}
}

// Build returns the vertex streams for every enabled entity of s that may be
// visible from cam. Overlay proxies have no geometry. The returned slices are
// reused by the next call.
func (c *geometryCache) Build(s scene.Scene, cam camera.Camera) (triangles, lines []Vertex) {
	c.triangles = c.triangles[:0]
	c.lines = c.lines[:0]
	c.culled = 0
	clear(c.seen)

	vp := cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(vp[:])
	ambient := s.AmbientIntensity()

	for _, obj := range s.Objects() {
		if !obj.Enabled() || obj.Kind() == game_object.KindOverlay {
			continue
		}
		id := obj.ID()
		c.seen[id] = true

		entry, ok := c.entries[id]
		if !ok || entry.version != obj.Version() || entry.ambient != ambient {
			entry = flatten(obj, ambient)
			c.entries[id] = entry
		}
		if entry.radius > 0 && !frustum.IntersectsSphere(entry.center, entry.radius) {
			c.culled++
			continue
		}
		c.triangles = append(c.triangles, entry.triangles...)
		c.lines = append(c.lines, entry.lines...)
	}

	for id := range c.entries {
		if !c.seen[id] {
			delete(c.entries, id)
		}
	}
	return c.triangles, c.lines
}

// flatten converts one entity into world-space vertices and a bounding sphere.
func flatten(obj game_object.GameObject, ambient float32) *cachedGeometry {
	var m [16]float32
	obj.ModelMatrix(m[:])
	entry := &cachedGeometry{version: obj.Version(), ambient: ambient}

	switch obj.Kind() {
	case game_object.KindPlane:
		w, h := obj.Size()
		corners := [4][3]float32{
			{-w / 2, -h / 2, 0},
			{w / 2, -h / 2, 0},
			{w / 2, h / 2, 0},
			{-w / 2, h / 2, 0},
		}
		color := obj.Color()
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			entry.triangles = append(entry.triangles, Vertex{
				Position: common.TransformPoint(m[:], corners[i]),
				Color:    color,
			})
		}
	case game_object.KindLine:
		color := obj.Color()
		for _, p := range obj.Points() {
			entry.lines = append(entry.lines, Vertex{
				Position: common.TransformPoint(m[:], p),
				Color:    color,
			})
		}
	case game_object.KindModel:
		mdl := obj.Model()
		if mdl == nil {
			return entry
		}
		for _, mesh := range mdl.Meshes() {
			color := shade(mesh.Color, ambient)
			for i := range mesh.TriangleCount() {
				a, b, c := mesh.Triangle(i)
				entry.triangles = append(entry.triangles,
					Vertex{Position: common.TransformPoint(m[:], a), Color: color},
					Vertex{Position: common.TransformPoint(m[:], b), Color: color},
					Vertex{Position: common.TransformPoint(m[:], c), Color: color},
				)
			}
		}
	}

	entry.center, entry.radius = boundingSphere(entry.triangles, entry.lines)
	return entry
}

// shade scales the color's rgb by the ambient light intensity.
func shade(c common.Color, ambient float32) common.Color {
	return common.Color{c[0] * ambient, c[1] * ambient, c[2] * ambient, c[3]}
}

func boundingSphere(sets ...[]Vertex) (center [3]float32, radius float32) {
	var lo, hi [3]float32
	first := true
	for _, set := range sets {
		for _, v := range set {
			if first {
				lo, hi = v.Position, v.Position
				first = false
				continue
			}
			for k := range 3 {
				lo[k] = min(lo[k], v.Position[k])
				hi[k] = max(hi[k], v.Position[k])
			}
		}
	}
	if first {
		return center, 0
	}
	center = common.Scale3(common.Add3(lo, hi), 0.5)
	// Degenerate extents still need a positive radius so they are frustum tested.
	radius = max(common.Length3(common.Sub3(hi, center)), 1e-3)
	return center, radius
}
