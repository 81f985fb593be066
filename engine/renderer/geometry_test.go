package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/model"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryCache_FlattensByKind(t *testing.T) {
	cam := testCamera()
	s := scene.NewScene("test", cam, scene.WithAmbientIntensity(0.5))

	s.Add(game_object.NewGameObject(
		game_object.AsPlane(2, 2, false),
		game_object.WithPosition(1, 0, 0),
		game_object.WithColor(common.ColorWhite),
	))
	s.Add(game_object.NewGameObject(
		game_object.AsLine([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 1, 0}}),
		game_object.WithColor(common.ColorBlack),
	))
	tri := model.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
		Color:     common.Color{1, 0.5, 0, 1},
	}
	s.Add(game_object.NewGameObject(game_object.AsModel(model.NewModel(model.WithMeshes(tri)))))
	s.Add(game_object.NewGameObject(game_object.AsOverlay("about:blank", 100, 100)))

	c := newGeometryCache()
	triangles, lines := c.Build(s, cam)

	require.Len(t, triangles, 9)
	assert.Equal(t, [3]float32{0, -1, 0}, triangles[0].Position)
	assert.Equal(t, [3]float32{2, 1, 0}, triangles[2].Position)
	assert.Equal(t, common.Color{0.5, 0.25, 0, 1}, triangles[6].Color)

	require.Len(t, lines, 4)
	assert.Equal(t, [3]float32{1, 1, 0}, lines[3].Position)
	assert.Equal(t, common.ColorBlack, lines[0].Color)
}

func TestGeometryCache_RebuildsOnVersionAndPrunes(t *testing.T) {
	cam := testCamera()
	s := scene.NewScene("test", cam)
	plane := game_object.NewGameObject(game_object.AsPlane(2, 2, false))
	id := s.Add(plane)

	c := newGeometryCache()
	triangles, _ := c.Build(s, cam)
	assert.Equal(t, float32(-1), triangles[0].Position[0])

	plane.SetPosition(3, 0, 0)
	triangles, _ = c.Build(s, cam)
	assert.Equal(t, float32(2), triangles[0].Position[0])

	require.NoError(t, s.Remove(id))
	triangles, _ = c.Build(s, cam)
	assert.Empty(t, triangles)
	assert.Empty(t, c.entries)
}

func TestGeometryCache_CullsOutsideFrustum(t *testing.T) {
	cam := testCamera()
	s := scene.NewScene("test", cam)
	s.Add(game_object.NewGameObject(game_object.AsPlane(2, 2, true), game_object.WithPosition(0, 0, 50)))
	s.Add(game_object.NewGameObject(game_object.AsPlane(2, 2, true), game_object.WithEnabled(false)))

	c := newGeometryCache()
	triangles, _ := c.Build(s, cam)
	assert.Empty(t, triangles)
	assert.Equal(t, 1, c.culled)
}

func TestMarshalVertices(t *testing.T) {
	buf := MarshalVertices([]Vertex{{Position: [3]float32{1, 2, 3}, Color: common.Color{0.5, 0.25, 0, 1}}})
	require.Len(t, buf, VertexStride)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[24:])))
}
