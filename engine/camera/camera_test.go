package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontCamera() Camera {
	return NewCamera(
		WithFov(math32.Pi/2),
		WithController(NewCameraController(
			WithRadiusBounds(1, 100),
			WithElevationBounds(-1, 1),
			WithEye(0, 0, 10),
		)),
	)
}

func TestWithEyeDerivesSphericalCoordinates(t *testing.T) {
	cc := NewCameraController(WithEye(0, 3, 5), WithElevationBounds(0, math32.Pi/2-0.01))

	assert.InDelta(t, math32.Sqrt(34), cc.Radius(), 1e-5)
	assert.InDelta(t, 0, cc.Azimuth(), 1e-6)
	assert.InDelta(t, math32.Atan2(3, 5), cc.Elevation(), 1e-5)

	x, y, z := cc.Position()
	assert.InDelta(t, 0, x, 1e-4)
	assert.InDelta(t, 3, y, 1e-4)
	assert.InDelta(t, 5, z, 1e-4)
}

func TestControllerRespectsBounds(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(1, 100), WithElevationBounds(0, math32.Pi/2))

	cc.SetRadius(500)
	assert.Equal(t, float32(100), cc.Radius())
	cc.SetRadius(0.1)
	assert.Equal(t, float32(1), cc.Radius())

	cc.Rotate(0.5, -3)
	assert.Equal(t, float32(0), cc.Elevation(), "camera never goes below the ground plane")
	cc.Rotate(0, 10)
	assert.Equal(t, math32.Pi/2, cc.Elevation())
}

func TestPanGroundKeepsHeight(t *testing.T) {
	cc := NewCameraController(WithEye(0, 3, 5))
	_, y0, z0 := cc.Position()

	cc.PanGround(2)
	_, y1, z1 := cc.Position()
	assert.InDelta(t, y0, y1, 1e-5)
	assert.InDelta(t, z0-2, z1, 1e-4)

	_, ty, tz := cc.Target()
	assert.Equal(t, float32(0), ty)
	assert.InDelta(t, -2, tz, 1e-4)
}

func TestRayFromNDCCenterLooksAtTarget(t *testing.T) {
	cam := frontCamera()
	ray := cam.RayFromNDC(0, 0)

	assert.InDelta(t, 10, ray.Origin[2], 1e-4)
	assert.InDelta(t, 0, ray.Direction[0], 1e-4)
	assert.InDelta(t, 0, ray.Direction[1], 1e-4)
	assert.InDelta(t, -1, ray.Direction[2], 1e-4)
}

func TestRayFromNDCCorner(t *testing.T) {
	cam := frontCamera()
	// 90° fov with aspect 1: the top-right corner ray leaves at 45° on both axes.
	ray := cam.RayFromNDC(1, 1)
	hit := ray.At(10 / -ray.Direction[2])

	assert.InDelta(t, 10, hit[0], 1e-3)
	assert.InDelta(t, 10, hit[1], 1e-3)
	assert.InDelta(t, 0, hit[2], 1e-3)
}

func TestRayFromNDCKeepsPrecisionWithSmallNear(t *testing.T) {
	cam := NewCamera(
		WithFov(75*math32.Pi/180),
		WithAspect(800.0/600.0),
		WithNear(0.01),
		WithFar(1000),
		WithController(NewCameraController(
			WithEye(0, 3, 5),
			WithElevationBounds(0, math32.Pi/2-0.01),
		)),
	)
	world := [3]float32{-8, 8.5, -44}

	vp := cam.ViewProjectionMatrix()
	clip := common.TransformVec4(vp[:], [4]float32{world[0], world[1], world[2], 1})
	require.Greater(t, clip[3], float32(0))
	ray := cam.RayFromNDC(clip[0]/clip[3], clip[1]/clip[3])

	// distance from the world point to the ray
	toPoint := common.Sub3(world, ray.Origin)
	along := common.Dot3(toPoint, ray.Direction)
	miss := common.Length3(common.Sub3(toPoint, common.Scale3(ray.Direction, along)))
	assert.Less(t, miss, float32(1e-3))
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	cam := frontCamera()
	u := NewGPUCameraUniform(cam)
	buf := u.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, math.Float32bits(10), binary.LittleEndian.Uint32(buf[72:]))
}
