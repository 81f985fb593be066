package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/chewxy/math32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Supports both orbit and planar controls simultaneously. Orbit methods modify
// spherical coordinates and recompute position; planar methods translate both
// position and target along local camera axes, preserving the orbit relationship.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// eye is an initial world position resolved into spherical coordinates after options apply
	eye *[3]float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with sensible defaults.
// The returned controller supports both orbit and planar controls simultaneously.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:    10.0,
		azimuth:   0.0,
		elevation: math32.Pi / 6,

		minRadius:    1.0,
		maxRadius:    100.0,
		minElevation: 0.0,
		maxElevation: math32.Pi/2 - 0.01,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.eye != nil {
		cc.sphericalFromPosition(*cc.eye)
		cc.eye = nil
	}
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

// sphericalFromPosition derives radius, azimuth and elevation from a world position
// relative to the current target. Caller must hold the mutex.
func (cc *cameraControllerImpl) sphericalFromPosition(p [3]float32) {
	offset := common.Sub3(p, cc.target)
	r := common.Length3(offset)
	if r < 1e-8 {
		return
	}
	cc.radius = r
	cc.azimuth = math32.Atan2(offset[0], offset[2])
	cc.elevation = math32.Asin(common.Clamp(offset[1]/r, -1, 1))
}

// localAxes computes the camera's local coordinate axes consistent with the LookAt matrix.
// Returns right (rx,ry,rz), up (ux,uy,uz), and forward (fx,fy,fz) vectors.
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (rx, ry, rz, ux, uy, uz, fx, fy, fz float32) {
	// backward = normalize(position - target), matching LookAt's z-axis
	bx := cc.position[0] - cc.target[0]
	by := cc.position[1] - cc.target[1]
	bz := cc.position[2] - cc.target[2]
	bLen := math32.Sqrt(bx*bx + by*by + bz*bz)
	if bLen < 1e-8 {
		return
	}
	bx /= bLen
	by /= bLen
	bz /= bLen

	// right = normalize(cross(worldUp, backward)) where worldUp = (0, 1, 0)
	// cross((0,1,0), (bx,by,bz)) = (1*bz - 0*by, 0*bx - 0*bz, 0*by - 1*bx) = (bz, 0, -bx)
	rx = bz
	rz = -bx
	rLen := math32.Sqrt(rx*rx + rz*rz)
	if rLen < 1e-8 {
		return
	}
	rx /= rLen
	rz /= rLen

	// up = cross(backward, right), matching LookAt's y-axis
	ux = by*rz - bz*ry
	uy = bz*rx - bx*rz
	uz = bx*ry - by*rx

	// forward = -backward
	fx = -bx
	fy = -by
	fz = -bz
	return
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.sphericalFromPosition([3]float32{x, y, z})
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[0] = x
	cc.target[1] = y
	cc.target[2] = z
	cc.updatePosition()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = common.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) Rotate(deltaAzimuth, deltaElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += deltaAzimuth
	cc.elevation = common.Clamp(cc.elevation+deltaElevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	// the right axis is horizontal while world up is +Y
	rx, _, rz, _, _, _, _, _, _ := cc.localAxes()
	cc.target[0] += rx * delta
	cc.target[2] += rz * delta
	cc.position[0] += rx * delta
	cc.position[2] += rz * delta
}

func (cc *cameraControllerImpl) PanGround(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	_, _, _, _, _, _, fx, _, fz := cc.localAxes()
	l := math32.Sqrt(fx*fx + fz*fz)
	if l < 1e-8 {
		return
	}
	offset := delta / l

	cc.target[0] += fx * offset
	cc.target[2] += fz * offset
	cc.position[0] += fx * offset
	cc.position[2] += fz * offset
}
