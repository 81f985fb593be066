package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix                  [16]float32
	projectionMatrix            [16]float32
	viewProjectionMatrix        [16]float32
	inverseViewProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
// The geometry renderer, the overlay renderer and the pointer ray caster all read
// the same Camera, so one Update per frame keeps them in agreement.
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: the up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: the near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: the far plane distance
	Far() float32

	// Position returns the camera's world position as reported by its controller.
	//
	// Returns:
	//   - [3]float32: the eye position, or the origin without a controller
	Position() [3]float32

	// ViewMatrix returns the most recently computed view matrix.
	//
	// Returns:
	//   - [16]float32: the column-major view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the most recently computed projection matrix.
	//
	// Returns:
	//   - [16]float32: the column-major projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - [16]float32: the column-major view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewProjectionMatrix returns the inverse of projection * view, used to
	// unproject normalized device coordinates back into world space.
	//
	// Returns:
	//   - [16]float32: the column-major inverse view-projection matrix
	InverseViewProjectionMatrix() [16]float32

	// RayFromNDC builds a world-space ray from the eye through the given normalized
	// device coordinates.
	//
	// Parameters:
	//   - ndcX, ndcY: the normalized device coordinates in [-1, 1]
	//
	// Returns:
	//   - common.Ray: the ray with a unit direction
	RayFromNDC(ndcX, ndcY float32) common.Ray

	// Controller returns the camera's attached controller.
	//
	// Returns:
	//   - CameraController: the controller or nil
	Controller() CameraController

	// Update recomputes all matrices from the controller's current position and target.
	Update()

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: the up vector components
	SetUp(x, y, z float32)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: the field of view
	SetFov(fov float32)

	// SetAspect sets the viewport aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: the near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: the far plane distance
	SetFar(far float32)

	// SetController attaches a controller.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera configured by the provided builder options.
// Defaults: up (0,1,0), 45° fov, aspect 1, near 0.1, far 100.
//
// Parameters:
//   - options: functional options to configure the Camera
//
// Returns:
//   - Camera: the constructed Camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                          &sync.Mutex{},
		up:                          [3]float32{0, 1, 0},
		fov:                         45.0 * (math32.Pi / 180.0), // radians
		aspect:                      1.0,
		near:                        0.1,
		far:                         100.0,
		viewMatrix:                  [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix:            [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		viewProjectionMatrix:        [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		inverseViewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return [3]float32{}
	}
	x, y, z := c.controller.Position()
	return [3]float32{x, y, z}
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjectionMatrix
}

func (c *cameraImpl) RayFromNDC(ndcX, ndcY float32) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	var origin [3]float32
	if c.controller != nil {
		x, y, z := c.controller.Position()
		origin = [3]float32{x, y, z}
	}
	// Direction comes from the near and far plane points; a point close to the eye
	// leaves too few float32 bits for the subtraction.
	near := common.TransformPoint(c.inverseViewProjectionMatrix[:], [3]float32{ndcX, ndcY, 0})
	far := common.TransformPoint(c.inverseViewProjectionMatrix[:], [3]float32{ndcX, ndcY, 1})
	return common.Ray{
		Origin:    origin,
		Direction: common.Normalize3(common.Sub3(far, near)),
	}
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recomputes view, projection and their combinations. Caller must hold c.mu.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}

	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseViewProjectionMatrix[:], c.viewProjectionMatrix[:])
}
