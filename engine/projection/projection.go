// Package projection turns 2D pointer positions into 3D points by casting rays
// from the camera through the render viewport.
package projection

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/chewxy/math32"
)

const parallelEpsilon = 1e-6

// ViewportFunc reports the current client rectangle of the render surface.
type ViewportFunc func() common.Viewport

// SurfaceFunc reports the current drawing surface, or nil when none is designated.
type SurfaceFunc func() game_object.GameObject

// Hit is a ray/plane intersection.
type Hit struct {
	Object   game_object.GameObject
	Point    [3]float32
	Distance float32
}

// Projector casts pointer rays onto the single designated drawing surface.
// It holds no state of its own beyond its sources, so every query reflects the
// camera and surface as they are at the moment of the call.
type Projector struct {
	cam      camera.Camera
	viewport ViewportFunc
	surface  SurfaceFunc
}

// NewProjector creates a Projector.
//
// Parameters:
//   - cam: the camera rays are cast from
//   - viewport: source of the current viewport client rectangle
//   - surface: source of the current drawing surface
//
// Returns:
//   - *Projector: the projector
func NewProjector(cam camera.Camera, viewport ViewportFunc, surface SurfaceFunc) *Projector {
	return &Projector{cam: cam, viewport: viewport, surface: surface}
}

// Project casts the pointer at client position (x, y) onto the drawing surface.
//
// Parameters:
//   - x, y: pointer position in window client coordinates
//
// Returns:
//   - [3]float32: the world-space hit point
//   - bool: false on a miss, in which case the point is the zero vector
func (p *Projector) Project(x, y float32) ([3]float32, bool) {
	surface := p.surface()
	if surface == nil {
		return [3]float32{}, false
	}
	return p.ProjectOnto(surface, x, y)
}

// ProjectOnto casts the pointer onto target. Only the designated drawing surface is
// a valid target; any other object yields a miss.
//
// Parameters:
//   - target: the object to project onto
//   - x, y: pointer position in window client coordinates
//
// Returns:
//   - [3]float32: the world-space hit point
//   - bool: false on a miss
func (p *Projector) ProjectOnto(target game_object.GameObject, x, y float32) ([3]float32, bool) {
	surface := p.surface()
	if target == nil || surface == nil || target != surface {
		return [3]float32{}, false
	}
	ray, ok := PointerRay(p.cam, p.viewport(), x, y)
	if !ok {
		return [3]float32{}, false
	}
	hit, ok := IntersectPlane(ray, surface)
	if !ok {
		return [3]float32{}, false
	}
	return hit.Point, true
}

// ToScreen maps a world point to window client coordinates.
//
// Parameters:
//   - world: the point to project
//
// Returns:
//   - x, y: the client position
//   - ok: false when the point is behind the camera or the viewport is empty
func (p *Projector) ToScreen(world [3]float32) (x, y float32, ok bool) {
	return ToScreen(p.cam, p.viewport(), world)
}

// PointerRay builds the world-space ray under a client-space pointer position.
//
// Parameters:
//   - cam: the camera to cast from
//   - vp: the viewport client rectangle
//   - x, y: pointer position in window client coordinates
//
// Returns:
//   - common.Ray: the ray
//   - bool: false if the viewport is empty
func PointerRay(cam camera.Camera, vp common.Viewport, x, y float32) (common.Ray, bool) {
	if cam == nil || vp.Empty() {
		return common.Ray{}, false
	}
	ndcX, ndcY := vp.NDC(x, y)
	return cam.RayFromNDC(ndcX, ndcY), true
}

// ToScreen maps a world point through the camera into window client coordinates.
func ToScreen(cam camera.Camera, vp common.Viewport, world [3]float32) (x, y float32, ok bool) {
	if cam == nil || vp.Empty() {
		return 0, 0, false
	}
	vpm := cam.ViewProjectionMatrix()
	clip := common.TransformVec4(vpm[:], [4]float32{world[0], world[1], world[2], 1})
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	x = (ndcX+1)/2*vp.Width + vp.Left
	y = (1-ndcY)/2*vp.Height + vp.Top
	return x, y, true
}

// IntersectPlane intersects a ray with a plane object bounded by its Size in local
// space. Single-sided planes only report hits on their front (+Z) face.
//
// Parameters:
//   - ray: the world-space ray
//   - plane: a KindPlane object
//
// Returns:
//   - Hit: the intersection
//   - bool: false if the ray misses, runs parallel or hits behind its origin
func IntersectPlane(ray common.Ray, plane game_object.GameObject) (Hit, bool) {
	if plane == nil || plane.Kind() != game_object.KindPlane {
		return Hit{}, false
	}

	var model, inv [16]float32
	plane.ModelMatrix(model[:])
	if !common.Invert4(inv[:], model[:]) {
		return Hit{}, false
	}

	localOrigin := common.TransformPoint(inv[:], ray.Origin)
	localDir := common.TransformVector(inv[:], ray.Direction)

	if math32.Abs(localDir[2]) < parallelEpsilon {
		return Hit{}, false
	}
	if !plane.DoubleSided() && localDir[2] > 0 {
		return Hit{}, false
	}

	// The affine transform preserves the ray parameter, so t is valid in world space too.
	t := -localOrigin[2] / localDir[2]
	if t < 0 {
		return Hit{}, false
	}

	w, h := plane.Size()
	lx := localOrigin[0] + localDir[0]*t
	ly := localOrigin[1] + localDir[1]*t
	if math32.Abs(lx) > w/2 || math32.Abs(ly) > h/2 {
		return Hit{}, false
	}

	point := ray.At(t)
	return Hit{
		Object:   plane,
		Point:    point,
		Distance: common.Length3(common.Sub3(point, ray.Origin)),
	}, true
}

// Picker finds the nearest plane under the pointer among a candidate set. The
// transform gizmo uses it to select what to drag.
type Picker struct {
	cam      camera.Camera
	viewport ViewportFunc
}

// NewPicker creates a Picker.
//
// Parameters:
//   - cam: the camera rays are cast from
//   - viewport: source of the current viewport client rectangle
//
// Returns:
//   - *Picker: the picker
func NewPicker(cam camera.Camera, viewport ViewportFunc) *Picker {
	return &Picker{cam: cam, viewport: viewport}
}

// Pick returns every candidate plane hit by the pointer ray, nearest first.
//
// Parameters:
//   - x, y: pointer position in window client coordinates
//   - candidates: objects to test; non-planes are skipped
//
// Returns:
//   - []Hit: hits sorted by distance, empty on a miss
func (p *Picker) Pick(x, y float32, candidates []game_object.GameObject) []Hit {
	ray, ok := PointerRay(p.cam, p.viewport(), x, y)
	if !ok {
		return nil
	}
	var hits []Hit
	for _, obj := range candidates {
		if obj == nil || !obj.Enabled() {
			continue
		}
		if hit, ok := IntersectPlane(ray, obj); ok {
			hits = append(hits, hit)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// Ray returns the pointer ray for client position (x, y).
func (p *Picker) Ray(x, y float32) (common.Ray, bool) {
	return PointerRay(p.cam, p.viewport(), x, y)
}
