package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
)

var (
	// ErrNotFound is returned when an operation names an object that is not in the scene.
	ErrNotFound = errors.New("scene: object not found")
	// ErrInvalidPairing is returned when an overlay pairing violates the 1:1 anchor/proxy rules.
	ErrInvalidPairing = errors.New("scene: invalid overlay pairing")
	// ErrNotAPlane is returned when a non-plane object is designated as the drawing surface.
	ErrNotAPlane = errors.New("scene: drawing surface must be a plane")
)

// Pairing binds a geometric anchor to the DOM overlay proxy that mirrors it.
type Pairing struct {
	Anchor game_object.GameObject
	Proxy  game_object.GameObject
}

// Scene is the store of every renderable entity: planes, overlay proxies, the loaded
// model, the drawing surface and finalized strokes. It also owns the overlay
// pairings and the camera both renderers read.
// Objects are kept in insertion order so that render passes are deterministic.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// AmbientIntensity returns the uniform light factor applied to model colors.
	AmbientIntensity() float32

	// SetAmbientIntensity sets the uniform light factor applied to model colors.
	SetAmbientIntensity(intensity float32)

	// Count returns the number of objects in the scene.
	//
	// Returns:
	//   - int: count of registered objects
	Count() int

	// Add registers a GameObject with the scene. Objects without an ID are assigned
	// the next free ID. Adding an object that is already registered is a no-op.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the ID of the object in the scene
	Add(obj game_object.GameObject) uint64

	// Get retrieves an object by ID.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil if not found
	Get(id uint64) game_object.GameObject

	// Remove deletes an object. If the object is part of an overlay pairing, its
	// partner is removed with it. Removing the drawing surface clears the designation.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - error: ErrNotFound if the object is not registered
	Remove(id uint64) error

	// Clear removes every object, pairing and the drawing surface designation.
	Clear()

	// Objects returns a snapshot of all objects in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: the registered objects
	Objects() []game_object.GameObject

	// ObjectsOfKind returns a snapshot of the objects of one kind in insertion order.
	//
	// Parameters:
	//   - kind: the kind to filter by
	//
	// Returns:
	//   - []game_object.GameObject: the matching objects
	ObjectsOfKind(kind game_object.Kind) []game_object.GameObject

	// Strokes returns the finalized strokes (line objects) in the order they were drawn.
	Strokes() []game_object.GameObject

	// Pair adds an anchor and its overlay proxy to the scene together and records the
	// 1:1 pairing between them. The anchor must be a plane and the proxy an overlay,
	// and neither may already be paired.
	//
	// Parameters:
	//   - anchor: the geometric anchor
	//   - proxy: the DOM overlay proxy
	//
	// Returns:
	//   - error: ErrInvalidPairing if the pair breaks the pairing rules
	Pair(anchor, proxy game_object.GameObject) error

	// Pairings returns a snapshot of all overlay pairings in creation order.
	Pairings() []Pairing

	// PairingFor returns the pairing an object belongs to, as anchor or proxy.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - Pairing: the pairing
	//   - bool: false if the object is not paired
	PairingFor(id uint64) (Pairing, bool)

	// SyncOverlays copies every anchor's position and rotation onto its proxy.
	// The proxy keeps its own scale, which maps CSS pixels to world units.
	//
	// Returns:
	//   - int: the number of proxies updated
	SyncOverlays() int

	// SetDrawingSurface designates the single plane that strokes are projected onto.
	// Passing nil clears the designation. The object is added to the scene if needed.
	//
	// Parameters:
	//   - obj: the plane to draw on, or nil
	//
	// Returns:
	//   - error: ErrNotAPlane if obj is not a plane
	SetDrawingSurface(obj game_object.GameObject) error

	// DrawingSurface returns the designated drawing surface, or nil.
	DrawingSurface() game_object.GameObject
}

type scene struct {
	mu     *sync.RWMutex
	name   string
	active bool
	cam    camera.Camera

	ambient float32

	registry map[uint64]game_object.GameObject
	order    []uint64
	nextID   uint64

	pairings []Pairing
	pairedBy map[uint64]int

	surface game_object.GameObject
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene viewed through the given camera.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera both renderers read (may be nil and set later)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		cam:      cam,
		ambient:  1,
		registry: make(map[uint64]game_object.GameObject),
		pairedBy: make(map[uint64]int),
		nextID:   1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) AmbientIntensity() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambient
}

func (s *scene) SetAmbientIntensity(intensity float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambient = intensity
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

// addLocked registers obj. Caller must hold s.mu write lock.
func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	if existing, ok := s.registry[obj.ID()]; ok && existing == obj {
		return obj.ID()
	}
	if obj.ID() == 0 || s.registry[obj.ID()] != nil {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.registry[obj.ID()] = obj
	s.order = append(s.order, obj.ID())
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry[id]; !ok {
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}

	ids := []uint64{id}
	if idx, ok := s.pairedBy[id]; ok {
		p := s.pairings[idx]
		ids = []uint64{p.Anchor.ID(), p.Proxy.ID()}
		s.pairings = append(s.pairings[:idx], s.pairings[idx+1:]...)
		s.reindexPairingsLocked()
	}

	for _, rid := range ids {
		if s.surface != nil && s.surface.ID() == rid {
			s.surface = nil
		}
		delete(s.registry, rid)
		for i, oid := range s.order {
			if oid == rid {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry = make(map[uint64]game_object.GameObject)
	s.order = nil
	s.pairings = nil
	s.pairedBy = make(map[uint64]int)
	s.surface = nil
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.registry[id])
	}
	return out
}

func (s *scene) ObjectsOfKind(kind game_object.Kind) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []game_object.GameObject
	for _, id := range s.order {
		if obj := s.registry[id]; obj.Kind() == kind {
			out = append(out, obj)
		}
	}
	return out
}

func (s *scene) Strokes() []game_object.GameObject {
	return s.ObjectsOfKind(game_object.KindLine)
}

func (s *scene) Pair(anchor, proxy game_object.GameObject) error {
	if anchor == nil || proxy == nil {
		return fmt.Errorf("%w: anchor and proxy are required", ErrInvalidPairing)
	}
	if anchor.Kind() != game_object.KindPlane {
		return fmt.Errorf("%w: anchor is a %s, want plane", ErrInvalidPairing, anchor.Kind())
	}
	if proxy.Kind() != game_object.KindOverlay {
		return fmt.Errorf("%w: proxy is a %s, want overlay", ErrInvalidPairing, proxy.Kind())
	}
	if anchor == proxy {
		return fmt.Errorf("%w: anchor and proxy are the same object", ErrInvalidPairing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range []game_object.GameObject{anchor, proxy} {
		if _, paired := s.pairedBy[obj.ID()]; paired && s.registry[obj.ID()] == obj {
			return fmt.Errorf("%w: object %d is already paired", ErrInvalidPairing, obj.ID())
		}
	}

	s.addLocked(anchor)
	s.addLocked(proxy)
	s.pairings = append(s.pairings, Pairing{Anchor: anchor, Proxy: proxy})
	idx := len(s.pairings) - 1
	s.pairedBy[anchor.ID()] = idx
	s.pairedBy[proxy.ID()] = idx
	return nil
}

func (s *scene) Pairings() []Pairing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Pairing(nil), s.pairings...)
}

func (s *scene) PairingFor(id uint64) (Pairing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.pairedBy[id]
	if !ok {
		return Pairing{}, false
	}
	return s.pairings[idx], true
}

func (s *scene) SyncOverlays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pairings {
		at := p.Anchor.Transform()
		pt := p.Proxy.Transform()
		if pt.Position == at.Position && pt.Rotation == at.Rotation {
			continue
		}
		pt.Position = at.Position
		pt.Rotation = at.Rotation
		p.Proxy.SetTransform(pt)
	}
	return len(s.pairings)
}

func (s *scene) SetDrawingSurface(obj game_object.GameObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if obj == nil {
		s.surface = nil
		return nil
	}
	if obj.Kind() != game_object.KindPlane {
		return fmt.Errorf("%w: got %s", ErrNotAPlane, obj.Kind())
	}
	s.addLocked(obj)
	s.surface = obj
	return nil
}

func (s *scene) DrawingSurface() game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

// reindexPairingsLocked rebuilds the object to pairing index. Caller must hold s.mu write lock.
func (s *scene) reindexPairingsLocked() {
	s.pairedBy = make(map[uint64]int, len(s.pairings)*2)
	for i, p := range s.pairings {
		s.pairedBy[p.Anchor.ID()] = i
		s.pairedBy[p.Proxy.ID()] = i
	}
}
