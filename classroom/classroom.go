// Package classroom composes the virtual classroom: the video grid with its page
// overlays, the whiteboard, the room model and the three pointer consumers that
// share the camera.
package classroom

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/controls"
	"github.com/Carmen-Shannon/oxy-classroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-classroom/engine/projection"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/Carmen-Shannon/oxy-classroom/engine/whiteboard"
	"github.com/chewxy/math32"
	"github.com/rs/zerolog"
)

// Whiteboard placement and camera defaults.
const (
	WhiteboardWidth  float32 = 29.5
	WhiteboardHeight float32 = 15

	CameraFovDegrees float32 = 75
	CameraNear       float32 = 0.01
	CameraFar        float32 = 1000

	AmbientIntensity float32 = 0.5
)

var (
	whiteboardPosition = [3]float32{-8, 8.5, -44}
	cameraEye          = [3]float32{0, 3, 5}

	// RoomRotationY turns the imported room 270 degrees about Y.
	RoomRotationY float32 = 3 * math32.Pi / 2

	// PlaneTilt tips every video plane back by 45 degrees about X.
	PlaneTilt float32 = -math32.Pi / 4
)

// Surface is one cell of the video grid: the WebGPU plane and the overlay proxy that tracks it.
type Surface struct {
	Index   int
	Plane   game_object.GameObject
	Overlay game_object.GameObject
}

// Classroom owns all application state. Nothing in it is global; every handler reaches
// shared state through this struct.
type Classroom struct {
	roomURL string
	rows    int
	cols    int
	log     zerolog.Logger

	drawModifier input.Modifiers

	viewport controls.ViewportFunc

	scene      scene.Scene
	camera     camera.Camera
	surfaces   []Surface
	whiteboard game_object.GameObject
	room       game_object.GameObject

	orbit      *controls.OrbitControls
	gizmo      *controls.TransformControls
	recorder   *whiteboard.Recorder
	dispatcher *input.Dispatcher
}

// New builds the classroom scene and wires its controls.
//
// Parameters:
//   - viewport: source of the current client rectangle of the render surface
//   - options: functional options to configure the classroom
//
// Returns:
//   - *Classroom: the classroom
//   - error: error if the room URL is invalid or a component fails to initialize
func New(viewport controls.ViewportFunc, options ...Option) (*Classroom, error) {
	c := &Classroom{
		roomURL:      "https://3dclass.daily.co/3dclass",
		rows:         3,
		cols:         4,
		log:          zerolog.Nop(),
		drawModifier: input.ModControl,
		viewport:     viewport,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.rows < 1 || c.cols < 1 {
		return nil, fmt.Errorf("grid must have at least one cell, got %dx%d", c.rows, c.cols)
	}

	c.camera = newCamera(viewport())
	c.scene = scene.NewScene("classroom", c.camera, scene.WithAmbientIntensity(AmbientIntensity))

	if err := c.buildGrid(); err != nil {
		return nil, err
	}
	if err := c.buildWhiteboard(); err != nil {
		return nil, err
	}
	if err := c.wireControls(); err != nil {
		return nil, err
	}

	c.log.Info().Int("surfaces", len(c.surfaces)).Msg("classroom ready")
	return c, nil
}

func newCamera(vp common.Viewport) camera.Camera {
	aspect := float32(1)
	if vp.Width > 0 && vp.Height > 0 {
		aspect = vp.Width / vp.Height
	}
	ctrl := camera.NewCameraController(
		camera.WithEye(cameraEye[0], cameraEye[1], cameraEye[2]),
		camera.WithTarget(0, 0, 0),
		camera.WithRadiusBounds(1, 100),
		camera.WithElevationBounds(0, math32.Pi/2-0.01),
	)
	return camera.NewCamera(
		camera.WithFov(CameraFovDegrees*math32.Pi/180),
		camera.WithAspect(aspect),
		camera.WithNear(CameraNear),
		camera.WithFar(CameraFar),
		camera.WithController(ctrl),
	)
}

func (c *Classroom) buildGrid() error {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			index := row*c.cols + col
			pos := GridPosition(row, col, c.rows, c.cols)

			src, err := OverlayURL(c.roomURL, index)
			if err != nil {
				return err
			}

			plane := game_object.NewGameObject(
				game_object.WithName(fmt.Sprintf("video-%d", index)),
				game_object.AsPlane(PlaneWidth, PlaneHeight, true),
				game_object.WithColor(common.ColorBlue),
				game_object.WithPosition(pos[0], pos[1], pos[2]),
				game_object.WithRotation(PlaneTilt, 0, 0),
				game_object.WithSelectable(true),
			)
			proxy := game_object.NewGameObject(
				game_object.WithName(fmt.Sprintf("overlay-%d", index)),
				game_object.AsOverlay(src, ElementWidth, ElementHeight),
				game_object.WithScale(ProxyScale, ProxyScale, ProxyScale),
			)
			if err := c.scene.Pair(plane, proxy); err != nil {
				return fmt.Errorf("pairing surface %d: %w", index, err)
			}
			c.surfaces = append(c.surfaces, Surface{Index: index, Plane: plane, Overlay: proxy})
		}
	}
	c.scene.SyncOverlays()
	return nil
}

func (c *Classroom) buildWhiteboard() error {
	c.whiteboard = game_object.NewGameObject(
		game_object.WithName("whiteboard"),
		game_object.AsPlane(WhiteboardWidth, WhiteboardHeight, false),
		game_object.WithColor(common.ColorWhite),
		game_object.WithPosition(whiteboardPosition[0], whiteboardPosition[1], whiteboardPosition[2]),
	)
	c.scene.Add(c.whiteboard)
	if err := c.scene.SetDrawingSurface(c.whiteboard); err != nil {
		return fmt.Errorf("designating whiteboard: %w", err)
	}
	return nil
}

func (c *Classroom) wireControls() error {
	c.orbit = controls.NewOrbitControls(c.camera, c.viewport,
		controls.WithDamping(0.05),
		controls.WithOrbitLogger(c.log),
	)

	picker := projection.NewPicker(c.camera, projection.ViewportFunc(c.viewport))
	c.gizmo = controls.NewTransformControls(picker, c.planes,
		controls.WithGizmoEnabled(false),
		controls.WithGizmoLogger(c.log),
	)
	c.gizmo.OnDraggingChanged(func(dragging bool) {
		c.orbit.SetEnabled(!dragging)
	})
	c.gizmo.OnChange(func(obj game_object.GameObject) {
		c.scene.SyncOverlays()
	})

	projector := projection.NewProjector(c.camera, projection.ViewportFunc(c.viewport), c.scene.DrawingSurface)
	rec, err := whiteboard.NewRecorder(projector, c.scene, c.orbit,
		whiteboard.WithModifier(c.drawModifier),
		whiteboard.WithLogger(c.log),
	)
	if err != nil {
		return fmt.Errorf("creating stroke recorder: %w", err)
	}
	c.recorder = rec

	c.dispatcher = input.NewDispatcher(c.recorder, c.gizmo, c.orbit)
	return nil
}

func (c *Classroom) planes() []game_object.GameObject {
	out := make([]game_object.GameObject, len(c.surfaces))
	for i, s := range c.surfaces {
		out[i] = s.Plane
	}
	return out
}

// HandleEvent routes one input event through recorder, gizmo and orbit, in that order.
//
// Parameters:
//   - ev: the event
//
// Returns:
//   - bool: true if a consumer took the event
func (c *Classroom) HandleEvent(ev input.Event) bool {
	return c.dispatcher.Dispatch(ev)
}

// Tick advances damped navigation. It runs once per frame before the camera update.
func (c *Classroom) Tick(dt float32) {
	c.orbit.Update(dt)
}

// LoadRoom starts the asynchronous room model load. The frame loop keeps running; the
// model appears when its Result is delivered through the loader's dispatch.
//
// Parameters:
//   - ctx: bounds the fetch of remote sources
//   - l: the loader, built with the engine's Post as its dispatch
//   - source: the GLB path or URL
func (c *Classroom) LoadRoom(ctx context.Context, l loader.Loader, source string) {
	c.log.Info().Str("source", source).Msg("loading room model")
	l.LoadAsync(ctx, source,
		func(percent float64) {
			c.log.Info().Str("source", source).Msgf("%.0f%% loaded", percent)
		},
		func(res loader.Result) { c.ApplyModel(res) },
	)
}

// ApplyModel adds a loaded room model to the scene. A failed load is logged and the
// classroom carries on without it.
//
// Parameters:
//   - res: the load result
//
// Returns:
//   - bool: true if a model was added
func (c *Classroom) ApplyModel(res loader.Result) bool {
	if res.Err != nil || res.Model == nil {
		c.log.Error().Err(res.Err).Str("source", res.Source).Msg("an error happened while loading the room model")
		return false
	}
	if c.room != nil {
		_ = c.scene.Remove(c.room.ID())
	}

	c.room = game_object.NewGameObject(
		game_object.WithName("room"),
		game_object.AsModel(res.Model),
		game_object.WithRotation(0, RoomRotationY, 0),
	)
	c.scene.Add(c.room)
	c.log.Info().Str("source", res.Source).Int("triangles", res.Model.TriangleCount()).Msg("room model added")
	return true
}

// Scene returns the classroom scene.
func (c *Classroom) Scene() scene.Scene { return c.scene }

// Camera returns the shared camera.
func (c *Classroom) Camera() camera.Camera { return c.camera }

// Surfaces returns the video grid in index order.
func (c *Classroom) Surfaces() []Surface { return c.surfaces }

// Whiteboard returns the drawing surface.
func (c *Classroom) Whiteboard() game_object.GameObject { return c.whiteboard }

// Room returns the room model object, or nil until a load succeeds.
func (c *Classroom) Room() game_object.GameObject { return c.room }

// Orbit returns the navigation controls.
func (c *Classroom) Orbit() *controls.OrbitControls { return c.orbit }

// Gizmo returns the transform gizmo.
func (c *Classroom) Gizmo() *controls.TransformControls { return c.gizmo }

// Recorder returns the whiteboard stroke recorder.
func (c *Classroom) Recorder() *whiteboard.Recorder { return c.recorder }
