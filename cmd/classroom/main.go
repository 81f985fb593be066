// Command classroom opens the virtual classroom window and serves the overlay host page.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-classroom/classroom"
	"github.com/Carmen-Shannon/oxy-classroom/engine"
	"github.com/Carmen-Shannon/oxy-classroom/engine/config"
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/Carmen-Shannon/oxy-classroom/engine/loader"
	"github.com/Carmen-Shannon/oxy-classroom/engine/logging"
	"github.com/Carmen-Shannon/oxy-classroom/engine/overlay"
	"github.com/Carmen-Shannon/oxy-classroom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-classroom/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./"+config.DefaultFile+" if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log := logging.New("info", os.Stderr)
		log.Fatal().Err(err).Msg("loading configuration")
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithMinWidth(320),
		window.WithMinHeight(200),
	)

	presentMode, err := renderer.ParsePresentMode(cfg.Render.PresentMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid present mode")
	}
	msaa, err := renderer.ParseMSAASampleCount(cfg.Render.MSAA)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid msaa sample count")
	}
	geometry, err := renderer.NewWGPUGeometryRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Render.SoftwareRenderer),
		renderer.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("creating geometry renderer")
	}

	hub := overlay.NewHub(overlay.WithHubLogger(log))
	go func() {
		if err := hub.ListenAndServe(ctx, cfg.Overlay.Listen); err != nil {
			log.Error().Err(err).Msg("overlay host stopped")
		}
	}()
	vp := win.Viewport()
	pages := overlay.NewRenderer(hub, int(vp.Width), int(vp.Height), overlay.WithRendererLogger(log))
	pair := renderer.NewPair(geometry, pages, renderer.WithPairLogger(log))

	drawModifier, err := input.ParseModifier(cfg.Whiteboard.Modifier)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid whiteboard modifier")
	}
	room, err := classroom.New(win.Viewport,
		classroom.WithRoomURL(cfg.Room.URL),
		classroom.WithGrid(cfg.Room.Rows, cfg.Room.Cols),
		classroom.WithDrawModifier(drawModifier),
		classroom.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("building classroom")
	}

	eng, err := engine.NewEngine(room.Scene(), pair,
		engine.WithWindow(win),
		engine.WithProfiling(cfg.Render.Profiling),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
		engine.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("creating engine")
	}
	eng.SetTickCallback(room.Tick)
	// the pair resizes both renderers in framebuffer pixels; pages are laid out in client pixels
	eng.SetResizeCallback(func(width, height int) {
		vp := win.Viewport()
		pages.Resize(int(vp.Width), int(vp.Height))
	})
	win.SetInputCallback(func(ev input.Event) {
		room.HandleEvent(ev)
	})

	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	models := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithDispatch(eng.Post),
		loader.WithLogger(log),
	)
	room.LoadRoom(ctx, models, cfg.Room.Model)

	log.Info().Str("overlay", "http://"+cfg.Overlay.Listen+"/").Msg("open the overlay host page in a browser")
	if err := eng.Run(); err != nil {
		log.Fatal().Err(err).Msg("frame loop")
	}
	stop()
}
