package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CLASSROOM_ROOM_URL.
const EnvPrefix = "CLASSROOM"

// DefaultFile is looked up in the working directory when Load is called without a path.
const DefaultFile = "classroom.yaml"

// WindowConfig holds the GLFW window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// RenderConfig holds the WebGPU geometry renderer and frame loop settings.
type RenderConfig struct {
	PresentMode      string  `json:"presentMode" mapstructure:"presentMode"`
	MSAA             int     `json:"msaa" mapstructure:"msaa"`
	SoftwareRenderer bool    `json:"softwareRenderer" mapstructure:"softwareRenderer"`
	FrameLimit       float64 `json:"frameLimit" mapstructure:"frameLimit"`
	Profiling        bool    `json:"profiling" mapstructure:"profiling"`
}

// RoomConfig holds the classroom content settings.
type RoomConfig struct {
	Model string `json:"model" mapstructure:"model"`
	URL   string `json:"url" mapstructure:"url"`
	Rows  int    `json:"rows" mapstructure:"rows"`
	Cols  int    `json:"cols" mapstructure:"cols"`
}

// OverlayConfig holds the overlay host server settings.
type OverlayConfig struct {
	Listen string `json:"listen" mapstructure:"listen"`
}

// WhiteboardConfig holds the drawing input settings.
type WhiteboardConfig struct {
	// Modifier is the key held with the primary button to draw, parsed by input.ParseModifier.
	Modifier string `json:"modifier" mapstructure:"modifier"`
}

// Config is the complete typed application configuration.
type Config struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Window   WindowConfig  `json:"window" mapstructure:"window"`
	Render   RenderConfig  `json:"render" mapstructure:"render"`
	Room     RoomConfig    `json:"room" mapstructure:"room"`
	Overlay  OverlayConfig `json:"overlay" mapstructure:"overlay"`

	Whiteboard WhiteboardConfig `json:"whiteboard" mapstructure:"whiteboard"`
}

// setDefaults registers a default for every key so env overrides resolve during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("window.title", "Virtual Classroom")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)

	v.SetDefault("render.presentMode", "vsync")
	v.SetDefault("render.msaa", 4)
	v.SetDefault("render.softwareRenderer", false)
	v.SetDefault("render.frameLimit", 0)
	v.SetDefault("render.profiling", false)

	v.SetDefault("room.model", "Classroom3.glb")
	v.SetDefault("room.url", "https://3dclass.daily.co/3dclass")
	v.SetDefault("room.rows", 3)
	v.SetDefault("room.cols", 4)

	v.SetDefault("overlay.listen", "127.0.0.1:8090")

	v.SetDefault("whiteboard.modifier", "ctrl")
}

// Load builds the configuration from defaults, an optional file and CLASSROOM_* environment
// variables, in increasing precedence.
// With an empty path, DefaultFile is read if present. An explicit path that cannot be read
// is an error.
//
// Parameters:
//   - path: the YAML or JSON config file, or "" for the default lookup
//
// Returns:
//   - Config: the resolved configuration
//   - error: error if the file is unreadable or a value has the wrong type
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
