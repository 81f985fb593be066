package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Virtual Classroom", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "vsync", cfg.Render.PresentMode)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.False(t, cfg.Render.SoftwareRenderer)
	assert.Zero(t, cfg.Render.FrameLimit)
	assert.Equal(t, "Classroom3.glb", cfg.Room.Model)
	assert.Equal(t, "https://3dclass.daily.co/3dclass", cfg.Room.URL)
	assert.Equal(t, 3, cfg.Room.Rows)
	assert.Equal(t, 4, cfg.Room.Cols)
	assert.Equal(t, "127.0.0.1:8090", cfg.Overlay.Listen)
	assert.Equal(t, "ctrl", cfg.Whiteboard.Modifier)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classroom.json")
	cfg := `{
		"logLevel": "debug",
		"room": { "url": "https://example.test/room", "model": "room.glb" },
		"render": { "msaa": 1 }
	}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "https://example.test/room", got.Room.URL)
	assert.Equal(t, "room.glb", got.Room.Model)
	assert.Equal(t, 1, got.Render.MSAA)
	assert.Equal(t, 1280, got.Window.Width)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("window:\n  width: 800\n"), 0644))
	t.Chdir(dir)

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 800, got.Window.Width)
	assert.Equal(t, 720, got.Window.Height)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classroom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("overlay:\n  listen: 0.0.0.0:9000\n"), 0644))
	t.Setenv("CLASSROOM_OVERLAY_LISTEN", "127.0.0.1:9999")
	t.Setenv("CLASSROOM_ROOM_ROWS", "2")
	t.Setenv("CLASSROOM_WHITEBOARD_MODIFIER", "shift")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", got.Overlay.Listen)
	assert.Equal(t, 2, got.Room.Rows)
	assert.Equal(t, "shift", got.Whiteboard.Modifier)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/classroom.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
