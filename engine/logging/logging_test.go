package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("source", "room.glb").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "source=room.glb")
	assert.NotContains(t, out, "\x1b[")
}
