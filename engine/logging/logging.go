package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name onto a zerolog level. Unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the application logger: console formatted, RFC3339 UTC timestamps.
// Color is disabled unless w is stdout or stderr.
//
// Parameters:
//   - level: the level name from config
//   - w: the destination, os.Stdout when nil
//
// Returns:
//   - zerolog.Logger: the configured logger
func New(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stdout && w != os.Stderr,
	}
	return zerolog.New(console).Level(ParseLevel(level)).With().Timestamp().Logger()
}
