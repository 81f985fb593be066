package classroom

import (
	"github.com/Carmen-Shannon/oxy-classroom/engine/input"
	"github.com/rs/zerolog"
)

// Option is a functional option for configuring a Classroom via New.
type Option func(*Classroom)

// WithRoomURL sets the base URL every overlay page is derived from.
//
// Parameters:
//   - url: the room URL
//
// Returns:
//   - Option: option function to apply
func WithRoomURL(url string) Option {
	return func(c *Classroom) {
		if url != "" {
			c.roomURL = url
		}
	}
}

// WithGrid sets the video grid dimensions.
//
// Parameters:
//   - rows: number of rows along Z
//   - cols: number of columns along X
//
// Returns:
//   - Option: option function to apply
func WithGrid(rows, cols int) Option {
	return func(c *Classroom) {
		c.rows = rows
		c.cols = cols
	}
}

// WithDrawModifier sets the modifier held with the primary button to draw on the
// whiteboard.
//
// Parameters:
//   - mod: the modifier, default input.ModControl
//
// Returns:
//   - Option: option function to apply
func WithDrawModifier(mod input.Modifiers) Option {
	return func(c *Classroom) {
		if mod != 0 {
			c.drawModifier = mod
		}
	}
}

// WithLogger sets the logger shared by the classroom and the controls it creates.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Classroom) {
		c.log = log
	}
}
