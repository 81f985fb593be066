package classroom

import (
	"fmt"
	"net/url"
	"strconv"
)

// Video grid geometry in world units.
const (
	PlaneWidth     float32 = 5
	PlaneHeight    float32 = 3
	SpacingX       float32 = 13
	SpacingZ       float32 = 15
	InitialOffsetX float32 = -4

	// ElementWidth and ElementHeight are the CSS pixel size of each embedded page.
	// At the 0.01 proxy scale they cover exactly one plane.
	ElementWidth  = 500
	ElementHeight = 300
	ProxyScale    = 0.01
)

// GridPosition returns the world position of the video plane at (row, col) in a
// rows x cols grid centered on the origin and shifted by InitialOffsetX.
func GridPosition(row, col, rows, cols int) [3]float32 {
	return [3]float32{
		float32(col)*SpacingX - float32(cols-1)*SpacingX/2 + InitialOffsetX,
		0,
		float32(row)*SpacingZ - float32(rows-1)*SpacingZ/2,
	}
}

// OverlayURL appends user=<index> to the base room URL, keeping any existing query.
//
// Parameters:
//   - base: the room URL
//   - index: the grid index, row*cols+col
//
// Returns:
//   - string: the per-surface URL
//   - error: error if base is not a valid URL
func OverlayURL(base string, index int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing room url: %w", err)
	}
	q := u.Query()
	q.Set("user", strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
