// Package overlay positions DOM overlay elements in 3D so they line up with the
// planes they are paired with, using CSS 3D transforms.
package overlay

import (
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-classroom/common"
	"github.com/Carmen-Shannon/oxy-classroom/engine/camera"
	"github.com/Carmen-Shannon/oxy-classroom/engine/scene"
	"github.com/chewxy/math32"
)

// Element is the placement of one overlay element for a frame.
type Element struct {
	ID        uint64 `json:"id"`
	Source    string `json:"src"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Transform string `json:"transform"`
	Visible   bool   `json:"visible"`
}

// Frame is everything the host page needs to lay out the overlay for one frame.
type Frame struct {
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	Perspective     float32   `json:"perspective"`
	CameraTransform string    `json:"camera"`
	Elements        []Element `json:"elements"`
}

// cssEpsilon flushes tiny matrix terms to zero so they are not printed in exponent form.
const cssEpsilon = 1e-10

// BuildFrame computes the CSS layout of every overlay proxy in s as seen by cam
// through a width x height viewport.
//
// The perspective distance is the projection's focal length in pixels. The camera
// transform is the view matrix with its y axis flipped into CSS's y-down space.
// Each element is centered on its origin and placed with its world matrix, y
// column negated for the same reason.
//
// Parameters:
//   - s: the scene whose pairings are laid out
//   - cam: the shared camera
//   - width, height: the viewport size in CSS pixels
//
// Returns:
//   - Frame: the layout
func BuildFrame(s scene.Scene, cam camera.Camera, width, height int) Frame {
	halfW := float32(width) / 2
	halfH := float32(height) / 2

	proj := cam.ProjectionMatrix()
	view := cam.ViewMatrix()
	fov := proj[5] * halfH

	var b strings.Builder
	b.WriteString("translateZ(")
	b.WriteString(cssNumber(fov))
	b.WriteString("px)")
	b.WriteString(CameraMatrix(view))
	b.WriteString("translate(")
	b.WriteString(cssNumber(halfW))
	b.WriteString("px,")
	b.WriteString(cssNumber(halfH))
	b.WriteString("px)")

	vp := cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(vp[:])

	pairings := s.Pairings()
	frame := Frame{
		Width:           width,
		Height:          height,
		Perspective:     fov,
		CameraTransform: b.String(),
		Elements:        make([]Element, 0, len(pairings)),
	}
	for _, p := range pairings {
		proxy := p.Proxy
		var m [16]float32
		proxy.ModelMatrix(m[:])

		ew, eh := proxy.ElementSize()
		sx, sy, _ := proxy.Scale()
		radius := 0.5 * math32.Hypot(float32(ew)*sx, float32(eh)*sy)
		center := [3]float32{m[12], m[13], m[14]}

		frame.Elements = append(frame.Elements, Element{
			ID:        proxy.ID(),
			Source:    proxy.Source(),
			Width:     ew,
			Height:    eh,
			Transform: "translate(-50%,-50%)" + ObjectMatrix(m),
			Visible:   proxy.Enabled() && frustum.IntersectsSphere(center, radius),
		})
	}
	return frame
}

// CameraMatrix formats a view matrix as a CSS matrix3d with the y axis flipped.
func CameraMatrix(m [16]float32) string {
	return matrix3d([16]float32{
		m[0], -m[1], m[2], m[3],
		m[4], -m[5], m[6], m[7],
		m[8], -m[9], m[10], m[11],
		m[12], -m[13], m[14], m[15],
	})
}

// ObjectMatrix formats a world matrix as a CSS matrix3d with the second column negated.
func ObjectMatrix(m [16]float32) string {
	return matrix3d([16]float32{
		m[0], m[1], m[2], m[3],
		-m[4], -m[5], -m[6], -m[7],
		m[8], m[9], m[10], m[11],
		m[12], m[13], m[14], m[15],
	})
}

func matrix3d(m [16]float32) string {
	var b strings.Builder
	b.WriteString("matrix3d(")
	for i, v := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(cssNumber(v))
	}
	b.WriteByte(')')
	return b.String()
}

func cssNumber(v float32) string {
	if math32.Abs(v) < cssEpsilon {
		v = 0
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
