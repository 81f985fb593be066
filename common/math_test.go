package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 1, 2, 3, 0.3, -0.7, 0.1, 2, 2, 2)

	inv := make([]float32, 16)
	require.True(t, Invert4(inv, m))

	out := make([]float32, 16)
	Mul4(out, m, inv)
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, out[i], 1e-5, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16)
	assert.False(t, Invert4(make([]float32, 16), m))
}

func TestTransformPointAppliesTranslation(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 5, 0, -2, 0, 0, 0, 1, 1, 1)

	p := TransformPoint(m, [3]float32{1, 1, 1})
	assert.Equal(t, [3]float32{6, 1, -1}, p)

	v := TransformVector(m, [3]float32{1, 1, 1})
	assert.Equal(t, [3]float32{1, 1, 1}, v)
}

func TestComposeTRSMatchesEulerForYaw(t *testing.T) {
	angle := float32(0.8)
	s, c := math32.Sincos(angle / 2)

	a := make([]float32, 16)
	ComposeTRS(a, [3]float32{1, 2, 3}, [4]float32{0, s, 0, c}, [3]float32{1, 1, 1})

	b := make([]float32, 16)
	BuildModelMatrix(b, 1, 2, 3, 0, angle, 0, 1, 1, 1)

	for i := range a {
		assert.InDelta(t, b[i], a[i], 1e-5, "element %d", i)
	}
}

func TestViewportNDC(t *testing.T) {
	vp := Viewport{Left: 10, Top: 20, Width: 200, Height: 100}

	x, y := vp.NDC(110, 70)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, y = vp.NDC(10, 20)
	assert.InDelta(t, -1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)

	assert.True(t, Viewport{Width: 0, Height: 10}.Empty())
	assert.InDelta(t, 2, vp.Aspect(), 1e-6)
}

func TestFrustumIntersectsSphere(t *testing.T) {
	view := make([]float32, 16)
	LookAt(view, 0, 0, 10, 0, 0, 0, 0, 1, 0)
	proj := make([]float32, 16)
	Perspective(proj, math32.Pi/2, 1, 0.1, 100)
	vp := make([]float32, 16)
	Mul4(vp, proj, view)

	f := ExtractFrustumFromMatrix(vp)
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 20}, 1), "behind the camera")
	assert.False(t, f.IntersectsSphere([3]float32{500, 0, 0}, 1))
}

func TestColorFromHex(t *testing.T) {
	assert.Equal(t, ColorWhite, ColorFromHex(0xffffff))
	assert.Equal(t, ColorBlack, ColorFromHex(0x000000))
}
