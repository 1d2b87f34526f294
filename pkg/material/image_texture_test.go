package material

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// gradientImage creates an image whose pixel (x,y) has color (x/w, y/h, 0)
func gradientImage(t *testing.T, w, h int) *core.Image {
	t.Helper()
	img, err := core.NewImage(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.NoError(t, img.SetPixel(x, y, core.Opaque(float64(x)/float64(w), float64(y)/float64(h), 0)))
		}
	}
	return img
}

func TestImageTexture_BorderHandling(t *testing.T) {
	img := gradientImage(t, 10, 10)

	repeat := NewImageTexture(img).WithBorder(BorderRepeat)
	assert.Equal(t, repeat.Color(core.NewPoint3(0.5, 0.5, 0)), repeat.Color(core.NewPoint3(1.5, 1.5, 0)))
	assert.Equal(t, repeat.Color(core.NewPoint3(0.2, 0.7, 0)), repeat.Color(core.NewPoint3(-0.8, -2.3, 0)))

	clamp := NewImageTexture(img).WithBorder(BorderClamp)
	assert.Equal(t, clamp.Color(core.NewPoint3(0.99, 0.99, 0)), clamp.Color(core.NewPoint3(1.5, 1.5, 0)))
	assert.Equal(t, img.Pixel(0, 0), clamp.Color(core.NewPoint3(-3, -3, 0)))
}

func TestImageTexture_Mirror(t *testing.T) {
	img := gradientImage(t, 4, 1)
	tex := NewImageTexture(img).WithBorder(BorderMirror)

	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{0.75, 3},
		{1.0, 3},  // pixel 4 mirrors onto 3
		{1.25, 2}, // pixel 5 mirrors onto 2
		{-0.25, 0},
		{2.0, 0}, // one full period
	}
	for _, tt := range tests {
		assert.Equal(t, img.Pixel(tt.want, 0), tex.Color(core.NewPoint3(tt.x, 0, 0)), "x=%v", tt.x)
	}
}

func TestImageTexture_NearestRounds(t *testing.T) {
	img := gradientImage(t, 4, 4)
	tex := NewImageTexture(img)

	// 0.3*4 = 1.2 rounds to 1, 0.4*4 = 1.6 rounds to 2
	assert.Equal(t, img.Pixel(1, 2), tex.Color(core.NewPoint3(0.3, 0.4, 0)))
}

func TestImageTexture_Bilinear(t *testing.T) {
	img, err := core.NewImage(2, 2)
	require.NoError(t, err)
	img.Fill(core.Black)
	require.NoError(t, img.SetPixel(1, 0, core.White))
	require.NoError(t, img.SetPixel(1, 1, core.White))

	for _, mode := range []Interpolation{Linear, Bilinear} {
		tex := NewImageTexture(img).WithInterpolation(mode)

		// halfway between the black and white columns
		c := tex.Color(core.NewPoint3(0.25, 0.25, 0))
		assert.InDelta(t, 0.5, c.R, 1e-12, mode.String())
		assert.InDelta(t, 0.5, c.G, 1e-12, mode.String())
		assert.InDelta(t, 1.0, c.A, 1e-12, mode.String())

		// exactly on a pixel returns that pixel
		assert.Equal(t, core.White, tex.Color(core.NewPoint3(0.5, 0, 0)), mode.String())
	}
}

func TestImageTexture_BilinearTransparency(t *testing.T) {
	img, err := core.NewImage(2, 1)
	require.NoError(t, err)
	require.NoError(t, img.SetPixel(0, 0, core.Opaque(1, 0, 0)))
	require.NoError(t, img.SetPixel(1, 0, core.Transparent))

	tex := NewImageTexture(img).WithInterpolation(Bilinear)
	c := tex.Color(core.NewPoint3(0.25, 0, 0))
	assert.InDelta(t, 0.5, c.A, 1e-12, "alpha is filtered with the color")
}

func TestImageTexture_NeverOutOfBounds(t *testing.T) {
	img := gradientImage(t, 3, 5)
	points := []core.Point3{
		core.NewPoint3(1e300, -1e300, 0),
		core.NewPoint3(math.Inf(1), 0, 0),
		core.NewPoint3(math.NaN(), 0.5, 0),
		core.NewPoint3(-0.0001, 1.0001, 0),
	}
	for _, border := range []Border{BorderClamp, BorderRepeat, BorderMirror} {
		for _, interp := range []Interpolation{Nearest, Bilinear} {
			tex := &ImageTexture{Image: img, Interpolation: interp, Border: border}
			for _, p := range points {
				assert.NotPanics(t, func() { tex.Color(p) }, "%v %v %v", border, interp, p)
			}
		}
	}

	assert.Equal(t, core.Transparent, NewImageTexture(&core.Image{}).Color(core.NewPoint3(0.5, 0.5, 0)))
	assert.Equal(t, core.Transparent, NewImageTexture(nil).Color(core.NewPoint3(0.5, 0.5, 0)))
}

func TestParseModes(t *testing.T) {
	interp, err := ParseInterpolation("Bilinear")
	require.NoError(t, err)
	assert.Equal(t, Bilinear, interp)

	_, err = ParseInterpolation("cubic")
	assert.Error(t, err)

	border, err := ParseBorder("repeat")
	require.NoError(t, err)
	assert.Equal(t, BorderRepeat, border)

	border, err = ParseBorder("")
	require.NoError(t, err)
	assert.Equal(t, BorderClamp, border)

	_, err = ParseBorder("wrap")
	assert.Error(t, err)
}
