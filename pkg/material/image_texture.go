package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Interpolation selects how an ImageTexture filters between pixels
type Interpolation int

const (
	Nearest Interpolation = iota
	Linear
	Bilinear
)

// Border selects how an ImageTexture resolves coordinates outside the image
type Border int

const (
	BorderClamp Border = iota
	BorderRepeat
	BorderMirror
)

// coordLimit keeps float to int conversion well defined for absurd coordinates
const coordLimit = 1 << 40

func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Bilinear:
		return "bilinear"
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation parses "nearest", "linear" or "bilinear"
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest, nil
	case "linear":
		return Linear, nil
	case "bilinear":
		return Bilinear, nil
	}
	return Nearest, fmt.Errorf("material: unknown interpolation %q", s)
}

func (b Border) String() string {
	switch b {
	case BorderClamp:
		return "clamp"
	case BorderRepeat:
		return "repeat"
	case BorderMirror:
		return "mirror"
	}
	return fmt.Sprintf("Border(%d)", int(b))
}

// ParseBorder parses "clamp", "repeat" or "mirror"
func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return BorderClamp, nil
	case "repeat":
		return BorderRepeat, nil
	case "mirror":
		return BorderMirror, nil
	}
	return BorderClamp, fmt.Errorf("material: unknown border handling %q", s)
}

// ImageTexture provides color from a 2D image.
// Texture point (0,0) is the top-left corner of the image and (1,1) the bottom-right.
type ImageTexture struct {
	Image         *core.Image
	Interpolation Interpolation
	Border        Border
}

// NewImageTexture creates an image texture with nearest sampling and clamped borders
func NewImageTexture(img *core.Image) *ImageTexture {
	return &ImageTexture{Image: img}
}

// WithInterpolation returns a copy using the given interpolation mode
func (t *ImageTexture) WithInterpolation(mode Interpolation) *ImageTexture {
	c := *t
	c.Interpolation = mode
	return &c
}

// WithBorder returns a copy using the given border handling
func (t *ImageTexture) WithBorder(mode Border) *ImageTexture {
	c := *t
	c.Border = mode
	return &c
}

// Color samples the texture at the given texture-space point
func (t *ImageTexture) Color(point core.Point3) core.Color4 {
	if t.Image == nil || t.Image.Width <= 0 || t.Image.Height <= 0 {
		return core.Transparent
	}
	x := point.X * float64(t.Image.Width)
	y := point.Y * float64(t.Image.Height)
	if !finite(x) || !finite(y) {
		return core.Transparent
	}

	if t.Interpolation == Nearest {
		return t.texel(toInt(math.Round(x)), toInt(math.Round(y)))
	}

	// Linear and Bilinear share the two-pass lerp over the four neighbours
	fx, fy := math.Floor(x), math.Floor(y)
	dx, dy := x-fx, y-fy
	ix, iy := toInt(fx), toInt(fy)

	top := t.texel(ix, iy).Lerp(t.texel(ix+1, iy), dx)
	bottom := t.texel(ix, iy+1).Lerp(t.texel(ix+1, iy+1), dx)
	return top.Lerp(bottom, dy)
}

// texel reads a pixel after applying border handling to each axis
func (t *ImageTexture) texel(x, y int) core.Color4 {
	w, h := t.Image.Width, t.Image.Height
	switch t.Border {
	case BorderRepeat:
		x, y = wrap(x, w), wrap(y, h)
	case BorderMirror:
		x, y = mirror(x, w), mirror(y, h)
	default:
		x, y = clampInt(x, w), clampInt(y, h)
	}
	return t.Image.Pixels[y*w+x]
}

func clampInt(v, size int) int {
	return max(0, min(size-1, v))
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

func mirror(v, size int) int {
	v = wrap(v, 2*size)
	if v >= size {
		v = 2*size - 1 - v
	}
	return v
}

func toInt(v float64) int {
	return int(max(-coordLimit, min(coordLimit, v)))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
