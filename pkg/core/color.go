package core

import (
	"fmt"
	"image/color"
)

// Color4 is an RGBA color with float channels.
// Channels are conceptually in [0, 1] but arithmetic never clamps; use Trim for that.
type Color4 struct {
	R, G, B, A float64
}

var (
	Black       = Color4{0, 0, 0, 1}
	White       = Color4{1, 1, 1, 1}
	Red         = Color4{1, 0, 0, 1}
	Transparent = Color4{0, 0, 0, 0}
)

// NewColor4 creates a new color
func NewColor4(r, g, b, a float64) Color4 {
	return Color4{R: r, G: g, B: b, A: a}
}

// Opaque creates a color with alpha 1
func Opaque(r, g, b float64) Color4 {
	return Color4{R: r, G: g, B: b, A: 1}
}

// Add returns the channel-wise RGB sum, keeping the receiver's alpha
func (c Color4) Add(other Color4) Color4 {
	return Color4{c.R + other.R, c.G + other.G, c.B + other.B, c.A}
}

// Scale multiplies RGB by a scalar, keeping alpha
func (c Color4) Scale(s float64) Color4 {
	return Color4{c.R * s, c.G * s, c.B * s, c.A}
}

// Mul returns the channel-wise RGB product, keeping the receiver's alpha
func (c Color4) Mul(other Color4) Color4 {
	return Color4{c.R * other.R, c.G * other.G, c.B * other.B, c.A}
}

// Lerp interpolates all four channels: (1-t)*c + t*other
func (c Color4) Lerp(other Color4, t float64) Color4 {
	return Color4{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Over composites c in front of under using c's alpha as the blend weight.
func (c Color4) Over(under Color4) Color4 {
	k := 1 - c.A
	return Color4{
		R: c.A*c.R + k*under.R,
		G: c.A*c.G + k*under.G,
		B: c.A*c.B + k*under.B,
		A: c.A + k*under.A,
	}
}

// Trim saturates every channel to [0, 1]
func (c Color4) Trim() Color4 {
	return Color4{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// Luminance returns the perceptual luminance of the RGB channels
func (c Color4) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// RGBA converts a trimmed copy of the color to 8-bit RGBA (not premultiplied)
func (c Color4) RGBA() color.NRGBA {
	t := c.Trim()
	return color.NRGBA{
		R: uint8(255*t.R + 0.5),
		G: uint8(255*t.G + 0.5),
		B: uint8(255*t.B + 0.5),
		A: uint8(255*t.A + 0.5),
	}
}

// FromColor converts any color.Color to Color4 (un-premultiplying alpha)
func FromColor(src color.Color) Color4 {
	n := color.NRGBA64Model.Convert(src).(color.NRGBA64)
	return Color4{
		R: float64(n.R) / 65535.0,
		G: float64(n.G) / 65535.0,
		B: float64(n.B) / 65535.0,
		A: float64(n.A) / 65535.0,
	}
}

// Equals reports exact channel equality
func (c Color4) Equals(other Color4) bool {
	return c == other
}

func (c Color4) String() string {
	return fmt.Sprintf("rgba(%.4g, %.4g, %.4g, %.4g)", c.R, c.G, c.B, c.A)
}

func clamp01(v float64) float64 {
	return max(0.0, min(1.0, v))
}
