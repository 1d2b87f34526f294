package display

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Overlay composites src over dst with its top-left corner at (x, y).
// Pixels falling outside dst are dropped.
func Overlay(dst, src *core.Image, x, y int) {
	for sy := 0; sy < src.Height; sy++ {
		for sx := 0; sx < src.Width; sx++ {
			dx, dy := x+sx, y+sy
			if !dst.Contains(dx, dy) {
				continue
			}
			c := src.Pixels[sy*src.Width+sx]
			if c.A <= 0 {
				continue
			}
			dst.Pixels[dy*dst.Width+dx] = c.Over(dst.Pixels[dy*dst.Width+dx])
		}
	}
}
