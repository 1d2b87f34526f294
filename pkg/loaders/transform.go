package loaders

import (
	"fmt"

	"github.com/anthonynsimon/bild/transform"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// FlipH mirrors an image left to right
func FlipH(img *core.Image) (*core.Image, error) {
	return core.FromImage(transform.FlipH(img.ToNRGBA()), nil)
}

// Upscale enlarges an image by an integer factor, repeating each pixel as a block
func Upscale(img *core.Image, factor int) (*core.Image, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: upscale factor %d", core.ErrInvalidSize, factor)
	}
	if factor == 1 {
		return img.Clone(), nil
	}
	scaled := transform.Resize(img.ToNRGBA(), img.Width*factor, img.Height*factor, transform.NearestNeighbor)
	return core.FromImage(scaled, nil)
}
