package core

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	ErrInvalidSize   = errors.New("core: image size must be positive")
	ErrOutOfBounds   = errors.New("core: pixel out of bounds")
	ErrInvalidRegion = errors.New("core: invalid image region")
)

// Image is a 2D grid of colors, row-major with the origin at the top-left corner
type Image struct {
	Width  int
	Height int
	Pixels []Color4 // Pixels[y*Width + x]
}

// NewImage creates an image filled with opaque white
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	img := &Image{
		Width:  width,
		Height: height,
		Pixels: make([]Color4, width*height),
	}
	img.Fill(White)
	return img, nil
}

// MustImage is NewImage for sizes known to be valid
func MustImage(width, height int) *Image {
	img, err := NewImage(width, height)
	if err != nil {
		panic(err)
	}
	return img
}

// Contains reports whether (x, y) is inside the image
func (img *Image) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.Width && y < img.Height
}

// Pixel returns the color at (x, y); out-of-range reads return Transparent
func (img *Image) Pixel(x, y int) Color4 {
	if !img.Contains(x, y) {
		return Transparent
	}
	return img.Pixels[y*img.Width+x]
}

// SetPixel stores a color at (x, y)
func (img *Image) SetPixel(x, y int, c Color4) error {
	if !img.Contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, img.Width, img.Height)
	}
	img.Pixels[y*img.Width+x] = c
	return nil
}

// Fill sets every pixel to c
func (img *Image) Fill(c Color4) {
	for i := range img.Pixels {
		img.Pixels[i] = c
	}
}

// Clone returns a deep copy of the image
func (img *Image) Clone() *Image {
	pixels := make([]Color4, len(img.Pixels))
	copy(pixels, img.Pixels)
	return &Image{Width: img.Width, Height: img.Height, Pixels: pixels}
}

// Crop returns the sub-image covering r (half-open, image.Rectangle semantics)
func (img *Image) Crop(r image.Rectangle) (*Image, error) {
	if r.Empty() || !r.In(image.Rect(0, 0, img.Width, img.Height)) {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrInvalidRegion, r, img.Width, img.Height)
	}
	out := &Image{
		Width:  r.Dx(),
		Height: r.Dy(),
		Pixels: make([]Color4, r.Dx()*r.Dy()),
	}
	for y := 0; y < out.Height; y++ {
		src := (r.Min.Y+y)*img.Width + r.Min.X
		copy(out.Pixels[y*out.Width:(y+1)*out.Width], img.Pixels[src:src+out.Width])
	}
	return out, nil
}

// Tileset slices the image into cells of cellW x cellH, ordered row by row.
// The image dimensions must be exact multiples of the cell size.
func (img *Image) Tileset(cellW, cellH int) ([]*Image, error) {
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: cell %dx%d", ErrInvalidSize, cellW, cellH)
	}
	if img.Width%cellW != 0 || img.Height%cellH != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a multiple of %dx%d",
			ErrInvalidRegion, img.Width, img.Height, cellW, cellH)
	}

	cols, rows := img.Width/cellW, img.Height/cellH
	tiles := make([]*Image, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			tile, err := img.Crop(image.Rect(tx*cellW, ty*cellH, (tx+1)*cellW, (ty+1)*cellH))
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// ToNRGBA converts the image to an 8-bit standard library image
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetNRGBA(x, y, img.Pixels[y*img.Width+x].RGBA())
		}
	}
	return out
}

// FromImage converts a standard library image. Pixels matching key (when non-nil)
// become fully transparent, which is how tilesets mark their background.
func FromImage(src image.Image, key *color.NRGBA) (*Image, error) {
	bounds := src.Bounds()
	img, err := NewImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := src.At(bounds.Min.X+x, bounds.Min.Y+y)
			if key != nil && matchesKey(c, *key) {
				img.Pixels[y*img.Width+x] = Transparent
				continue
			}
			img.Pixels[y*img.Width+x] = FromColor(c)
		}
	}
	return img, nil
}

func matchesKey(c color.Color, key color.NRGBA) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == key.R && n.G == key.G && n.B == key.B
}
