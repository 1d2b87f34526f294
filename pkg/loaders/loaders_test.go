package loaders

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

var cyan = color.NRGBA{R: 0, G: 255, B: 255, A: 255}

// writePNG writes a w x h image where pixel (x,y) is red at x==y, cyan elsewhere
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cyan
			if x == y {
				c = color.NRGBA{R: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage_PNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "atlas.png", 3, 2)

	img, err := LoadImage(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, core.Opaque(1, 0, 0), img.Pixel(1, 1))
	assert.Equal(t, core.Opaque(0, 1, 1), img.Pixel(2, 0))

	keyed, err := LoadImage(path, &cyan)
	require.NoError(t, err)
	assert.Equal(t, core.Transparent, keyed.Pixel(2, 0))
	assert.Equal(t, core.Opaque(1, 0, 0), keyed.Pixel(0, 0))
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeImage_BMP(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	img, format, err := DecodeImage(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, core.Opaque(1, 0, 0), img.Pixel(0, 0))
	assert.Equal(t, core.Opaque(0, 0, 1), img.Pixel(1, 0))
}

func TestDecodeImage_PNM(t *testing.T) {
	binary := append([]byte("P6\n# a comment\n2 1\n255\n"), 255, 0, 0, 0, 255, 255)
	img, format, err := DecodeImage(bytes.NewReader(binary), &cyan)
	require.NoError(t, err)
	assert.Equal(t, "pnm", format)
	assert.Equal(t, core.Opaque(1, 0, 0), img.Pixel(0, 0))
	assert.Equal(t, core.Transparent, img.Pixel(1, 0))

	ascii := "P3\n1 2\n15\n15 0 0\n0 15 0\n"
	img, _, err = DecodeImage(bytes.NewReader([]byte(ascii)), nil)
	require.NoError(t, err)
	assert.Equal(t, core.Opaque(1, 0, 0), img.Pixel(0, 0))
	assert.Equal(t, core.Opaque(0, 1, 0), img.Pixel(0, 1))

	_, _, err = DecodeImage(bytes.NewReader([]byte("P6\n2 2\n255\n\x01")), nil)
	assert.Error(t, err, "truncated pixel data")
}

func TestDecodeImage_PNMRejectsBadHeadersAndSamples(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"huge dimensions", "P6\n100000 100000\n255\n"},
		{"overflowing dimensions", "P6\n4611686018427387904 4\n255\n"},
		{"negative sample", "P3\n1 1\n255\n-1 0 0\n"},
		{"zero width", "P3\n0 1\n255\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeImage(bytes.NewReader([]byte(tt.data)), nil)
			assert.Error(t, err)
		})
	}
}

func TestDecodeImage_Unsupported(t *testing.T) {
	_, _, err := DecodeImage(bytes.NewReader([]byte("%PDF-1.4\n%rest of a document")), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = DecodeImage(bytes.NewReader([]byte("definitely not an image")), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = DecodeImage(bytes.NewReader(nil), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadTileset(t *testing.T) {
	path := writePNG(t, t.TempDir(), "tiles.png", 4, 2)

	tiles, err := LoadTileset(TilesetSpec{Path: path, CellWidth: 2, CellHeight: 2, TransparencyKey: &cyan})
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, core.Opaque(1, 0, 0), tiles[0].Pixel(1, 1))
	assert.Equal(t, core.Transparent, tiles[1].Pixel(0, 0))

	_, err = LoadTileset(TilesetSpec{Path: path, CellWidth: 3, CellHeight: 2})
	assert.ErrorIs(t, err, core.ErrInvalidRegion)
}

func TestLoadTilesets(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 4, 4)
	b := writePNG(t, dir, "b.png", 2, 2)

	sets, err := LoadTilesets(context.Background(),
		TilesetSpec{Path: a, CellWidth: 2, CellHeight: 2},
		TilesetSpec{Path: b, CellWidth: 1, CellHeight: 1},
	)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Len(t, sets[0], 4)
	assert.Len(t, sets[1], 4)

	_, err = LoadTilesets(context.Background(),
		TilesetSpec{Path: a, CellWidth: 2, CellHeight: 2},
		TilesetSpec{Path: filepath.Join(dir, "missing.png"), CellWidth: 2, CellHeight: 2},
	)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFlipH(t *testing.T) {
	img := core.MustImage(2, 1)
	require.NoError(t, img.SetPixel(0, 0, core.Opaque(1, 0, 0)))
	require.NoError(t, img.SetPixel(1, 0, core.Opaque(0, 0, 1)))

	flipped, err := FlipH(img)
	require.NoError(t, err)
	assert.Equal(t, core.Opaque(0, 0, 1), flipped.Pixel(0, 0))
	assert.Equal(t, core.Opaque(1, 0, 0), flipped.Pixel(1, 0))
}

func TestUpscale(t *testing.T) {
	img := core.MustImage(1, 1)
	img.Fill(core.Opaque(0, 1, 0))

	big, err := Upscale(img, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, big.Width)
	assert.Equal(t, 3, big.Height)
	for _, px := range big.Pixels {
		assert.Equal(t, core.Opaque(0, 1, 0), px)
	}

	same, err := Upscale(img, 1)
	require.NoError(t, err)
	assert.Equal(t, img.Pixels, same.Pixels)

	_, err = Upscale(img, 0)
	assert.ErrorIs(t, err, core.ErrInvalidSize)
}
