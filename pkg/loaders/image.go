package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/log"
)

// ErrUnsupportedFormat is returned for files that are recognisably not a supported image
var ErrUnsupportedFormat = errors.New("loaders: unsupported image format")

// sniffLen is the header size filetype needs to recognise every format it knows
const sniffLen = 262

// decodable lists the sniffed extensions that have a registered decoder
var decodable = map[string]bool{
	"png": true, "jpg": true, "gif": true, "bmp": true, "tif": true,
}

var logger = log.New("loaders")

// LoadImage loads an image file. Pixels equal to key (when non-nil) become transparent.
func LoadImage(filename string, key *color.NRGBA) (*core.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := DecodeImage(file, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Debugf("loaded %s (%s, %dx%d)", filename, format, img.Width, img.Height)
	return img, nil
}

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or PNM data and returns the format name
func DecodeImage(r io.Reader, key *color.NRGBA) (*core.Image, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}

	// PNM has no signature filetype knows; it falls through to the registered decoder
	if kind, _ := filetype.Match(head); kind != filetype.Unknown && !decodable[kind.Extension] {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	src, format, err := image.Decode(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := core.FromImage(src, key)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}
