package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

var errPNM = errors.New("pnm: invalid data")

// maxPNMPixels bounds the image a header may announce
const maxPNMPixels = 1 << 24

func init() {
	image.RegisterFormat("pnm", "P6", decodePNM, decodePNMConfig)
	image.RegisterFormat("pnm", "P3", decodePNM, decodePNMConfig)
}

type pnmHeader struct {
	ascii         bool
	width, height int
	maxval        int
}

func readPNMHeader(br *bufio.Reader) (pnmHeader, error) {
	var h pnmHeader
	magic, err := pnmToken(br)
	if err != nil {
		return h, err
	}
	switch magic {
	case "P6":
	case "P3":
		h.ascii = true
	default:
		return h, fmt.Errorf("%w: magic %q", errPNM, magic)
	}

	for _, dst := range []*int{&h.width, &h.height, &h.maxval} {
		tok, err := pnmToken(br)
		if err != nil {
			return h, err
		}
		if _, err := fmt.Sscanf(tok, "%d", dst); err != nil {
			return h, fmt.Errorf("%w: %q", errPNM, tok)
		}
	}
	if h.width <= 0 || h.height <= 0 || h.maxval <= 0 || h.maxval > 65535 {
		return h, fmt.Errorf("%w: header %dx%d max %d", errPNM, h.width, h.height, h.maxval)
	}
	if h.width > maxPNMPixels || h.height > maxPNMPixels/h.width {
		return h, fmt.Errorf("%w: %dx%d is too large", errPNM, h.width, h.height)
	}
	return h, nil
}

// pnmToken reads one whitespace separated token, skipping # comments.
// Exactly one whitespace byte after the token is consumed.
func pnmToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", fmt.Errorf("%w: %v", errPNM, err)
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", fmt.Errorf("%w: %v", errPNM, err)
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func decodePNMConfig(r io.Reader) (image.Config, error) {
	h, err := readPNMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

func decodePNM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPNMHeader(br)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	wide := h.maxval > 255
	sample := func() (int, error) {
		if h.ascii {
			tok, err := pnmToken(br)
			if err != nil {
				return 0, err
			}
			var v int
			if _, err := fmt.Sscanf(tok, "%d", &v); err != nil || v < 0 {
				return 0, fmt.Errorf("%w: sample %q", errPNM, tok)
			}
			return v, nil
		}
		hi, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errPNM, err)
		}
		if !wide {
			return int(hi), nil
		}
		lo, err := br.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errPNM, err)
		}
		return int(hi)<<8 | int(lo), nil
	}

	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			var rgb [3]uint8
			for i := range rgb {
				v, err := sample()
				if err != nil {
					return nil, err
				}
				rgb[i] = uint8(min(v, h.maxval) * 255 / h.maxval)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img, nil
}
