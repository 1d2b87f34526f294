package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

func TestTerminal_Draw(t *testing.T) {
	img := core.MustImage(2, 3)
	img.Fill(core.Opaque(1, 0, 0))
	require.NoError(t, img.SetPixel(0, 1, core.Opaque(0, 0, 1)))

	var buf bytes.Buffer
	term := NewTerminal(&buf, termenv.WithProfile(termenv.TrueColor))
	require.NoError(t, term.Draw(img))

	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 2, "three image rows fit in two text rows")
	assert.Equal(t, 4, strings.Count(out, upperHalf))
	assert.Contains(t, out, "38;2;255;0;0")
	assert.Contains(t, out, "48;2;0;0;255")
	// the odd last row is padded with the background
	assert.Contains(t, lines[1], "48;2;0;0;0")
}

func TestTerminal_Transparency(t *testing.T) {
	img := core.MustImage(1, 2)
	img.Fill(core.Transparent)

	var buf bytes.Buffer
	term := NewTerminal(&buf, termenv.WithProfile(termenv.TrueColor))
	term.Background = core.White
	require.NoError(t, term.Draw(img))
	assert.Contains(t, buf.String(), "38;2;255;255;255")
}

func TestTerminal_Ascii(t *testing.T) {
	img := core.MustImage(3, 2)

	var buf bytes.Buffer
	term := NewTerminal(&buf, termenv.WithProfile(termenv.Ascii))
	require.NoError(t, term.Draw(img))
	require.NoError(t, term.Message("Locked!!!"))

	assert.Equal(t, strings.Repeat(upperHalf, 3)+"\nLocked!!!\n", buf.String())
}

func TestOverlay(t *testing.T) {
	dst := core.MustImage(4, 4)
	dst.Fill(core.Black)

	src := core.MustImage(2, 2)
	src.Fill(core.Transparent)
	require.NoError(t, src.SetPixel(0, 0, core.White))
	require.NoError(t, src.SetPixel(1, 0, core.NewColor4(1, 0, 0, 0.5)))
	require.NoError(t, src.SetPixel(1, 1, core.White))

	Overlay(dst, src, 3, 3)
	assert.Equal(t, core.White, dst.Pixel(3, 3))
	assert.Equal(t, core.Black, dst.Pixel(2, 2))

	Overlay(dst, src, 0, 0)
	assert.Equal(t, core.White, dst.Pixel(0, 0))
	assert.Equal(t, core.NewColor4(0.5, 0, 0, 1), dst.Pixel(1, 0))
	assert.Equal(t, core.Black, dst.Pixel(0, 1), "transparent pixels leave the target alone")
}
