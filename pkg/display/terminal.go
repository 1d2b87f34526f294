package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// upperHalf paints the top image row in the foreground and the bottom one in the background
const upperHalf = "▀"

// Terminal shows images in a terminal at two image rows per text row
type Terminal struct {
	out        *termenv.Output
	Background core.Color4 // Shown under transparent pixels
}

// NewTerminal creates a terminal writer. The color profile is detected from w
// unless given with termenv.WithProfile.
func NewTerminal(w io.Writer, opts ...termenv.OutputOption) *Terminal {
	return &Terminal{out: termenv.NewOutput(w, opts...), Background: core.Black}
}

// Draw writes img starting at the cursor position
func (t *Terminal) Draw(img *core.Image) error {
	var b strings.Builder
	for y := 0; y < img.Height; y += 2 {
		for x := 0; x < img.Width; x++ {
			top := t.color(img.Pixel(x, y))
			bottom := t.color(t.Background)
			if y+1 < img.Height {
				bottom = t.color(img.Pixel(x, y+1))
			}
			b.WriteString(t.out.String(upperHalf).Foreground(top).Background(bottom).String())
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(t.out, b.String())
	return err
}

// Message writes a line of bold text
func (t *Terminal) Message(msg string) error {
	_, err := fmt.Fprintln(t.out, t.out.String(msg).Bold().String())
	return err
}

// Home moves the cursor to the top-left corner so the next frame overdraws the last
func (t *Terminal) Home() {
	t.out.MoveCursor(1, 1)
}

// Clear clears the screen and moves the cursor home
func (t *Terminal) Clear() {
	t.out.ClearScreen()
}

func (t *Terminal) color(c core.Color4) termenv.Color {
	px := c.Over(t.Background).RGBA()
	return t.out.Color(fmt.Sprintf("#%02x%02x%02x", px.R, px.G, px.B))
}
