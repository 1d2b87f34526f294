package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel is returned for level layouts that cannot be built
var ErrInvalidLevel = errors.New("scene: invalid level")

// Level is a dungeon layout on a doubled grid. Even rows hold the walls running
// along X (characters at odd columns), odd rows hold the walls running along Z
// (characters at even columns). Cell (x, z) spans [x, x+1] x [z, z+1].
type Level struct {
	Name   string         `yaml:"name"`
	Layout Rows           `yaml:"layout"`
	Start  StartPose      `yaml:"start"`
	Chest  [2]int         `yaml:"chest"` // Doubled-grid position from which the chest can be opened
	Props  []Prop         `yaml:"props"`
	Tiles  map[string]int `yaml:"tiles"` // Per-character tile index overrides
}

// StartPose is the initial player position; heading is in degrees
type StartPose struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Heading float64 `yaml:"heading"`
}

// Prop is a free-standing textured quad such as a sprite
type Prop struct {
	Tile   string     `yaml:"tile"`
	Corner [3]float64 `yaml:"corner"`
	U      [3]float64 `yaml:"u"`
	V      [3]float64 `yaml:"v"`
}

// Width is the number of cells along X
func (l *Level) Width() int {
	if len(l.Layout) == 0 {
		return 0
	}
	return len(l.Layout[0]) / 2
}

// Depth is the number of cells along Z
func (l *Level) Depth() int {
	return len(l.Layout) / 2
}

// At returns the layout character at doubled-grid position (x, z), or '#'
// outside the layout so that the border is always solid
func (l *Level) At(x, z int) byte {
	if z < 0 || z >= len(l.Layout) || x < 0 || x >= len(l.Layout[z]) {
		return '#'
	}
	return l.Layout[z][x]
}

// StartPose returns the start position as a Pose
func (l *Level) StartPose() Pose {
	return Pose{X: l.Start.X, Y: l.Start.Y, Z: l.Start.Z, Heading: l.Start.Heading * math.Pi / 180}
}

// Validate checks the layout shape and that every character has a meaning
func (l *Level) Validate(legend Legend) error {
	if len(l.Layout) < 3 || len(l.Layout)%2 == 0 {
		return fmt.Errorf("%w: layout needs an odd number of rows (at least 3), got %d", ErrInvalidLevel, len(l.Layout))
	}
	width := len(l.Layout[0])
	if width < 3 || width%2 == 0 {
		return fmt.Errorf("%w: layout rows need an odd length (at least 3), got %d", ErrInvalidLevel, width)
	}

	var errs []error
	for z, row := range l.Layout {
		if len(row) != width {
			errs = append(errs, fmt.Errorf("%w: row %d has length %d, want %d", ErrInvalidLevel, z, len(row), width))
			continue
		}
		for x := 0; x < len(row); x++ {
			c := row[x]
			if c == ' ' {
				continue
			}
			if (x+z)%2 == 0 {
				// corners between walls carry no geometry
				continue
			}
			if _, ok := legend.Walls[c]; !ok {
				errs = append(errs, fmt.Errorf("%w: unknown tile %q at row %d column %d", ErrInvalidLevel, c, z, x))
			}
		}
	}
	for i, p := range l.Props {
		if len(p.Tile) != 1 {
			errs = append(errs, fmt.Errorf("%w: prop %d tile %q must be one character", ErrInvalidLevel, i, p.Tile))
			continue
		}
		if _, ok := legend.Walls[p.Tile[0]]; !ok {
			errs = append(errs, fmt.Errorf("%w: prop %d uses unknown tile %q", ErrInvalidLevel, i, p.Tile))
		}
	}
	for key := range l.Tiles {
		if len(key) != 1 {
			errs = append(errs, fmt.Errorf("%w: tile override key %q must be one character", ErrInvalidLevel, key))
		}
	}
	return errors.Join(errs...)
}

// LoadLevel reads a YAML level file
func LoadLevel(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open level: %w", err)
	}
	defer f.Close()

	level, err := DecodeLevel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return level, nil
}

// DecodeLevel reads a YAML level. Unknown keys are rejected.
func DecodeLevel(r io.Reader) (*Level, error) {
	var level Level
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return &level, nil
}

// Rows is a level layout. In YAML it is either a list of rows or a single
// block string with one row per line.
type Rows []string

// UnmarshalYAML accepts both layout forms
func (r *Rows) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = ParseLayout(node.Value)
		return nil
	}
	var rows []string
	if err := node.Decode(&rows); err != nil {
		return err
	}
	*r = trimLayout(rows)
	return nil
}

// ParseLayout splits a multi-line layout string into rows
func ParseLayout(s string) []string {
	return trimLayout(strings.Split(s, "\n"))
}

func trimLayout(rows []string) []string {
	var out []string
	for _, row := range rows {
		out = append(out, strings.TrimRight(row, "\r"))
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

// BuiltinLevel returns the dungeon shipped with the program
func BuiltinLevel() *Level {
	return &Level{
		Name: "dungeon",
		Layout: ParseLayout(`#################
D               #
# #####d####### #
# #   S S       #
# #S# # # #######
#   S   S       #
# # #S#S####### #
# #   #     #   #
#X### # ### # ###
#   #   #   #   #
####### # #######
# #     #       #
# # ########### #
#   #           #
# ### ######### #
#   #     #     #
#################`),
		Start: StartPose{X: 0.5, Y: -0.5, Z: 0.5, Heading: -180},
		Chest: [2]int{3, 9},
		Props: []Prop{
			{Tile: "m", Corner: [3]float64{0, -1, 2.75}, U: [3]float64{0, 1, 0}, V: [3]float64{1, 0, 0}},
			{Tile: "q", Corner: [3]float64{-1, -0.75, 1.25}, U: [3]float64{0, 0.75, 0}, V: [3]float64{0.75, 0, 0}},
			{Tile: "c", Corner: [3]float64{1.75, -0.5, 4.25}, U: [3]float64{0, 0.5, 0}, V: [3]float64{0, 0, 0.5}},
		},
	}
}
