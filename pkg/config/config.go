package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig wraps every validation problem
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Integrator names accepted in configuration
const (
	IntegratorRayTracer = "raytracer"
	IntegratorCasting   = "casting"
)

// Tile legends accepted in configuration
const (
	LegendAtlas     = "atlas"
	LegendGenerated = "generated"
)

// Camera projections accepted in configuration
const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

// Config holds everything needed to build and render a frame
type Config struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Workers    int    `toml:"workers"`   // 0 = one per CPU, 1 = sequential
	TileSize   int    `toml:"tile_size"` // Edge of square render tiles in pixels
	Debug      bool   `toml:"debug"`     // Replace every material with the debug material
	Colorize   bool   `toml:"colorize"`  // Tint solids by index with the casting integrator
	Integrator string `toml:"integrator"`
	LogLevel   string `toml:"log_level"`

	Scene string `toml:"scene"` // Built-in scene name
	Level string `toml:"level"` // Optional YAML level file, overrides the built-in layout

	Tileset TilesetConfig `toml:"tileset"`
	Camera  CameraConfig  `toml:"camera"`
	Output  OutputConfig  `toml:"output"`
	Item    ItemConfig    `toml:"item"`
	Lights  []LightConfig `toml:"lights"`
}

// TilesetConfig locates the texture atlas. An empty path uses the generated tileset.
type TilesetConfig struct {
	Path            string `toml:"path"`
	CellWidth       int    `toml:"cell_width"`
	CellHeight      int    `toml:"cell_height"`
	TransparencyKey string `toml:"transparency_key"` // "#rrggbb", empty disables keying
	Legend          string `toml:"legend"`           // Index layout of the atlas: atlas or generated
}

// CameraConfig positions the viewer. Angles are in degrees.
type CameraConfig struct {
	Projection string  `toml:"projection"`
	UseStart   bool    `toml:"use_start"` // Start at the scene's own pose and ignore x, y, z and heading
	X          float64 `toml:"x"`
	Y          float64 `toml:"y"`
	Z          float64 `toml:"z"`
	Heading    float64 `toml:"heading"`
	FOV        float64 `toml:"fov"`
	Scale      float64 `toml:"scale"` // View width in world units for orthographic projection
}

// OutputConfig controls where frames are written
type OutputConfig struct {
	Path  string `toml:"path"`
	Scale int    `toml:"scale"` // Integer upscale applied before writing
}

// ItemConfig is a held-item sprite drawn over every frame, taken from a
// tileset, mirrored and enlarged. An empty path disables it.
type ItemConfig struct {
	Path       string `toml:"path"`
	Index      int    `toml:"index"`
	CellWidth  int    `toml:"cell_width"`
	CellHeight int    `toml:"cell_height"`
	Scale      int    `toml:"scale"`
	X          int    `toml:"x"`
	Y          int    `toml:"y"`
}

// LightConfig describes a point light
type LightConfig struct {
	Position  [3]float64 `toml:"position"`
	Color     [3]float64 `toml:"color"`
	Intensity float64    `toml:"intensity"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Width:      63,
		Height:     63,
		Workers:    0,
		TileSize:   16,
		Integrator: IntegratorRayTracer,
		LogLevel:   "notice",
		Scene:      "dungeon",
		Tileset: TilesetConfig{
			CellWidth:       32,
			CellHeight:      32,
			TransparencyKey: "#00ffff",
			Legend:          LegendAtlas,
		},
		Camera: CameraConfig{
			Projection: ProjectionPerspective,
			UseStart:   true,
			X:          0.5,
			Y:          -0.5,
			Z:          0.5,
			Heading:    -180,
			FOV:        90,
			Scale:      4,
		},
		Output: OutputConfig{
			Path:  "frame.png",
			Scale: 1,
		},
		Item: ItemConfig{
			Index:      1,
			CellWidth:  32,
			CellHeight: 32,
			Scale:      2,
			X:          8,
			Y:          16,
		},
	}
}

// Load reads a TOML file over the defaults
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Encode writes the configuration as TOML
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every problem in the configuration at once
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		add("frame size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Workers < 0 {
		add("workers %d must not be negative", c.Workers)
	}
	if c.TileSize <= 0 {
		add("tile_size %d must be positive", c.TileSize)
	}
	switch c.Integrator {
	case IntegratorRayTracer, IntegratorCasting:
	default:
		add("unknown integrator %q", c.Integrator)
	}
	if c.Tileset.Path != "" && (c.Tileset.CellWidth <= 0 || c.Tileset.CellHeight <= 0) {
		add("tileset cell %dx%d must be positive", c.Tileset.CellWidth, c.Tileset.CellHeight)
	}
	switch c.Tileset.Legend {
	case LegendAtlas, LegendGenerated:
	default:
		add("unknown tileset legend %q", c.Tileset.Legend)
	}
	if _, err := c.Tileset.Key(); err != nil {
		errs = append(errs, err)
	}
	switch c.Camera.Projection {
	case ProjectionPerspective:
		if !(c.Camera.FOV > 0 && c.Camera.FOV < 180) {
			add("camera fov %g must be in (0, 180) degrees", c.Camera.FOV)
		}
	case ProjectionOrthographic:
		if !(c.Camera.Scale > 0) {
			add("camera scale %g must be positive", c.Camera.Scale)
		}
	default:
		add("unknown camera projection %q", c.Camera.Projection)
	}
	for _, v := range []float64{c.Camera.X, c.Camera.Y, c.Camera.Z, c.Camera.Heading} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			add("camera position and heading must be finite")
			break
		}
	}
	if c.Output.Scale < 1 {
		add("output scale %d must be at least 1", c.Output.Scale)
	}
	if c.Item.Path != "" {
		if c.Item.CellWidth <= 0 || c.Item.CellHeight <= 0 {
			add("item cell %dx%d must be positive", c.Item.CellWidth, c.Item.CellHeight)
		}
		if c.Item.Index < 0 {
			add("item index %d must not be negative", c.Item.Index)
		}
		if c.Item.Scale < 1 {
			add("item scale %d must be at least 1", c.Item.Scale)
		}
	}
	for i, l := range c.Lights {
		if l.Intensity < 0 {
			add("light %d intensity %g must not be negative", i, l.Intensity)
		}
	}
	return errors.Join(errs...)
}

// Key parses the transparency key; nil means no keying
func (t TilesetConfig) Key() (*color.NRGBA, error) {
	if t.TransparencyKey == "" {
		return nil, nil
	}
	return ParseColor(t.TransparencyKey)
}

// ParseColor parses a "#rrggbb" or "rrggbb" hex color
func ParseColor(s string) (*color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("%w: color %q must be #rrggbb", ErrInvalidConfig, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, s, err)
	}
	return &color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
