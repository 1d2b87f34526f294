package config

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
width = 120
height = 80
workers = 2
integrator = "casting"
debug = true
colorize = true

[tileset]
path = "gfx/tileset.png"
transparency_key = "#ff00ff"

[camera]
use_start = false
x = 1.5
heading = 90

[item]
path = "gfx/swords.png"
index = 3

[[lights]]
position = [0.5, -0.5, 0.5]
color = [1.0, 0.95, 0.8]
intensity = 0.5
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, IntegratorCasting, cfg.Integrator)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Colorize)
	assert.Equal(t, "gfx/tileset.png", cfg.Tileset.Path)
	assert.Equal(t, 32, cfg.Tileset.CellWidth, "unset keys keep their defaults")
	assert.Equal(t, 1.5, cfg.Camera.X)
	assert.Equal(t, -0.5, cfg.Camera.Y)
	assert.Equal(t, 90.0, cfg.Camera.Heading)
	assert.False(t, cfg.Camera.UseStart)
	assert.Equal(t, 3, cfg.Item.Index)
	assert.Equal(t, 2, cfg.Item.Scale)
	require.Len(t, cfg.Lights, 1)
	assert.Equal(t, [3]float64{1.0, 0.95, 0.8}, cfg.Lights[0].Color)

	key, err := cfg.Tileset.Key()
	require.NoError(t, err)
	assert.Equal(t, &color.NRGBA{R: 255, G: 0, B: 255, A: 255}, key)

	assert.NoError(t, cfg.Validate())
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("widht = 10\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Decode(strings.NewReader("width = \n"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.TileSize = -1
	cfg.Integrator = "pathtracer"
	cfg.Camera.FOV = 180
	cfg.Output.Scale = 0
	cfg.Tileset.TransparencyKey = "cyan"
	cfg.Item.Path = "items.png"
	cfg.Item.Index = -1
	cfg.Tileset.Legend = "runes"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, fragment := range []string{"frame size", "tile_size", "pathtracer", "fov", "output scale", "cyan", "item index", "runes"} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestValidate_Orthographic(t *testing.T) {
	cfg := Default()
	cfg.Camera.Projection = ProjectionOrthographic
	cfg.Camera.FOV = 0
	assert.NoError(t, cfg.Validate())

	cfg.Camera.Scale = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Camera.Projection = "fisheye"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("00ffff")
	require.NoError(t, err)
	assert.Equal(t, &color.NRGBA{R: 0, G: 255, B: 255, A: 255}, c)

	for _, bad := range []string{"", "#fff", "#gggggg", "#0000000"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidConfig, bad)
	}
}
