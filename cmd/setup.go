package cmd

import (
	"context"
	"fmt"
	"image/png"
	"math"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-dungeon-raytracer/pkg/config"
	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/display"
	"github.com/df07/go-dungeon-raytracer/pkg/integrator"
	"github.com/df07/go-dungeon-raytracer/pkg/lights"
	"github.com/df07/go-dungeon-raytracer/pkg/loaders"
	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

// session is everything a command needs to produce frames
type session struct {
	cfg      *config.Config
	scene    *scene.Scene
	renderer *renderer.Renderer
	item     *core.Image // Held-item overlay, nil when disabled
}

// loadConfig reads the configuration file (if any), applies flag overrides and validates
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet("scene") {
		cfg.Scene = ctx.String("scene")
	}
	if ctx.IsSet("level") {
		cfg.Level = ctx.String("level")
	}
	if ctx.IsSet("tileset") {
		cfg.Tileset.Path = ctx.String("tileset")
	}
	if ctx.IsSet("legend") {
		cfg.Tileset.Legend = ctx.String("legend")
	}
	if ctx.IsSet("width") {
		cfg.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Height = ctx.Int("height")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		cfg.TileSize = ctx.Int("tile-size")
	}
	if ctx.IsSet("integrator") {
		cfg.Integrator = ctx.String("integrator")
	}
	if ctx.IsSet("debug") {
		cfg.Debug = ctx.Bool("debug")
	}
	if ctx.IsSet("colorize") {
		cfg.Colorize = ctx.Bool("colorize")
	}
	if ctx.IsSet("projection") {
		cfg.Camera.Projection = ctx.String("projection")
	}
	if ctx.IsSet("fov") {
		cfg.Camera.FOV = ctx.Float64("fov")
	}
	for name, dst := range map[string]*float64{"x": &cfg.Camera.X, "y": &cfg.Camera.Y, "z": &cfg.Camera.Z, "heading": &cfg.Camera.Heading} {
		if ctx.IsSet(name) {
			*dst = ctx.Float64(name)
			cfg.Camera.UseStart = false
		}
	}
	if ctx.IsSet("item") {
		cfg.Item.Path = ctx.String("item")
	}
	if ctx.IsSet("item-index") {
		cfg.Item.Index = ctx.Int("item-index")
	}
	if ctx.IsSet("scale") {
		cfg.Output.Scale = ctx.Int("scale")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogging(ctx, cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sceneOptions loads the level and assets named by cfg
func sceneOptions(ctx context.Context, cfg *config.Config) (scene.Options, *core.Image, error) {
	opts := scene.Options{Debug: cfg.Debug}
	if cfg.Level != "" {
		level, err := scene.LoadLevel(cfg.Level)
		if err != nil {
			return opts, nil, err
		}
		opts.Level = level
	}

	tiles, item, err := loadAssets(ctx, cfg)
	if err != nil {
		return opts, nil, err
	}
	opts.Tiles = tiles
	if tiles != nil && cfg.Tileset.Legend == config.LegendGenerated {
		legend := scene.GeneratedLegend()
		opts.Legend = &legend
	}
	return opts, item, nil
}

// newSession builds the scene, loads assets and prepares a renderer
func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	opts, item, err := sceneOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s, err := scene.Build(cfg.Scene, opts)
	if err != nil {
		return nil, err
	}
	for _, l := range cfg.Lights {
		c := core.Opaque(l.Color[0], l.Color[1], l.Color[2]).Scale(l.Intensity)
		s.World.AddLight(lights.NewPointLight(core.NewPoint3(l.Position[0], l.Position[1], l.Position[2]), c))
	}

	cam, err := newCamera(cfg, startPose(cfg, s))
	if err != nil {
		return nil, err
	}

	var integ integrator.Integrator
	switch cfg.Integrator {
	case config.IntegratorCasting:
		casting := integrator.NewCasting(s.World.Scene)
		if cfg.Colorize {
			casting = casting.Colorized()
		}
		integ = casting
	default:
		integ = integrator.NewRayTracer(s.World)
	}

	r := renderer.New(cam, integ, renderer.Options{Workers: cfg.Workers, TileSize: cfg.TileSize})
	return &session{cfg: cfg, scene: s, renderer: r, item: item}, nil
}

// loadAssets loads the tileset and the held-item sprite concurrently
func loadAssets(ctx context.Context, cfg *config.Config) ([]*core.Image, *core.Image, error) {
	var specs []loaders.TilesetSpec
	if cfg.Tileset.Path != "" {
		key, err := cfg.Tileset.Key()
		if err != nil {
			return nil, nil, err
		}
		specs = append(specs, loaders.TilesetSpec{
			Path:            cfg.Tileset.Path,
			CellWidth:       cfg.Tileset.CellWidth,
			CellHeight:      cfg.Tileset.CellHeight,
			TransparencyKey: key,
		})
	}
	if cfg.Item.Path != "" {
		key, err := cfg.Tileset.Key()
		if err != nil {
			return nil, nil, err
		}
		specs = append(specs, loaders.TilesetSpec{
			Path:            cfg.Item.Path,
			CellWidth:       cfg.Item.CellWidth,
			CellHeight:      cfg.Item.CellHeight,
			TransparencyKey: key,
		})
	}
	if len(specs) == 0 {
		return nil, nil, nil
	}

	sets, err := loaders.LoadTilesets(ctx, specs...)
	if err != nil {
		return nil, nil, err
	}

	var tiles []*core.Image
	if cfg.Tileset.Path != "" {
		tiles, sets = sets[0], sets[1:]
	}
	if cfg.Item.Path == "" {
		return tiles, nil, nil
	}

	items := sets[0]
	if cfg.Item.Index >= len(items) {
		return nil, nil, fmt.Errorf("item index %d out of range: %s has %d tiles", cfg.Item.Index, cfg.Item.Path, len(items))
	}
	// the hand holding the item is on the right
	item, err := loaders.FlipH(items[cfg.Item.Index])
	if err != nil {
		return nil, nil, err
	}
	item, err = loaders.Upscale(item, cfg.Item.Scale)
	if err != nil {
		return nil, nil, err
	}
	return tiles, item, nil
}

// startPose picks the scene start or the configured camera position
func startPose(cfg *config.Config, s *scene.Scene) scene.Pose {
	if cfg.Camera.UseStart {
		return s.Start
	}
	return scene.Pose{X: cfg.Camera.X, Y: cfg.Camera.Y, Z: cfg.Camera.Z, Heading: cfg.Camera.Heading * math.Pi / 180}
}

// newCamera creates the configured projection looking along the pose heading
func newCamera(cfg *config.Config, pose scene.Pose) (renderer.Camera, error) {
	if cfg.Camera.Projection == config.ProjectionOrthographic {
		scaleY := cfg.Camera.Scale * float64(cfg.Height) / float64(cfg.Width)
		return renderer.NewOrthographicCamera(pose.Position(), pose.Forward(), core.NewVec3(0, 1, 0), cfg.Camera.Scale, scaleY)
	}
	return pose.Camera(cfg.Camera.FOV)
}

// frame renders one image at the given pose and draws the held item over it
func (s *session) frame(ctx context.Context, pose scene.Pose) (*core.Image, renderer.RenderStats, error) {
	cam, err := newCamera(s.cfg, pose)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	s.renderer.SetCamera(cam)
	s.scene.Follow(pose)

	img, err := core.NewImage(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	stats, err := s.renderer.RenderContext(ctx, img)
	if err != nil {
		return nil, stats, err
	}
	if s.item != nil {
		display.Overlay(img, s.item, s.cfg.Item.X, s.cfg.Item.Y)
	}
	return img, stats, nil
}

// writePNG upscales img by the output scale and writes it to path
func (s *session) writePNG(img *core.Image, path string) error {
	scaled, err := loaders.Upscale(img, s.cfg.Output.Scale)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(f, scaled.ToNRGBA()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
