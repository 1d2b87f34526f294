package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/lights"
	"github.com/df07/go-dungeon-raytracer/pkg/log"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
	"github.com/df07/go-dungeon-raytracer/pkg/world"
)

// ErrUnknownScene is returned by Build for unregistered scene names
var ErrUnknownScene = errors.New("scene: unknown scene")

// DefaultFOV is the horizontal and vertical view angle in degrees
const DefaultFOV = 90

// DefaultCell is the tile size used for the generated tileset
const DefaultCell = 32

var logger = log.New("scene")

// Scene is a world ready to render plus where to look at it from
type Scene struct {
	Name    string
	World   *world.World
	Start   Pose
	FOV     float64
	Dungeon *Dungeon // Set for level based scenes

	torch []*lights.PointLight // Carried by the player in debug mode
}

// Follow moves the lights the player carries to p. Call it before rendering
// each frame, never during a render.
func (s *Scene) Follow(p Pose) {
	for _, l := range s.torch {
		l.Position = p.Position()
	}
}

// Torch returns the positions of the carried lights
func (s *Scene) Torch() []core.Point3 {
	positions := make([]core.Point3, len(s.torch))
	for i, l := range s.torch {
		positions[i] = l.Position
	}
	return positions
}

// Options customise scene construction
type Options struct {
	Level  *Level        // Defaults to BuiltinLevel
	Tiles  []*core.Image // Defaults to the generated tileset
	Legend *Legend       // Defaults to GeneratedLegend, or AtlasLegend when Tiles are given
	Debug  bool          // Shade everything with the dummy material and carry a torch
}

// Info describes a registered scene
type Info struct {
	Name        string
	Description string
}

type entry struct {
	info  Info
	build func(Options) (*Scene, error)
}

var registry = map[string]entry{
	"dungeon": {
		Info{"dungeon", "Walkable dungeon level with walls, door, chest and sprites"},
		buildDungeonScene,
	},
	"quad": {
		Info{"quad", "Single textured quad in front of the camera"},
		buildQuadScene,
	},
	"transparency": {
		Info{"transparency", "Overlapping translucent panes over an opaque backdrop"},
		buildTransparencyScene,
	},
	"lights": {
		Info{"lights", "Phong floor lit by two point lights with a shadow casting card"},
		buildLightsScene,
	},
}

// List returns the registered scenes sorted by name
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, e := range registry {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Build constructs a registered scene by name
func Build(name string, opts Options) (*Scene, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	s, err := e.build(opts)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	s.Name = name
	if opts.Debug && s.Dungeon == nil {
		s.World.Materials.SetOverride(material.NewDummy())
	}
	logger.Infof("built scene %s: %d solids, %d lights, %d materials",
		name, s.World.Scene.Len(), len(s.World.Lights), s.World.Materials.Len())
	return s, nil
}

// Torch colors carried by the player in debug mode
var (
	torchColor = core.Opaque(1.0, 0.95, 0.8).Scale(0.5)
	blueColor  = core.Opaque(0, 0, 1).Scale(0.2)
)

func buildDungeonScene(opts Options) (*Scene, error) {
	level := opts.Level
	if level == nil {
		level = BuiltinLevel()
	}
	tiles, legend := opts.Tiles, opts.Legend
	if tiles == nil {
		generated, err := GeneratedTileset(DefaultCell)
		if err != nil {
			return nil, err
		}
		tiles = generated
		if legend == nil {
			l := GeneratedLegend()
			legend = &l
		}
	}
	if legend == nil {
		l := AtlasLegend()
		legend = &l
	}

	d, err := BuildDungeon(level, tiles, *legend, opts.Debug)
	if err != nil {
		return nil, err
	}
	sc := &Scene{World: d.World, Start: level.StartPose(), FOV: DefaultFOV, Dungeon: d}
	if opts.Debug {
		for _, c := range []core.Color4{torchColor, blueColor} {
			l := lights.NewPointLight(sc.Start.Position(), c)
			d.World.AddLight(l)
			sc.torch = append(sc.torch, l)
		}
	}
	return sc, nil
}

// backdrop is a large opaque wall behind the small test scenes
func backdrop(w *world.World, c core.Color4) error {
	id := w.Materials.Register(material.NewFlat(material.NewConstantTexture(c)))
	q, err := geometry.NewQuad(core.NewPoint3(-50, -50, 20), core.NewVec3(100, 0, 0), core.NewVec3(0, 100, 0), geometry.WithMaterial(id))
	if err != nil {
		return err
	}
	_, err = w.Scene.Add(q)
	return err
}

func buildQuadScene(opts Options) (*Scene, error) {
	tiles, err := GeneratedTileset(DefaultCell)
	if err != nil {
		return nil, err
	}
	w := world.New(nil)
	tex := material.NewImageTexture(tiles[TileBrick]).WithBorder(material.BorderRepeat)
	id := w.Materials.Register(material.NewFlat(tex))
	mapper := geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(0, 2, 0), core.NewPoint3(2, 0, 0))
	q, err := geometry.NewQuad(core.NewPoint3(-1, -1, 2), core.NewVec3(0, 2, 0), core.NewVec3(2, 0, 0),
		geometry.WithMaterial(id), geometry.WithMapper(mapper))
	if err != nil {
		return nil, err
	}
	if _, err := w.Scene.Add(q); err != nil {
		return nil, err
	}
	if err := backdrop(w, core.Opaque(183.0/255, 225.0/255, 243.0/255)); err != nil {
		return nil, err
	}
	return &Scene{World: w, FOV: DefaultFOV}, nil
}

func buildTransparencyScene(opts Options) (*Scene, error) {
	w := world.New(nil)
	panes := []struct {
		corner core.Point3
		color  core.Color4
	}{
		{core.NewPoint3(-1.2, -1, 3), core.NewColor4(1, 0, 0, 0.5)},
		{core.NewPoint3(-0.4, -0.6, 4), core.NewColor4(0, 1, 0, 0.5)},
		{core.NewPoint3(0.2, -0.2, 5), core.NewColor4(0, 0, 1, 0.5)},
	}
	for _, p := range panes {
		id := w.Materials.Register(material.NewFlat(material.NewConstantTexture(p.color)))
		q, err := geometry.NewQuad(p.corner, core.NewVec3(0, 1.5, 0), core.NewVec3(1.5, 0, 0), geometry.WithMaterial(id))
		if err != nil {
			return nil, err
		}
		if _, err := w.Scene.Add(q); err != nil {
			return nil, err
		}
	}
	if err := backdrop(w, core.White); err != nil {
		return nil, err
	}
	return &Scene{World: w, FOV: DefaultFOV}, nil
}

func buildLightsScene(opts Options) (*Scene, error) {
	w := world.New(nil,
		lights.NewPointLight(core.NewPoint3(-1, -2, 3), core.Opaque(1, 0.9, 0.7).Scale(4)),
		lights.NewPointLight(core.NewPoint3(1.5, -1.5, 5), core.Opaque(0.3, 0.4, 1).Scale(3)),
	)
	floor := w.Materials.Register(material.NewPhong(material.NewConstantTexture(core.White), 8))
	card := w.Materials.Register(material.NewDummy())
	solids := []geometry.Solid{
		geometry.MustQuad(core.NewPoint3(-10, 0, 0), core.NewVec3(20, 0, 0), core.NewVec3(0, 0, 20), geometry.WithMaterial(floor)),
		geometry.MustTriangle(core.NewPoint3(-0.5, -0.1, 3.5), core.NewVec3(1, 0, 0), core.NewVec3(0.5, -1, 0), geometry.WithMaterial(card)),
	}
	for _, s := range solids {
		if _, err := w.Scene.Add(s); err != nil {
			return nil, err
		}
	}
	return &Scene{World: w, Start: Pose{Y: -1}, FOV: DefaultFOV}, nil
}
