package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
	"github.com/df07/go-dungeon-raytracer/pkg/world"
)

// ErrMissingTile is returned when the legend points past the end of the tileset
var ErrMissingTile = errors.New("scene: tile index out of range")

// World toggles defined by a dungeon
const (
	ToggleDoor  = "door"
	ToggleChest = "chest"
)

// skyColor is used when the legend has no sky tile
var skyColor = core.Opaque(183.0/255, 225.0/255, 243.0/255)

// Dungeon is a world built from a level layout
type Dungeon struct {
	World   *world.World
	Level   *Level
	Handles map[byte]core.MaterialID // Material handle per layout character
}

// wallMapper maps a wall quad (U down the wall, V along it) onto a whole tile
var wallMapper = geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(0, 1, 0), core.NewPoint3(1, 0, 0))

// BuildDungeon turns a level into geometry and materials. Every solid showing
// the same layout character shares one material handle, so swapping the
// handle's material (a door opening) changes all of them at once.
func BuildDungeon(level *Level, tiles []*core.Image, legend Legend, debug bool) (*Dungeon, error) {
	legend = legend.WithOverrides(level.Tiles)
	if err := level.Validate(legend); err != nil {
		return nil, err
	}

	d := &Dungeon{
		World:   world.New(geometry.NewScene()),
		Level:   level,
		Handles: make(map[byte]core.MaterialID),
	}
	tile := func(idx int, what string) (*core.Image, error) {
		if idx < 0 || idx >= len(tiles) {
			return nil, fmt.Errorf("%w: %s uses tile %d of %d", ErrMissingTile, what, idx, len(tiles))
		}
		return tiles[idx], nil
	}
	flatTile := func(idx int, what string, border material.Border, interp material.Interpolation) (core.MaterialID, error) {
		img, err := tile(idx, what)
		if err != nil {
			return core.NoMaterial, err
		}
		tex := &material.ImageTexture{Image: img, Border: border, Interpolation: interp}
		return d.World.Materials.Register(material.NewFlat(tex)), nil
	}

	w, h := float64(level.Width()), float64(level.Depth())

	var sky core.MaterialID
	if legend.Sky < 0 {
		sky = d.World.Materials.Register(material.NewFlat(material.NewConstantTexture(skyColor)))
	} else {
		var err error
		if sky, err = flatTile(legend.Sky, "sky", material.BorderRepeat, material.Linear); err != nil {
			return nil, err
		}
	}
	floor, err := flatTile(legend.Floor, "floor", material.BorderRepeat, material.Nearest)
	if err != nil {
		return nil, err
	}
	ceiling, err := flatTile(legend.Ceiling, "ceiling", material.BorderRepeat, material.Nearest)
	if err != nil {
		return nil, err
	}

	for _, c := range level.usedTiles() {
		id, err := flatTile(legend.Walls[c], fmt.Sprintf("tile %q", c), material.BorderClamp, material.Nearest)
		if err != nil {
			return nil, err
		}
		d.Handles[c] = id
	}
	if err := d.defineToggle(ToggleDoor, 'D', legend.DoorOpen, tile); err != nil {
		return nil, err
	}
	if err := d.defineToggle(ToggleChest, 'c', legend.ChestOpen, tile); err != nil {
		return nil, err
	}

	scene := d.World.Scene
	add := func(corner core.Point3, u, v core.Vec3, id core.MaterialID, mapper geometry.CoordMapper) error {
		q, err := geometry.NewQuad(corner, u, v, geometry.WithMaterial(id), geometry.WithMapper(mapper))
		if err != nil {
			return err
		}
		_, err = scene.Add(q)
		return err
	}

	// sky, ground and ceiling, textures repeated across their extent
	surfaces := []struct {
		corner core.Point3
		u, v   core.Vec3
		id     core.MaterialID
		mapper geometry.CoordMapper
	}{
		{core.NewPoint3(-1000, -20, -1000), core.NewVec3(2000+w, 0, 0), core.NewVec3(0, 0, 2000+h), sky,
			geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(10+w, 0, 0), core.NewPoint3(0, 20+h, 0))},
		{core.NewPoint3(-100, 0, -100), core.NewVec3(200+w, 0, 0), core.NewVec3(0, 0, 200+h), floor,
			geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(200+w, 0, 0), core.NewPoint3(0, 200+h, 0))},
		{core.NewPoint3(0, -1, 0), core.NewVec3(w, 0, 0), core.NewVec3(0, 0, h), ceiling,
			geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(w, 0, 0), core.NewPoint3(0, h, 0))},
	}
	for _, s := range surfaces {
		if err := add(s.corner, s.u, s.v, s.id, s.mapper); err != nil {
			return nil, err
		}
	}

	for i, p := range level.Props {
		corner := core.NewPoint3(p.Corner[0], p.Corner[1], p.Corner[2])
		u := core.NewVec3(p.U[0], p.U[1], p.U[2])
		v := core.NewVec3(p.V[0], p.V[1], p.V[2])
		if err := add(corner, u, v, d.Handles[p.Tile[0]], wallMapper); err != nil {
			return nil, fmt.Errorf("%w: prop %d: %v", ErrInvalidLevel, i, err)
		}
	}

	down := core.NewVec3(0, 1, 0)
	// walls along X live on even rows
	for z := 0; z <= level.Depth(); z++ {
		for x := 0; x < level.Width(); x++ {
			if c := level.At(2*x+1, 2*z); c != ' ' {
				if err := add(core.NewPoint3(float64(x), -1, float64(z)), down, core.NewVec3(1, 0, 0), d.Handles[c], wallMapper); err != nil {
					return nil, err
				}
			}
		}
	}
	// walls along Z live on odd rows
	for z := 0; z < level.Depth(); z++ {
		for x := 0; x <= level.Width(); x++ {
			if c := level.At(2*x, 2*z+1); c != ' ' {
				if err := add(core.NewPoint3(float64(x), -1, float64(z)), down, core.NewVec3(0, 0, 1), d.Handles[c], wallMapper); err != nil {
					return nil, err
				}
			}
		}
	}

	if debug {
		d.World.Materials.SetOverride(material.NewDummy())
	}
	return d, nil
}

// defineToggle installs an open/closed swap for a layout character in use
func (d *Dungeon) defineToggle(name string, c byte, onTile int, tile func(int, string) (*core.Image, error)) error {
	id, used := d.Handles[c]
	if !used || onTile < 0 {
		return nil
	}
	off, ok := d.World.Materials.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", world.ErrUnknownMaterial, name)
	}
	img, err := tile(onTile, name)
	if err != nil {
		return err
	}
	return d.World.DefineToggle(name, id, off, material.NewFlat(material.NewImageTexture(img)))
}

// usedTiles lists the characters appearing as walls or props, sorted
func (l *Level) usedTiles() []byte {
	seen := make(map[byte]bool)
	for z, row := range l.Layout {
		for x := 0; x < len(row); x++ {
			if row[x] != ' ' && (x+z)%2 == 1 {
				seen[row[x]] = true
			}
		}
	}
	for _, p := range l.Props {
		seen[p.Tile[0]] = true
	}
	used := make([]byte, 0, len(seen))
	for c := range seen {
		used = append(used, c)
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })
	return used
}
