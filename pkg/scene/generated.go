package scene

import (
	"image"
	"math"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Tiles of the generated tileset
const (
	TileBrick = iota
	TileStone
	TileDoorClosed
	TileDoorOpen
	TileDoorway
	TileMonster
	TileMagicWall
	TileQueen
	TileChestClosed
	TileChestOpen
	TileFloor
	TileCeiling
	TileSky
	tileCount
)

const atlasColumns = 8

// painter returns the color of a tile at normalized position (u, v)
// and integer pixel position (x, y)
type painter func(u, v float64, x, y int) core.Color4

var painters = [tileCount]painter{
	TileBrick:       paintBrick,
	TileStone:       paintStone,
	TileDoorClosed:  paintDoor(false),
	TileDoorOpen:    paintDoor(true),
	TileDoorway:     paintDoorway,
	TileMonster:     paintMonster,
	TileMagicWall:   paintMagicWall,
	TileQueen:       paintQueen,
	TileChestClosed: paintChest(false),
	TileChestOpen:   paintChest(true),
	TileFloor:       paintFloor,
	TileCeiling:     paintCeiling,
	TileSky:         paintSky,
}

// GeneratedAtlas paints every generated tile into one atlas image,
// atlasColumns tiles per row
func GeneratedAtlas(cell int) (*core.Image, error) {
	rows := (tileCount + atlasColumns - 1) / atlasColumns
	atlas, err := core.NewImage(cell*atlasColumns, cell*rows)
	if err != nil {
		return nil, err
	}
	atlas.Fill(core.Transparent)

	for i, paint := range painters {
		ox, oy := tileBounds(i, cell).Min.X, tileBounds(i, cell).Min.Y
		for y := 0; y < cell; y++ {
			for x := 0; x < cell; x++ {
				u := (float64(x) + 0.5) / float64(cell)
				v := (float64(y) + 0.5) / float64(cell)
				if err := atlas.SetPixel(ox+x, oy+y, paint(u, v, x, y)); err != nil {
					return nil, err
				}
			}
		}
	}
	return atlas, nil
}

// GeneratedTileset returns the generated tiles, sliced from the atlas exactly
// like a tileset loaded from disk
func GeneratedTileset(cell int) ([]*core.Image, error) {
	atlas, err := GeneratedAtlas(cell)
	if err != nil {
		return nil, err
	}
	tiles, err := atlas.Tileset(cell, cell)
	if err != nil {
		return nil, err
	}
	return tiles[:tileCount], nil
}

// hash is a deterministic value noise in [0, 1]
func hash(x, y, seed int) float64 {
	h := uint32(x*374761393 + y*668265263 + seed*1442695041)
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / math.MaxUint32
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

func inEllipse(u, v, cu, cv, ru, rv float64) bool {
	du, dv := (u-cu)/ru, (v-cv)/rv
	return du*du+dv*dv <= 1
}

func paintBrick(u, v float64, x, y int) core.Color4 {
	row := math.Floor(v * 4)
	offset := 0.25 * math.Mod(row, 2)
	if frac(v*4) < 0.1 || frac(u*2+offset) < 0.06 {
		return core.Opaque(0.55, 0.53, 0.5)
	}
	n := 0.85 + 0.15*hash(x, y, 1)
	return core.Opaque(0.6*n, 0.28*n, 0.2*n)
}

func paintStone(u, v float64, x, y int) core.Color4 {
	if frac(u*2) < 0.06 || frac(v*2) < 0.06 {
		return core.Opaque(0.2, 0.2, 0.22)
	}
	block := hash(int(u*2), int(v*2), 2)
	n := 0.4 + 0.15*block + 0.1*hash(x, y, 3)
	return core.Opaque(n, n, n*1.05)
}

func doorFrame(u, v float64) bool {
	return u < 0.12 || u > 0.88 || v < 0.12
}

func paintDoor(open bool) painter {
	return func(u, v float64, x, y int) core.Color4 {
		if doorFrame(u, v) {
			return core.Opaque(0.45, 0.45, 0.48)
		}
		if open {
			return core.Opaque(0.04, 0.03, 0.03)
		}
		if frac(u*5) < 0.08 {
			return core.Opaque(0.25, 0.14, 0.06)
		}
		if inEllipse(u, v, 0.75, 0.55, 0.04, 0.04) {
			return core.Opaque(0.9, 0.8, 0.2)
		}
		n := 0.9 + 0.1*hash(x/2, y, 4)
		return core.Opaque(0.5*n, 0.3*n, 0.12*n)
	}
}

func paintDoorway(u, v float64, x, y int) core.Color4 {
	if doorFrame(u, v) {
		return core.Opaque(0.45, 0.45, 0.48)
	}
	return core.Transparent
}

func paintMonster(u, v float64, x, y int) core.Color4 {
	switch {
	case inEllipse(u, v, 0.38, 0.4, 0.06, 0.06), inEllipse(u, v, 0.62, 0.4, 0.06, 0.06):
		return core.Opaque(1, 0.1, 0.05)
	case inEllipse(u, v, 0.5, 0.72, 0.16, 0.05):
		return core.Opaque(0.95, 0.95, 0.9)
	case inEllipse(u, v, 0.5, 0.55, 0.38, 0.42):
		n := 0.8 + 0.2*hash(x, y, 5)
		return core.Opaque(0.15*n, 0.55*n, 0.2*n)
	}
	return core.Transparent
}

func paintMagicWall(u, v float64, x, y int) core.Color4 {
	swirl := 0.5 + 0.5*math.Sin(10*u+6*v+4*math.Sin(8*v))
	return core.NewColor4(0.45+0.3*swirl, 0.15, 0.7+0.3*swirl, 0.45+0.35*swirl)
}

func paintQueen(u, v float64, x, y int) core.Color4 {
	switch {
	case v > 0.12 && v < 0.22 && u > 0.4 && u < 0.6 && frac(u*15) < 0.5:
		return core.Opaque(1, 0.84, 0)
	case inEllipse(u, v, 0.5, 0.32, 0.1, 0.11):
		return core.Opaque(0.96, 0.8, 0.65)
	case v > 0.42 && math.Abs(u-0.5) < 0.08+0.35*(v-0.42):
		return core.Opaque(0.7, 0.1, 0.55)
	}
	return core.Transparent
}

func paintChest(open bool) painter {
	return func(u, v float64, x, y int) core.Color4 {
		if u < 0.1 || u > 0.9 || v > 0.92 {
			return core.Transparent
		}
		if open && v > 0.15 && v < 0.45 && u > 0.18 && u < 0.82 {
			return core.Opaque(1, 0.82, 0.1).Scale(0.85 + 0.15*hash(x, y, 6))
		}
		if v < 0.45 {
			if open {
				return core.Transparent
			}
			if v < 0.3 && !inEllipse(u, v, 0.5, 0.45, 0.4, 0.3) {
				return core.Transparent
			}
		}
		if math.Abs(v-0.5) < 0.04 || math.Abs(u-0.5) < 0.04 {
			return core.Opaque(0.6, 0.6, 0.62)
		}
		return core.Opaque(0.45, 0.26, 0.1)
	}
}

func paintFloor(u, v float64, x, y int) core.Color4 {
	n := hash(x, y, 7)
	return core.Opaque(0.25+0.1*n, 0.45+0.2*n, 0.15+0.05*n)
}

func paintCeiling(u, v float64, x, y int) core.Color4 {
	n := 0.18 + 0.06*hash(x, y, 8)
	return core.Opaque(n, n, n)
}

func paintSky(u, v float64, x, y int) core.Color4 {
	sky := core.Opaque(183.0/255, 225.0/255, 243.0/255)
	cloud := hash(x/3, y/2, 9)
	if cloud > 0.8 {
		return sky.Lerp(core.White, (cloud-0.8)*4)
	}
	return sky.Lerp(core.Opaque(0.35, 0.55, 0.85), v*0.5)
}

// tileBounds returns where tile i sits in the generated atlas
func tileBounds(i, cell int) image.Rectangle {
	ox, oy := (i%atlasColumns)*cell, (i/atlasColumns)*cell
	return image.Rect(ox, oy, ox+cell, oy+cell)
}
