package scene

// Legend maps layout characters and fixed surfaces to tileset indices
type Legend struct {
	Walls     map[byte]int // Layout character to tile index
	Floor     int
	Ceiling   int
	Sky       int // -1 paints a flat sky color
	DoorOpen  int // Tile shown for 'D' when the door toggle is on, -1 disables the toggle
	ChestOpen int // Tile shown for 'c' when the chest toggle is on, -1 disables the toggle
}

// AtlasLegend indexes the 64-column 32x32 fantasy atlas the dungeon was drawn with
func AtlasLegend() Legend {
	return Legend{
		Walls: map[byte]int{
			'#': 19*64 - 20,
			'S': 18*64 + 32,
			'D': 11*64 + 32 - 5 - 4,
			'd': 15*64 + 34,
			'm': 3*64 + 1,   // dragon
			'X': 17*64 + 11, // magic wall
			'q': 9*64 + 27,  // queen
			'c': 45*64 + 44, // chest
		},
		Floor:     13*64 + 18,
		Ceiling:   19*64 - 18,
		Sky:       -1,
		DoorOpen:  11*64 + 32 - 5,
		ChestOpen: 45*64 + 45,
	}
}

// GeneratedLegend indexes the tiles produced by GeneratedTileset
func GeneratedLegend() Legend {
	return Legend{
		Walls: map[byte]int{
			'#': TileBrick,
			'S': TileStone,
			'D': TileDoorClosed,
			'd': TileDoorway,
			'm': TileMonster,
			'X': TileMagicWall,
			'q': TileQueen,
			'c': TileChestClosed,
		},
		Floor:     TileFloor,
		Ceiling:   TileCeiling,
		Sky:       TileSky,
		DoorOpen:  TileDoorOpen,
		ChestOpen: TileChestOpen,
	}
}

// WithOverrides returns a copy with per-character tile indices replaced
func (l Legend) WithOverrides(tiles map[string]int) Legend {
	walls := make(map[byte]int, len(l.Walls)+len(tiles))
	for c, idx := range l.Walls {
		walls[c] = idx
	}
	for key, idx := range tiles {
		if len(key) == 1 {
			walls[key[0]] = idx
		}
	}
	l.Walls = walls
	return l
}
