package loaders

import (
	"context"
	"fmt"
	"image/color"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// TilesetSpec describes an atlas image cut into equally sized cells
type TilesetSpec struct {
	Path            string
	CellWidth       int
	CellHeight      int
	TransparencyKey *color.NRGBA // nil keeps every pixel opaque
}

// LoadTileset loads an atlas and slices it row by row into cells
func LoadTileset(spec TilesetSpec) ([]*core.Image, error) {
	atlas, err := LoadImage(spec.Path, spec.TransparencyKey)
	if err != nil {
		return nil, err
	}
	tiles, err := atlas.Tileset(spec.CellWidth, spec.CellHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Path, err)
	}
	logger.Infof("tileset %s: %d tiles of %dx%d", spec.Path, len(tiles), spec.CellWidth, spec.CellHeight)
	return tiles, nil
}

// LoadTilesets loads several atlases concurrently. Results keep the order of specs;
// the first failure cancels the remaining loads.
func LoadTilesets(ctx context.Context, specs ...TilesetSpec) ([][]*core.Image, error) {
	results := make([][]*core.Image, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tiles, err := LoadTileset(spec)
			if err != nil {
				return err
			}
			results[i] = tiles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
