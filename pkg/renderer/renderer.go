package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/integrator"
	"github.com/df07/go-dungeon-raytracer/pkg/log"
)

var (
	ErrNoTarget   = errors.New("renderer: nil target image")
	ErrTileFailed = errors.New("renderer: tile failed")
)

// Options controls how a frame is split into work
type Options struct {
	Workers  int // Number of parallel workers (0 = use CPU count, 1 = sequential)
	TileSize int // Edge length of square tiles in pixels
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Workers:  0,
		TileSize: 16,
	}
}

// Renderer turns a camera and an integrator into pixels
type Renderer struct {
	camera     Camera
	integrator integrator.Integrator
	options    Options
	logger     log.Logger
}

// New creates a renderer
func New(camera Camera, integ integrator.Integrator, options Options) *Renderer {
	if options.TileSize <= 0 {
		options.TileSize = DefaultOptions().TileSize
	}
	return &Renderer{
		camera:     camera,
		integrator: integ,
		options:    options,
		logger:     log.New("renderer"),
	}
}

// SetCamera replaces the camera used by later renders
func (r *Renderer) SetCamera(camera Camera) {
	r.camera = camera
}

// Camera returns the current camera
func (r *Renderer) Camera() Camera {
	return r.camera
}

// Render fills every pixel of target with the clamped radiance seen through it.
// The world must not be mutated until Render returns.
func (r *Renderer) Render(target *core.Image) (RenderStats, error) {
	return r.RenderContext(context.Background(), target)
}

// RenderContext is Render with cancellation checked between tiles
func (r *Renderer) RenderContext(ctx context.Context, target *core.Image) (RenderStats, error) {
	if target == nil {
		return RenderStats{}, ErrNoTarget
	}
	start := time.Now()
	tiles := NewTileGrid(target.Width, target.Height, r.options.TileSize)

	var (
		stats RenderStats
		err   error
	)
	if r.options.Workers == 1 || len(tiles) <= 1 {
		stats, err = r.renderSequential(ctx, tiles, target)
	} else {
		stats, err = r.renderParallel(ctx, tiles, target)
	}
	stats.Tiles = len(tiles)
	stats.RenderTime = time.Since(start)

	if err != nil {
		return stats, err
	}
	r.logger.Debugf("rendered %dx%d in %v (%d tiles, %d workers)",
		target.Width, target.Height, stats.RenderTime, stats.Tiles, stats.Workers)
	return stats, nil
}

func (r *Renderer) renderSequential(ctx context.Context, tiles []*Tile, target *core.Image) (RenderStats, error) {
	stats := RenderStats{Workers: 1, TilesPerWorker: []int{0}}
	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		pixels, err := r.renderTileSafe(tile, target)
		if err != nil {
			return stats, err
		}
		stats.Pixels += pixels
		stats.TilesPerWorker[0]++
	}
	return stats, nil
}

func (r *Renderer) renderParallel(ctx context.Context, tiles []*Tile, target *core.Image) (RenderStats, error) {
	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := NewWorkerPool(r, len(tiles), min(workers, len(tiles)))
	pool.Start()

	submitted := 0
	for _, tile := range tiles {
		if ctx.Err() != nil {
			break
		}
		pool.SubmitTask(TileTask{Tile: tile, Target: target})
		submitted++
	}
	pool.Stop()

	stats := RenderStats{
		Workers:        pool.GetNumWorkers(),
		TilesPerWorker: make([]int, pool.GetNumWorkers()),
	}
	var errs []error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			errs = append(errs, result.Error)
			continue
		}
		stats.Pixels += result.Pixels
		stats.TilesPerWorker[result.WorkerID]++
	}

	if submitted < len(tiles) {
		errs = append(errs, fmt.Errorf("render cancelled after %d of %d tiles: %w", submitted, len(tiles), ctx.Err()))
	}
	return stats, errors.Join(errs...)
}

// renderTile writes the pixels of one tile and returns how many it wrote
func (r *Renderer) renderTile(tile *Tile, target *core.Image) int {
	w, h := target.Width, target.Height
	b := tile.Bounds
	for py := b.Min.Y; py < b.Max.Y; py++ {
		y := screenCoord(py, h)
		for px := b.Min.X; px < b.Max.X; px++ {
			ray := r.camera.PrimaryRay(screenCoord(px, w), y)
			target.Pixels[py*w+px] = r.integrator.Radiance(ray).Trim()
		}
	}
	return b.Dx() * b.Dy()
}

// PixelRay returns the primary ray through pixel (px, py) of a width by height frame
func PixelRay(cam Camera, px, py, width, height int) core.Ray {
	return cam.PrimaryRay(screenCoord(px, width), screenCoord(py, height))
}

// screenCoord maps pixel p of n to [-1, 1]; a single pixel maps to the center
func screenCoord(p, n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2*float64(p)/float64(n-1) - 1
}
