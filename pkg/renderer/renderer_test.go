package renderer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/integrator"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
	"github.com/df07/go-dungeon-raytracer/pkg/world"
)

func flat(c core.Color4) material.Material {
	return material.NewFlat(material.NewConstantTexture(c))
}

// frontCamera looks down +Z from the origin with a 90° field of view
func frontCamera(t *testing.T) Camera {
	t.Helper()
	cam, err := NewPerspectiveCamera(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), math.Pi/2, math.Pi/2)
	require.NoError(t, err)
	return cam
}

func newImage(t *testing.T, w, h int) *core.Image {
	t.Helper()
	img, err := core.NewImage(w, h)
	require.NoError(t, err)
	return img
}

// layeredWorld has a checkered back wall, a half transparent pane and a small opaque card
func layeredWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(nil)

	checker := core.MustImage(2, 2)
	checker.Fill(core.Opaque(0.9, 0.8, 0.1))
	require.NoError(t, checker.SetPixel(0, 0, core.Opaque(0.1, 0.2, 0.7)))
	require.NoError(t, checker.SetPixel(1, 1, core.Opaque(0.1, 0.2, 0.7)))
	back := w.Materials.Register(material.NewFlat(material.NewImageTexture(checker).WithBorder(material.BorderRepeat)))
	pane := w.Materials.Register(flat(core.NewColor4(1, 0, 0, 0.4)))
	card := w.Materials.Register(flat(core.Opaque(0, 1, 0)))

	mapper := geometry.NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(4, 0, 0), core.NewPoint3(0, 4, 0))
	w.Scene.MustAdd(
		geometry.MustQuad(core.NewPoint3(-3, -3, 5), core.NewVec3(6, 0, 0), core.NewVec3(0, 6, 0), geometry.WithMaterial(back), geometry.WithMapper(mapper)),
		geometry.MustQuad(core.NewPoint3(-0.8, -0.8, 2), core.NewVec3(1.6, 0, 0), core.NewVec3(0, 1.6, 0), geometry.WithMaterial(pane)),
		geometry.MustTriangle(core.NewPoint3(0.1, 0.1, 1.5), core.NewVec3(0.4, 0, 0), core.NewVec3(0, 0.4, 0), geometry.WithMaterial(card)),
	)
	return w
}

func TestRenderer_QuadFootprint(t *testing.T) {
	w := world.New(nil)
	c := core.Opaque(0.25, 0.5, 0.75)
	id := w.Materials.Register(flat(c))
	w.Scene.MustAdd(geometry.MustQuad(core.NewPoint3(-0.6, -0.6, 1), core.NewVec3(1.2, 0, 0), core.NewVec3(0, 1.2, 0), geometry.WithMaterial(id)))

	img := newImage(t, 5, 5)
	stats, err := New(frontCamera(t), integrator.NewRayTracer(w), Options{Workers: 1}).Render(img)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.Pixels)

	// screen coordinates are -1, -0.5, 0, 0.5, 1; the quad covers |x|,|y| <= 0.6
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := core.Black
			if x >= 1 && x <= 3 && y >= 1 && y <= 3 {
				want = c
			}
			assert.Equal(t, want, img.Pixel(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestRenderer_Transparency(t *testing.T) {
	w := world.New(nil)
	far := w.Materials.Register(flat(core.Opaque(0, 0, 1)))
	near := w.Materials.Register(flat(core.NewColor4(1, 0, 0, 0.5)))
	w.Scene.MustAdd(
		geometry.MustQuad(core.NewPoint3(-2, -2, 2), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), geometry.WithMaterial(far)),
		geometry.MustQuad(core.NewPoint3(-2, -2, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), geometry.WithMaterial(near)),
	)

	img := newImage(t, 3, 3)
	_, err := New(frontCamera(t), integrator.NewRayTracer(w), DefaultOptions()).Render(img)
	require.NoError(t, err)

	for _, px := range img.Pixels {
		assert.InDelta(t, 0.5, px.R, 1e-12)
		assert.InDelta(t, 0.0, px.G, 1e-12)
		assert.InDelta(t, 0.5, px.B, 1e-12)
		assert.InDelta(t, 1.0, px.A, 1e-12)
	}
}

type constIntegrator core.Color4

func (c constIntegrator) Radiance(core.Ray) core.Color4 { return core.Color4(c) }

func TestRenderer_ClampsOutput(t *testing.T) {
	img := newImage(t, 4, 2)
	r := New(frontCamera(t), constIntegrator(core.NewColor4(2, -1, 0.5, 3)), Options{Workers: 1})
	_, err := r.Render(img)
	require.NoError(t, err)

	for _, px := range img.Pixels {
		assert.Equal(t, core.NewColor4(1, 0, 0.5, 1), px)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	w := layeredWorld(t)
	rt := integrator.NewRayTracer(w)

	reference := newImage(t, 37, 23)
	_, err := New(frontCamera(t), rt, Options{Workers: 1, TileSize: 8}).Render(reference)
	require.NoError(t, err)

	configs := []Options{
		{Workers: 1, TileSize: 8},
		{Workers: 2, TileSize: 5},
		{Workers: 4, TileSize: 3},
		{Workers: 0, TileSize: 16},
		{Workers: 64, TileSize: 64},
	}
	for _, opts := range configs {
		img := newImage(t, 37, 23)
		stats, err := New(frontCamera(t), rt, opts).Render(img)
		require.NoError(t, err)
		assert.Equal(t, reference.Pixels, img.Pixels, "options %+v", opts)
		assert.Equal(t, 37*23, stats.Pixels)
		assert.Len(t, NewTileGrid(37, 23, opts.TileSize), stats.Tiles)

		done := 0
		for _, n := range stats.TilesPerWorker {
			done += n
		}
		assert.Equal(t, stats.Tiles, done)
		assert.Len(t, stats.TilesPerWorker, stats.Workers)
	}
}

func TestRenderer_MutationBetweenRenders(t *testing.T) {
	w := world.New(nil)
	id := w.Materials.Register(flat(core.Opaque(1, 0, 0)))
	w.Scene.MustAdd(geometry.MustQuad(core.NewPoint3(-5, -5, 1), core.NewVec3(10, 0, 0), core.NewVec3(0, 10, 0), geometry.WithMaterial(id)))
	r := New(frontCamera(t), integrator.NewRayTracer(w), Options{Workers: 2, TileSize: 2})

	first := newImage(t, 4, 4)
	_, err := r.Render(first)
	require.NoError(t, err)
	snapshot := first.Clone()

	require.NoError(t, w.Materials.Set(id, flat(core.Opaque(0, 1, 0))))

	second := newImage(t, 4, 4)
	_, err = r.Render(second)
	require.NoError(t, err)

	assert.Equal(t, snapshot.Pixels, first.Pixels, "a finished frame is never touched again")
	for _, px := range second.Pixels {
		assert.Equal(t, core.Opaque(0, 1, 0), px)
	}
}

type panicIntegrator struct{}

func (panicIntegrator) Radiance(ray core.Ray) core.Color4 {
	if ray.Direction.X > 0.9 {
		panic("bad sample")
	}
	return core.White
}

func TestRenderer_RecoversPanics(t *testing.T) {
	for _, workers := range []int{1, 3} {
		img := newImage(t, 8, 8)
		_, err := New(frontCamera(t), panicIntegrator{}, Options{Workers: workers, TileSize: 4}).Render(img)
		assert.ErrorIs(t, err, ErrTileFailed, "workers=%d", workers)
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := New(frontCamera(t), constIntegrator(core.White), DefaultOptions())
	_, err := r.Render(nil)
	assert.ErrorIs(t, err, ErrNoTarget)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		r := New(frontCamera(t), constIntegrator(core.White), Options{Workers: workers, TileSize: 2})
		_, err = r.RenderContext(ctx, newImage(t, 8, 8))
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestRenderStats_PixelsPerSecond(t *testing.T) {
	assert.Zero(t, RenderStats{Pixels: 10}.PixelsPerSecond())
	assert.InDelta(t, 20.0, RenderStats{Pixels: 10, RenderTime: 500_000_000}.PixelsPerSecond(), 1e-9)
}
