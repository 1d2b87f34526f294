package integrator

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/world"
)

const (
	// MaxDepth bounds recursion through transparent surfaces
	MaxDepth = 16

	// ShadowEpsilon separates shadow rays from the surface they leave
	ShadowEpsilon = 1e-4
)

// DepthExceeded is returned when a ray passes through more than MaxDepth
// transparent surfaces
var DepthExceeded = core.Red

// RayTracer shades the first surface along a ray from its emission, composites
// transparent surfaces front to back and adds direct light from unshadowed lights.
type RayTracer struct {
	world    *world.World
	maxDepth int
	epsilon  float64
}

// Option configures a RayTracer
type Option func(*RayTracer)

// WithMaxDepth overrides the transparency recursion bound
func WithMaxDepth(depth int) Option {
	return func(rt *RayTracer) {
		rt.maxDepth = depth
	}
}

// WithShadowEpsilon overrides the shadow ray offset
func WithShadowEpsilon(eps float64) Option {
	return func(rt *RayTracer) {
		rt.epsilon = eps
	}
}

// NewRayTracer creates a ray tracer over w
func NewRayTracer(w *world.World, opts ...Option) *RayTracer {
	rt := &RayTracer{world: w, maxDepth: MaxDepth, epsilon: ShadowEpsilon}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Radiance computes the color along ray
func (rt *RayTracer) Radiance(ray core.Ray) core.Color4 {
	return rt.radiance(ray, 0, nil)
}

func (rt *RayTracer) radiance(ray core.Ray, depth int, lower *geometry.Intersection) core.Color4 {
	hit := rt.world.Scene.Intersect(ray, lower, nil)
	if hit == nil {
		return core.Black
	}
	if depth >= rt.maxDepth {
		return DepthExceeded
	}

	mat, ok := rt.world.Material(hit.Solid)
	if !ok {
		return core.Black
	}

	point := texturePoint(hit)
	color := mat.Emission(point, hit.Normal, ray.Direction)

	if color.A < 1 {
		// look past this surface along the same ray
		behind := rt.radiance(ray, depth+1, hit)
		color = color.Over(behind)
	}

	if len(rt.world.Lights) == 0 {
		return color
	}

	hitPoint := hit.HitPoint()
	// shadow rays start just in front of the surface, on the viewer's side
	shadowOrigin := hitPoint.Offset(ray.Direction.Normalize(), -rt.epsilon)

	for _, light := range rt.world.Lights {
		lh := light.Hit(hitPoint)
		if lh.Direction.IsZero() {
			continue
		}

		shadowRay := core.NewRay(shadowOrigin, lh.Direction)
		if occluder := rt.world.Scene.Intersect(shadowRay, nil, nil); occluder != nil && occluder.Distance < lh.Distance-rt.epsilon {
			continue
		}

		normal := hit.Normal
		if normal.Dot(lh.Direction) < 0 {
			normal = normal.Negate()
		}

		reflected := mat.Reflectance(point, normal, ray.Direction, lh.Direction)
		color = color.Add(light.Intensity(lh).Mul(reflected))
	}

	return color
}
