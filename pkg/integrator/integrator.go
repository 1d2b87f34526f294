package integrator

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Radiance computes the unclamped color seen along a primary ray
	Radiance(ray core.Ray) core.Color4
}

// texturePoint resolves where a hit samples its textures: the solid's mapper
// when present, the world-space hit point otherwise.
func texturePoint(hit *geometry.Intersection) core.Point3 {
	if m := hit.Solid.Mapper(); m != nil {
		return m.Coords(hit)
	}
	return hit.HitPoint()
}
