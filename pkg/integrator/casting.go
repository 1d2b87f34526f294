package integrator

import (
	"math"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
)

// palette tells solids apart when Casting colors by solid index
var palette = []core.Color4{
	core.Opaque(0.902, 0.098, 0.294), core.Opaque(0.235, 0.706, 0.294), core.Opaque(1.000, 0.882, 0.098),
	core.Opaque(0.000, 0.510, 0.784), core.Opaque(0.961, 0.510, 0.188), core.Opaque(0.569, 0.118, 0.706),
	core.Opaque(0.275, 0.941, 0.941), core.Opaque(0.941, 0.196, 0.902), core.Opaque(0.824, 0.961, 0.235),
	core.Opaque(0.980, 0.745, 0.745), core.Opaque(0.000, 0.502, 0.502), core.Opaque(0.902, 0.745, 1.000),
	core.Opaque(0.667, 0.431, 0.157), core.Opaque(1.000, 0.980, 0.784), core.Opaque(0.502, 0.000, 0.000),
	core.Opaque(0.667, 1.000, 0.765), core.Opaque(0.502, 0.502, 0.000), core.Opaque(1.000, 0.843, 0.706),
	core.Opaque(0.000, 0.000, 0.502), core.Opaque(0.502, 0.502, 0.502), core.Opaque(1.000, 1.000, 1.000),
}

// Casting shades every surface by the angle between the ray and the surface
// normal. Materials and lights are ignored.
type Casting struct {
	scene    *geometry.Scene
	colorize bool
}

// NewCasting creates a casting integrator over scene
func NewCasting(scene *geometry.Scene) *Casting {
	return &Casting{scene: scene}
}

// Colorized returns a casting integrator that tints each solid by its index
func (c *Casting) Colorized() *Casting {
	return &Casting{scene: c.scene, colorize: true}
}

// Radiance returns |cos| between the normal and ray as an opaque grey
func (c *Casting) Radiance(ray core.Ray) core.Color4 {
	hit := c.scene.Intersect(ray, nil, nil)
	if hit == nil {
		return core.Black
	}
	l := ray.Direction.Length()
	if l == 0 {
		return core.Black
	}
	g := math.Abs(hit.Normal.Dot(ray.Direction)) / l
	if c.colorize && hit.Solid.Index() >= 0 {
		return palette[hit.Solid.Index()%len(palette)].Scale(g)
	}
	return core.Opaque(g, g, g)
}
