package material

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// DummyMaterial shades every surface as grey by the cosine between normal and light.
// It is substituted for all materials in debug mode.
type DummyMaterial struct{}

// NewDummy creates the debug material
func NewDummy() *DummyMaterial {
	return &DummyMaterial{}
}

// Emission is opaque black so the surface stops the ray
func (m *DummyMaterial) Emission(point core.Point3, normal, outDir core.Vec3) core.Color4 {
	return core.Black
}

// Reflectance returns dot(n, in)/|in| as an opaque grey
func (m *DummyMaterial) Reflectance(point core.Point3, normal, outDir, inDir core.Vec3) core.Color4 {
	l := inDir.Length()
	if l == 0 {
		return core.Black
	}
	g := normal.Dot(inDir) / l
	return core.NewColor4(g, g, g, 1)
}
