package material

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// FlatMaterial is an unshaded surface whose emission is its texture.
// Walls, floor, ceiling, sky and sprites all use it.
type FlatMaterial struct {
	Texture Texture
}

// NewFlat creates a new flat material
func NewFlat(texture Texture) *FlatMaterial {
	return &FlatMaterial{Texture: texture}
}

// Emission samples the texture at the mapped point
func (m *FlatMaterial) Emission(point core.Point3, normal, outDir core.Vec3) core.Color4 {
	if m.Texture == nil {
		return core.Transparent
	}
	return m.Texture.Color(point)
}

// Reflectance is always zero: flat surfaces ignore lights
func (m *FlatMaterial) Reflectance(point core.Point3, normal, outDir, inDir core.Vec3) core.Color4 {
	return core.Transparent
}
