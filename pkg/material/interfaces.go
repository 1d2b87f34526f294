package material

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Material describes how a surface contributes color.
// The set is closed: FlatMaterial, PhongMaterial and DummyMaterial.
type Material interface {
	// Emission returns the unshaded color of the surface seen along outDir.
	// Its alpha is the surface opacity.
	Emission(point core.Point3, normal, outDir core.Vec3) core.Color4

	// Reflectance returns the response to light arriving from inDir (pointing toward the light)
	Reflectance(point core.Point3, normal, outDir, inDir core.Vec3) core.Color4
}

// Texture maps a texture-space point to a color.
// The set is closed: ConstantTexture and ImageTexture.
type Texture interface {
	Color(point core.Point3) core.Color4
}
