package material

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// ConstantTexture provides a uniform color
type ConstantTexture struct {
	Value core.Color4
}

// NewConstantTexture creates a new constant texture
func NewConstantTexture(c core.Color4) *ConstantTexture {
	return &ConstantTexture{Value: c}
}

// Color returns the constant color regardless of the point
func (t *ConstantTexture) Color(point core.Point3) core.Color4 {
	return t.Value
}
