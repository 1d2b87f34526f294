package material

import (
	"math"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// PhongMaterial is a normalized Phong specular lobe with no emission
type PhongMaterial struct {
	Specular Texture
	Exponent float64
}

// NewPhong creates a new Phong material
func NewPhong(specular Texture, exponent float64) *PhongMaterial {
	return &PhongMaterial{Specular: specular, Exponent: exponent}
}

// Emission is always zero
func (m *PhongMaterial) Emission(point core.Point3, normal, outDir core.Vec3) core.Color4 {
	return core.Transparent
}

// Reflectance evaluates (e+2)/(2π) * max(0, r·in)^e * cos(n, in) * specular,
// where r is the mirror direction of the incoming view ray.
func (m *PhongMaterial) Reflectance(point core.Point3, normal, outDir, inDir core.Vec3) core.Color4 {
	if m.Specular == nil {
		return core.Transparent
	}
	n := normal.Normalize()
	in := inDir.Normalize()
	view := outDir.Normalize()
	if n.IsZero() || in.IsZero() || view.IsZero() {
		return core.Transparent
	}

	cosTheta := n.Dot(in)
	if cosTheta <= 0 {
		return core.Transparent
	}

	r := view.Subtract(n.Multiply(2 * view.Dot(n)))
	lobe := math.Max(0, r.Dot(in))
	if lobe == 0 {
		return core.Transparent
	}

	norm := (m.Exponent + 2) / (2 * math.Pi)
	return m.Specular.Color(point).Scale(norm * math.Pow(lobe, m.Exponent) * cosTheta)
}
