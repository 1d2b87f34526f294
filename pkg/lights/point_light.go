package lights

import "github.com/df07/go-dungeon-raytracer/pkg/core"

// PointLight emits uniformly from a single position with inverse-square falloff
type PointLight struct {
	Position core.Point3
	Power    core.Color4
}

// NewPointLight creates a point light at position with the given intensity at unit distance
func NewPointLight(position core.Point3, intensity core.Color4) *PointLight {
	return &PointLight{Position: position, Power: intensity}
}

// Hit returns the unit direction and distance from point to the light
func (l *PointLight) Hit(point core.Point3) LightHit {
	toLight := l.Position.Sub(point)
	return LightHit{
		Direction: toLight.Normalize(),
		Distance:  toLight.Length(),
	}
}

// Intensity scales the light's power by 1/distance². A light sitting on the
// surface contributes nothing.
func (l *PointLight) Intensity(hit LightHit) core.Color4 {
	if hit.Distance <= 0 {
		return core.Color4{A: l.Power.A}
	}
	return l.Power.Scale(1 / (hit.Distance * hit.Distance))
}
