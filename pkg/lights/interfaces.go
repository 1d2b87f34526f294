package lights

import "github.com/df07/go-dungeon-raytracer/pkg/core"

// Light interface for sources that contribute direct lighting.
// The set is closed: PointLight is the only implementation.
type Light interface {
	// Hit describes the light as seen from a surface point.
	// Direction points FROM the surface point TO the light.
	Hit(point core.Point3) LightHit

	// Intensity is the light arriving along a hit computed by Hit
	Intensity(hit LightHit) core.Color4
}

// LightHit describes the geometric relation between a surface point and a light
type LightHit struct {
	Direction core.Vec3  // Unit direction from the surface point to the light
	Distance  float64    // Distance from the surface point to the light
	Normal    *core.Vec3 // Normal of the emitting surface, nil for point sources
}
