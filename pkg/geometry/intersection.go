package geometry

import (
	"errors"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// ErrDifferentRays is returned when comparing hits that belong to different rays
var ErrDifferentRays = errors.New("geometry: cannot compare intersections of different rays")

// Intersection records a ray hit on a solid
type Intersection struct {
	Solid    Solid
	Ray      core.Ray
	Distance float64     // Ray parameter of the hit
	Normal   core.Vec3   // Geometric unit normal of the solid (not flipped toward the ray)
	Local    core.Point3 // (1-s-t, s, t) in the solid's edge basis
}

// HitPoint returns the world-space hit position
func (i *Intersection) HitPoint() core.Point3 {
	return i.Ray.At(i.Distance)
}

// Compare orders two hits of the same ray by distance, breaking ties by the
// solids' insertion index. It returns -1, 0 or 1.
func (i *Intersection) Compare(other *Intersection) (int, error) {
	if !i.Ray.Equals(other.Ray) {
		return 0, ErrDifferentRays
	}
	switch {
	case i.Before(other):
		return -1, nil
	case other.Before(i):
		return 1, nil
	default:
		return 0, nil
	}
}

// Before reports whether i strictly precedes other. Both must belong to the same ray.
func (i *Intersection) Before(other *Intersection) bool {
	return precedes(i.Distance, i.Solid.Index(), other)
}

// precedes reports whether a hit at distance by the solid with the given index
// would come strictly before best.
func precedes(distance float64, index int, best *Intersection) bool {
	if distance != best.Distance {
		return distance < best.Distance
	}
	return index < best.Solid.Index()
}
