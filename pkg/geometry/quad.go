package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// ErrDegenerate is returned for solids whose edges do not span a plane
var ErrDegenerate = errors.New("geometry: degenerate solid")

// parallelEpsilon is the smallest |d·n| still treated as crossing the plane
const parallelEpsilon = 1e-12

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	surface
	Corner core.Point3 // One corner of the quad
	U      core.Vec3   // First edge vector
	V      core.Vec3   // Second edge vector
	Normal core.Vec3   // Unit normal (U × V)

	// Gram terms of the edge basis, cached for the projection of hit points
	uu, uv, vv, det float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner core.Point3, u, v core.Vec3, opts ...Option) (*Quad, error) {
	normal := core.Normal(u, v)
	if normal.IsZero() {
		return nil, fmt.Errorf("%w: quad edges %v and %v are parallel or zero", ErrDegenerate, u, v)
	}

	uu, uv, vv := u.Dot(u), u.Dot(v), v.Dot(v)
	return &Quad{
		surface: newSurface(opts),
		Corner:  corner,
		U:       u,
		V:       v,
		Normal:  normal,
		uu:      uu,
		uv:      uv,
		vv:      vv,
		det:     uv*uv - uu*vv,
	}, nil
}

// MustQuad is NewQuad for edges known to be valid
func MustQuad(corner core.Point3, u, v core.Vec3, opts ...Option) *Quad {
	q, err := NewQuad(corner, u, v, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// Intersect tests if a ray hits the quad
func (q *Quad) Intersect(ray core.Ray, best *Intersection) *Intersection {
	// Ray parallel to the plane never hits
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < parallelEpsilon {
		return nil
	}

	t := q.Normal.Dot(q.Corner.Sub(ray.Origin)) / denominator
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return nil
	}
	if best != nil && !precedes(t, q.index, best) {
		return nil
	}

	// Project the hit onto the edge basis: w = s*U + t*V
	w := ray.At(t).Sub(q.Corner)
	wu, wv := w.Dot(q.U), w.Dot(q.V)
	s := (q.uv*wv - q.vv*wu) / q.det
	r := (q.uv*wu - q.uu*wv) / q.det

	if s < 0 || s > 1 || r < 0 || r > 1 {
		return nil
	}

	return &Intersection{
		Solid:    q,
		Ray:      ray,
		Distance: t,
		Normal:   q.Normal,
		Local:    core.NewPoint3(1-s-r, s, r),
	}
}
