package geometry

import (
	"fmt"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Triangle represents a triangle defined by a corner and two edge vectors
type Triangle struct {
	surface
	Corner core.Point3
	U      core.Vec3
	V      core.Vec3
	Normal core.Vec3
}

// NewTriangle creates a new triangle from a corner and two edge vectors
func NewTriangle(corner core.Point3, u, v core.Vec3, opts ...Option) (*Triangle, error) {
	normal := core.Normal(u, v)
	if normal.IsZero() {
		return nil, fmt.Errorf("%w: triangle edges %v and %v are parallel or zero", ErrDegenerate, u, v)
	}
	return &Triangle{
		surface: newSurface(opts),
		Corner:  corner,
		U:       u,
		V:       v,
		Normal:  normal,
	}, nil
}

// MustTriangle is NewTriangle for edges known to be valid
func MustTriangle(corner core.Point3, u, v core.Vec3, opts ...Option) *Triangle {
	tr, err := NewTriangle(corner, u, v, opts...)
	if err != nil {
		panic(err)
	}
	return tr
}

// NewTriangleFromPoints creates a triangle from its three vertices
func NewTriangleFromPoints(p0, p1, p2 core.Point3, opts ...Option) (*Triangle, error) {
	return NewTriangle(p0, p1.Sub(p0), p2.Sub(p0), opts...)
}

// Intersect tests if a ray hits the triangle using the Möller-Trumbore algorithm
func (tr *Triangle) Intersect(ray core.Ray, best *Intersection) *Intersection {
	h := ray.Direction.Cross(tr.V)
	a := tr.U.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -parallelEpsilon && a < parallelEpsilon {
		return nil
	}

	f := 1.0 / a
	offset := ray.Origin.Sub(tr.Corner)
	s := f * offset.Dot(h)
	if s < 0 || s > 1 {
		return nil
	}

	q := offset.Cross(tr.U)
	r := f * ray.Direction.Dot(q)
	if r < 0 || s+r > 1 {
		return nil
	}

	t := f * tr.V.Dot(q)
	if t < 0 {
		return nil
	}
	if best != nil && !precedes(t, tr.index, best) {
		return nil
	}

	return &Intersection{
		Solid:    tr,
		Ray:      ray,
		Distance: t,
		Normal:   tr.Normal,
		Local:    core.NewPoint3(1-s-r, s, r),
	}
}
