package geometry

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// TriangleMapper maps local coordinates (l0, l1, l2) to l0*P0 + l1*P1 + l2*P2.
// With a quad's (1-s-t, s, t) convention, P0 is the texture point of the corner,
// P1 the offset along U and P2 the offset along V.
type TriangleMapper struct {
	P0, P1, P2 core.Point3
}

// NewTriangleMapper creates a mapper from three reference points
func NewTriangleMapper(p0, p1, p2 core.Point3) *TriangleMapper {
	return &TriangleMapper{P0: p0, P1: p1, P2: p2}
}

// Coords returns the texture-space point of a hit
func (m *TriangleMapper) Coords(hit *Intersection) core.Point3 {
	l := hit.Local
	return core.Point3{
		X: m.P0.X*l.X + m.P1.X*l.Y + m.P2.X*l.Z,
		Y: m.P0.Y*l.X + m.P1.Y*l.Y + m.P2.Y*l.Z,
		Z: m.P0.Z*l.X + m.P1.Z*l.Y + m.P2.Z*l.Z,
	}
}
