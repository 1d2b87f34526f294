package geometry

import (
	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// Solid is a primitive that can be hit by rays.
// The set is closed (Quad, Triangle); every solid embeds surface.
type Solid interface {
	// Intersect returns the hit of ray with the solid, or nil.
	// When best is non-nil only hits that strictly precede it are reported.
	Intersect(ray core.Ray, best *Intersection) *Intersection
	Material() core.MaterialID
	Mapper() CoordMapper
	// Index is the insertion order in the owning Scene, or -1 when unattached.
	Index() int

	base() *surface
}

// CoordMapper maps a hit's local coordinates to a texture-space point
type CoordMapper interface {
	Coords(hit *Intersection) core.Point3
}

// Option configures optional solid properties
type Option func(*surface)

// WithMaterial sets the material handle of a solid
func WithMaterial(id core.MaterialID) Option {
	return func(s *surface) {
		s.material = id
	}
}

// WithMapper sets the texture coordinate mapper of a solid
func WithMapper(m CoordMapper) Option {
	return func(s *surface) {
		s.mapper = m
	}
}

// surface holds the properties shared by every solid
type surface struct {
	index    int
	material core.MaterialID
	mapper   CoordMapper
}

func newSurface(opts []Option) surface {
	s := surface{index: -1, material: core.NoMaterial}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *surface) Material() core.MaterialID { return s.material }
func (s *surface) Mapper() CoordMapper       { return s.mapper }
func (s *surface) Index() int                { return s.index }
func (s *surface) base() *surface            { return s }
