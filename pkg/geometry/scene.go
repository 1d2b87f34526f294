package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// ErrAlreadyAdded is returned when a solid is added to a second scene or twice
var ErrAlreadyAdded = errors.New("geometry: solid already belongs to a scene")

// Scene is an insertion-ordered collection of solids queried by linear scan
type Scene struct {
	solids []Solid
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{}
}

// Add appends a solid and assigns its tie-break index
func (sc *Scene) Add(solid Solid) (int, error) {
	b := solid.base()
	if b.index >= 0 {
		return 0, fmt.Errorf("%w (index %d)", ErrAlreadyAdded, b.index)
	}
	b.index = len(sc.solids)
	sc.solids = append(sc.solids, solid)
	return b.index, nil
}

// MustAdd is Add for solids known to be fresh
func (sc *Scene) MustAdd(solids ...Solid) {
	for _, s := range solids {
		if _, err := sc.Add(s); err != nil {
			panic(err)
		}
	}
}

// Len returns the number of solids
func (sc *Scene) Len() int {
	return len(sc.solids)
}

// Solids returns the solids in insertion order
func (sc *Scene) Solids() []Solid {
	out := make([]Solid, len(sc.solids))
	copy(out, sc.solids)
	return out
}

// Intersect returns the nearest hit of ray that comes strictly after lower and
// strictly before upper (either bound may be nil), or nil when nothing qualifies.
func (sc *Scene) Intersect(ray core.Ray, lower, upper *Intersection) *Intersection {
	best := upper
	var found *Intersection

	for _, solid := range sc.solids {
		hit := solid.Intersect(ray, best)
		if hit == nil {
			continue
		}
		if lower != nil && !lower.Before(hit) {
			continue
		}
		best = hit
		found = hit
	}

	return found
}
