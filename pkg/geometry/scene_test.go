package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// wallAt creates a 2x2 quad facing the Z axis at depth z
func wallAt(z float64, opts ...Option) *Quad {
	return MustQuad(core.NewPoint3(-1, -1, z), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), opts...)
}

func TestScene_AddAssignsIndices(t *testing.T) {
	scene := NewScene()
	a, b := wallAt(1), wallAt(2)

	idx, err := scene.Add(a)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = scene.Add(b)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = scene.Add(a)
	assert.ErrorIs(t, err, ErrAlreadyAdded)

	_, err = NewScene().Add(b)
	assert.ErrorIs(t, err, ErrAlreadyAdded, "a solid belongs to one scene only")

	assert.Equal(t, 2, scene.Len())
	assert.Equal(t, []Solid{a, b}, scene.Solids())
}

func TestScene_IntersectNearest(t *testing.T) {
	scene := NewScene()
	far, near, middle := wallAt(5), wallAt(1), wallAt(3)
	scene.MustAdd(far, near, middle)

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1))
	hit := scene.Intersect(ray, nil, nil)
	require.NotNil(t, hit)
	assert.Same(t, near, hit.Solid)
	assert.InDelta(t, 1.0, hit.Distance, 1e-12)
}

func TestScene_IntersectMiss(t *testing.T) {
	scene := NewScene()
	scene.MustAdd(wallAt(1), wallAt(2))

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, -1))
	assert.Nil(t, scene.Intersect(ray, nil, nil))

	assert.Nil(t, NewScene().Intersect(ray, nil, nil), "empty scene never hits")
}

func TestScene_IntersectLowerBound(t *testing.T) {
	scene := NewScene()
	near, far := wallAt(1), wallAt(2)
	scene.MustAdd(near, far)

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1))
	first := scene.Intersect(ray, nil, nil)
	require.NotNil(t, first)

	second := scene.Intersect(ray, first, nil)
	require.NotNil(t, second)
	assert.Same(t, far, second.Solid)

	assert.Nil(t, scene.Intersect(ray, second, nil), "nothing beyond the last surface")
}

func TestScene_IntersectUpperBound(t *testing.T) {
	scene := NewScene()
	near, far := wallAt(1), wallAt(2)
	scene.MustAdd(near, far)

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1))
	farHit := far.Intersect(ray, nil)
	require.NotNil(t, farHit)

	hit := scene.Intersect(ray, nil, farHit)
	require.NotNil(t, hit)
	assert.Same(t, near, hit.Solid)

	nearHit := near.Intersect(ray, nil)
	assert.Nil(t, scene.Intersect(ray, nil, nearHit), "nothing is closer than the nearest surface")
}

func TestScene_CoincidentSurfacesDeterministic(t *testing.T) {
	scene := NewScene()
	a, b := wallAt(1), wallAt(1)
	scene.MustAdd(a, b)

	ray := core.NewRay(core.NewPoint3(0.3, 0.2, 0), core.NewVec3(0, 0, 1))
	for i := 0; i < 10; i++ {
		hit := scene.Intersect(ray, nil, nil)
		require.NotNil(t, hit)
		assert.Same(t, a, hit.Solid, "lower insertion index wins")
	}

	// re-tracing past the first coincident surface reaches the second one
	first := scene.Intersect(ray, nil, nil)
	second := scene.Intersect(ray, first, nil)
	require.NotNil(t, second)
	assert.Same(t, b, second.Solid)
	assert.Nil(t, scene.Intersect(ray, second, nil))
}

func TestIntersection_Compare(t *testing.T) {
	scene := NewScene()
	a, b := wallAt(1), wallAt(2)
	scene.MustAdd(a, b)

	ray := core.NewRay(core.NewPoint3(0, 0, 0), core.NewVec3(0, 0, 1))
	ha, hb := a.Intersect(ray, nil), b.Intersect(ray, nil)

	c, err := ha.Compare(hb)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = hb.Compare(ha)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = ha.Compare(ha)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	other := a.Intersect(core.NewRay(core.NewPoint3(0.1, 0, 0), core.NewVec3(0, 0, 1)), nil)
	_, err = ha.Compare(other)
	assert.ErrorIs(t, err, ErrDifferentRays)
}

func TestTriangleMapper_Coords(t *testing.T) {
	quad := MustQuad(core.NewPoint3(3, -1, 2), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0))
	mapper := NewTriangleMapper(core.NewPoint3(0, 0, 0), core.NewPoint3(0, 1, 0), core.NewPoint3(1, 0, 0))

	// hit a quarter of the way along V and at 0.6 along U
	ray := core.NewRay(core.NewPoint3(3.25, -0.4, 0), core.NewVec3(0, 0, 1))
	hit := quad.Intersect(ray, nil)
	require.NotNil(t, hit)

	p := mapper.Coords(hit)
	assert.InDelta(t, 0.25, p.X, 1e-12, "texture x follows V")
	assert.InDelta(t, 0.6, p.Y, 1e-12, "texture y follows U")
	assert.InDelta(t, 0.0, p.Z, 1e-12)

	scaled := NewTriangleMapper(core.NewPoint3(1, 1, 1), core.NewPoint3(11, 1, 1), core.NewPoint3(1, 21, 1))
	q := scaled.Coords(&Intersection{Local: core.NewPoint3(0.5, 0.25, 0.25)})
	// 0.5*(1,1,1) + 0.25*(11,1,1) + 0.25*(1,21,1)
	assert.Equal(t, core.NewPoint3(3.5, 6, 1), q)
}
