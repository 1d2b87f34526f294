package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// unitQuad creates a 1x1 quad in the XZ plane at y=0
func unitQuad(t *testing.T) *Quad {
	t.Helper()
	q, err := NewQuad(core.NewPoint3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	require.NoError(t, err)
	return q
}

func TestQuad_Intersect_BasicIntersection(t *testing.T) {
	quad := unitQuad(t)

	// Ray shooting down at the quad
	ray := core.NewRay(core.NewPoint3(0.25, 1, 0.75), core.NewVec3(0, -1, 0))

	hit := quad.Intersect(ray, nil)
	require.NotNil(t, hit, "expected hit, but got miss")

	assert.InDelta(t, 1.0, hit.Distance, 1e-12)
	assert.Equal(t, core.NewPoint3(0.25, 0, 0.75), hit.HitPoint())
	assert.InDelta(t, 1.0, math.Abs(hit.Normal.Y), 1e-12)

	// local = (1-s-t, s, t) with s along U and t along V
	assert.InDelta(t, 0.25, hit.Local.Y, 1e-12)
	assert.InDelta(t, 0.75, hit.Local.Z, 1e-12)
	assert.InDelta(t, 0.0, hit.Local.X, 1e-12)
	assert.InDelta(t, 1.0, hit.Local.X+hit.Local.Y+hit.Local.Z, 1e-12)
}

func TestQuad_Intersect_CoversWholeParallelogram(t *testing.T) {
	quad := unitQuad(t)

	// (0.9, 0.9) lies outside the lower-left triangle but inside the quad
	ray := core.NewRay(core.NewPoint3(0.9, 1, 0.9), core.NewVec3(0, -1, 0))
	hit := quad.Intersect(ray, nil)
	require.NotNil(t, hit)
	assert.InDelta(t, -0.8, hit.Local.X, 1e-12, "first local component may be negative for quads")
}

func TestQuad_Intersect_OutsideBounds(t *testing.T) {
	quad := unitQuad(t)

	tests := []struct {
		name      string
		rayOrigin core.Point3
	}{
		{"outside X bounds (negative)", core.NewPoint3(-0.5, 1, 0.5)},
		{"outside X bounds (positive)", core.NewPoint3(1.5, 1, 0.5)},
		{"outside Z bounds (negative)", core.NewPoint3(0.5, 1, -0.5)},
		{"outside Z bounds (positive)", core.NewPoint3(0.5, 1, 1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, core.NewVec3(0, -1, 0))
			assert.Nil(t, quad.Intersect(ray, nil))
		})
	}
}

func TestQuad_Intersect_CornerHits(t *testing.T) {
	quad := unitQuad(t)

	corners := []core.Point3{
		{X: 0, Y: 0, Z: 0}, // corner
		{X: 1, Y: 0, Z: 0}, // corner + u
		{X: 0, Y: 0, Z: 1}, // corner + v
		{X: 1, Y: 0, Z: 1}, // corner + u + v
	}

	for i, cornerPoint := range corners {
		t.Run(fmt.Sprintf("corner_%d", i), func(t *testing.T) {
			ray := core.NewRay(cornerPoint.Add(core.NewVec3(0, 1, 0)), core.NewVec3(0, -1, 0))
			assert.NotNil(t, quad.Intersect(ray, nil), "expected hit at corner %v", cornerPoint)
		})
	}
}

func TestQuad_Intersect_ParallelAndBehind(t *testing.T) {
	quad := unitQuad(t)

	parallel := core.NewRay(core.NewPoint3(0.5, 1, 0.5), core.NewVec3(1, 0, 0))
	assert.Nil(t, quad.Intersect(parallel, nil), "parallel ray must not hit")

	inPlane := core.NewRay(core.NewPoint3(-1, 0, 0.5), core.NewVec3(1, 0, 0))
	assert.Nil(t, quad.Intersect(inPlane, nil), "ray inside the plane must not hit")

	behind := core.NewRay(core.NewPoint3(0.5, 1, 0.5), core.NewVec3(0, 1, 0))
	assert.Nil(t, quad.Intersect(behind, nil), "quad behind the origin must not hit")
}

func TestQuad_Intersect_NonUnitDirection(t *testing.T) {
	quad := unitQuad(t)

	ray := core.NewRay(core.NewPoint3(0.5, 4, 0.5), core.NewVec3(0, -2, 0))
	hit := quad.Intersect(ray, nil)
	require.NotNil(t, hit)
	assert.InDelta(t, 2.0, hit.Distance, 1e-12, "distance is the ray parameter")
}

func TestQuad_Intersect_SkewedEdges(t *testing.T) {
	// Non-orthogonal edges: the projection must solve the full 2x2 system
	quad, err := NewQuad(core.NewPoint3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(1, 0, 1))
	require.NoError(t, err)

	ray := core.NewRay(core.NewPoint3(2, 1, 0.5), core.NewVec3(0, -1, 0))
	hit := quad.Intersect(ray, nil)
	require.NotNil(t, hit)
	// (2, 0, 0.5) = 0.75*U + 0.5*V
	assert.InDelta(t, 0.75, hit.Local.Y, 1e-12)
	assert.InDelta(t, 0.5, hit.Local.Z, 1e-12)

	miss := core.NewRay(core.NewPoint3(0.2, 1, 0.9), core.NewVec3(0, -1, 0))
	assert.Nil(t, quad.Intersect(miss, nil))
}

func TestQuad_Intersect_PreviousBestPruning(t *testing.T) {
	near := unitQuad(t)
	far, err := NewQuad(core.NewPoint3(0, -1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	require.NoError(t, err)

	scene := NewScene()
	scene.MustAdd(near, far)

	ray := core.NewRay(core.NewPoint3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	nearHit := near.Intersect(ray, nil)
	require.NotNil(t, nearHit)

	assert.Nil(t, far.Intersect(ray, nearHit), "farther hit must be pruned")
	assert.NotNil(t, near.Intersect(ray, far.Intersect(ray, nil)), "closer hit must pass")
}

func TestQuad_Intersect_TieBreak(t *testing.T) {
	first := unitQuad(t)
	second := unitQuad(t)

	scene := NewScene()
	scene.MustAdd(first, second)

	ray := core.NewRay(core.NewPoint3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	firstHit := first.Intersect(ray, nil)
	secondHit := second.Intersect(ray, nil)
	require.NotNil(t, firstHit)
	require.NotNil(t, secondHit)

	assert.Nil(t, second.Intersect(ray, firstHit), "higher index loses the tie")
	assert.NotNil(t, first.Intersect(ray, secondHit), "lower index wins the tie")
	assert.Nil(t, first.Intersect(ray, firstHit), "a hit never precedes itself")
}

func TestNewQuad_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		u, v core.Vec3
	}{
		{"zero u", core.Vec3{}, core.NewVec3(0, 0, 1)},
		{"zero v", core.NewVec3(1, 0, 0), core.Vec3{}},
		{"parallel", core.NewVec3(1, 0, 0), core.NewVec3(-3, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuad(core.NewPoint3(0, 0, 0), tt.u, tt.v)
			assert.ErrorIs(t, err, ErrDegenerate)
		})
	}
}

func TestNewQuad_Options(t *testing.T) {
	mapper := NewTriangleMapper(core.Point3{}, core.Point3{}, core.Point3{})
	q, err := NewQuad(core.NewPoint3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		WithMaterial(3), WithMapper(mapper))
	require.NoError(t, err)

	assert.Equal(t, core.MaterialID(3), q.Material())
	assert.Same(t, mapper, q.Mapper())
	assert.Equal(t, -1, q.Index(), "unattached quads have no index")

	plain := MustQuad(core.NewPoint3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	assert.Equal(t, core.NoMaterial, plain.Material())
	assert.Nil(t, plain.Mapper())
}
