package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
)

// ErrInvalidCamera is returned for camera parameters that cannot produce rays
var ErrInvalidCamera = errors.New("renderer: invalid camera")

// Camera generates primary rays for normalized screen coordinates.
// x grows to the right and y grows downward, both in [-1, 1].
type Camera interface {
	PrimaryRay(x, y float64) core.Ray
}

// PerspectiveCamera casts rays from a single center through an image plane
// at the tip of the forward vector
type PerspectiveCamera struct {
	Center  core.Point3
	Forward core.Vec3

	fx, fy core.Vec3 // image plane half-extents
}

// NewPerspectiveCamera creates a perspective camera. Angles are full view
// angles in radians and must lie in [0, 2π].
func NewPerspectiveCamera(center core.Point3, forward, up core.Vec3, vAngle, hAngle float64) (*PerspectiveCamera, error) {
	if !validAngle(vAngle) || !validAngle(hAngle) {
		return nil, fmt.Errorf("%w: view angles (%g, %g) must be radians in [0, 2π]", ErrInvalidCamera, vAngle, hAngle)
	}
	right := core.Normal(forward, up)
	if right.IsZero() {
		return nil, fmt.Errorf("%w: forward %v and up %v must be non-zero and not parallel", ErrInvalidCamera, forward, up)
	}

	scale := forward.Length()
	fx := right.Multiply(math.Tan(hAngle/2) * scale)
	fy := core.Normal(forward, fx).Multiply(-math.Tan(vAngle/2) * scale)

	return &PerspectiveCamera{
		Center:  center,
		Forward: forward,
		fx:      fx,
		fy:      fy,
	}, nil
}

// PrimaryRay returns the unnormalized ray through screen point (x, y)
func (c *PerspectiveCamera) PrimaryRay(x, y float64) core.Ray {
	dir := c.Forward.Add(c.fx.Multiply(x)).Add(c.fy.Multiply(y))
	return core.NewRay(c.Center, dir)
}

// OrthographicCamera casts parallel rays from a rectangle centered on Center
type OrthographicCamera struct {
	Center  core.Point3
	Forward core.Vec3 // unit

	sx, sy core.Vec3
}

// NewOrthographicCamera creates an orthographic camera whose view rectangle
// measures scaleX by scaleY world units
func NewOrthographicCamera(center core.Point3, forward, up core.Vec3, scaleX, scaleY float64) (*OrthographicCamera, error) {
	if !(scaleX > 0) || !(scaleY > 0) || math.IsInf(scaleX, 0) || math.IsInf(scaleY, 0) {
		return nil, fmt.Errorf("%w: view scale (%g, %g) must be positive", ErrInvalidCamera, scaleX, scaleY)
	}
	f, u := forward.Normalize(), up.Normalize()
	right := core.Normal(f, u)
	if right.IsZero() {
		return nil, fmt.Errorf("%w: forward %v and up %v must be non-zero and not parallel", ErrInvalidCamera, forward, up)
	}

	sx := right.Multiply(0.5 * scaleX)
	sy := core.Normal(f, sx).Multiply(-0.5 * scaleY)
	return &OrthographicCamera{Center: center, Forward: f, sx: sx, sy: sy}, nil
}

// PrimaryRay returns the unit-direction ray leaving screen point (x, y)
func (c *OrthographicCamera) PrimaryRay(x, y float64) core.Ray {
	origin := c.Center.Add(c.sx.Multiply(x)).Add(c.sy.Multiply(y))
	return core.NewRay(origin, c.Forward)
}

func validAngle(a float64) bool {
	return a >= 0 && a <= 2*math.Pi
}
