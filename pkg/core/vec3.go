package core

import (
	"fmt"
	"math"
)

// Vec3 represents a 3D direction or displacement
type Vec3 struct {
	X, Y, Z float64
}

// Point3 represents a position in 3D space. Subtracting two points yields a Vec3.
type Point3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewPoint3 creates a new Point3
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// IsZero reports whether all components are exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged; callers that need a direction must check IsZero first.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Normal returns the unit normal of the plane spanned by a and b (normalized a × b)
func Normal(a, b Vec3) Vec3 {
	return a.Cross(b).Normalize()
}

// RotateY rotates the vector around the Y axis by angle radians
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Equals reports exact component equality
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Sub returns the vector pointing from other to p
func (p Point3) Sub(other Point3) Vec3 {
	return Vec3{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// Add translates the point by a vector
func (p Point3) Add(v Vec3) Point3 {
	return Point3{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Offset translates the point by t*v
func (p Point3) Offset(v Vec3, t float64) Point3 {
	return Point3{p.X + t*v.X, p.Y + t*v.Y, p.Z + t*v.Z}
}

// Vec returns the position vector of the point
func (p Point3) Vec() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Equals reports exact component equality
func (p Point3) Equals(other Point3) bool {
	return p.X == other.X && p.Y == other.Y && p.Z == other.Z
}

func (p Point3) String() string {
	return fmt.Sprintf("[%g, %g, %g]", p.X, p.Y, p.Z)
}

// Ray represents a ray with an origin and direction.
// Direction is not required to be unit length, so the ray parameter is only a
// true distance for unit directions.
type Ray struct {
	Origin    Point3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin Point3, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Offset(r.Direction, t)
}

// Equals reports whether two rays share origin and direction exactly
func (r Ray) Equals(other Ray) bool {
	return r.Origin.Equals(other.Origin) && r.Direction.Equals(other.Direction)
}
