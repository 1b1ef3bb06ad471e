// Package math3d provides the vector, quaternion and matrix types used for
// skeletons, bind poses and preview rendering.
package math3d

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Zero3 returns the origin.
func Zero3() Vec3 { return Vec3{} }

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale multiplies every component by s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns a · b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a × b. With right-handed axes, X × Y = Z.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// LenSq returns the squared length, avoiding the square root.
func (a Vec3) LenSq() float64 { return a.Dot(a) }

// Len returns the Euclidean length.
func (a Vec3) Len() float64 { return math.Sqrt(a.LenSq()) }

// Normalize returns a unit vector along a. The zero vector stays zero.
func (a Vec3) Normalize() Vec3 {
	if l := a.Len(); l != 0 {
		return a.Scale(1 / l)
	}
	return Vec3{}
}

// Min returns the component-wise minimum, for growing bounding boxes.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}
