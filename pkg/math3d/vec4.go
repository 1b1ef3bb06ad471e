package math3d

// Vec4 is a homogeneous point or a glTF tangent (xyz direction, w handedness).
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 builds a Vec4.
func V4(x, y, z, w float64) Vec4 { return Vec4{x, y, z, w} }

// V4FromV3 extends v with w: 1 for points, 0 for directions.
func V4FromV3(v Vec3, w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// PerspectiveDivide maps a clip-space position to normalized device
// coordinates. W of zero leaves the components as they are.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Vec3()
	}
	return v.Vec3().Scale(1 / v.W)
}
