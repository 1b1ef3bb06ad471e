package math3d

import "math"

// TRS composes translation, rotation and scale into a local transform (T * R * S).
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	m := r.Normalize().Mat4()
	for row := range 3 {
		m[row] *= s.X
		m[row+4] *= s.Y
		m[row+8] *= s.Z
	}
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// Decompose splits an affine matrix into translation, rotation and scale.
// Shear is discarded. A negative determinant is folded into the X scale.
func (m Mat4) Decompose() (t Vec3, r Quat, s Vec3) {
	t = m.Translation()
	s = V3(
		V3(m[0], m[1], m[2]).Len(),
		V3(m[4], m[5], m[6]).Len(),
		V3(m[8], m[9], m[10]).Len(),
	)
	if m.Determinant() < 0 {
		s.X = -s.X
	}
	if s.X == 0 || s.Y == 0 || s.Z == 0 {
		return t, QuatIdentity(), s
	}

	rot := Identity()
	for row := range 3 {
		rot[row] = m[row] / s.X
		rot[row+4] = m[row+4] / s.Y
		rot[row+8] = m[row+8] / s.Z
	}
	return t, quatFromRotation(rot), s
}

// ApproxEqual reports whether every element of m is within eps of o.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// IsIdentity reports whether m is the identity matrix (within 1e-9).
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Identity(), 1e-9)
}

// at returns the element at (row, col).
func (m Mat4) at(row, col int) float64 {
	return m[row+col*4]
}

// Mat4From32 converts a column-major float32 matrix as stored by glTF.
func Mat4From32(c [4][4]float32) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+col*4] = float64(c[col][row])
		}
	}
	return m
}

// Float32 converts m to the column-major float32 layout glTF stores.
func (m Mat4) Float32() [4][4]float32 {
	var c [4][4]float32
	for col := range 4 {
		for row := range 4 {
			c[col][row] = float32(m[row+col*4])
		}
	}
	return c
}

// V3From32 converts a glTF float32 triple.
func V3From32(f [3]float32) Vec3 {
	return Vec3{float64(f[0]), float64(f[1]), float64(f[2])}
}

// Float32 converts v to a float32 triple.
func (a Vec3) Float32() [3]float32 {
	return [3]float32{float32(a.X), float32(a.Y), float32(a.Z)}
}
