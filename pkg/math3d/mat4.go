package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, as OpenGL and glTF
// store it. Element (row, col) lives at index row+col*4, so the translation
// of an affine transform sits in m[12], m[13], m[14].
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a scale by v along each axis.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// planeRotation rotates by angle in the plane spanned by axes a and b
// (0=X, 1=Y, 2=Z), turning a toward b.
func planeRotation(a, b int, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[a+a*4], m[b+a*4] = c, s
	m[a+b*4], m[b+b*4] = -s, c
	return m
}

// RotateX returns a right-handed rotation about the X axis.
func RotateX(angle float64) Mat4 { return planeRotation(1, 2, angle) }

// RotateY returns a right-handed rotation about the Y axis.
func RotateY(angle float64) Mat4 { return planeRotation(2, 0, angle) }

// RotateZ returns a right-handed rotation about the Z axis.
func RotateZ(angle float64) Mat4 { return planeRotation(0, 1, angle) }

// LookAt returns a view matrix for a camera at eye facing center. The
// camera looks down its own -Z axis.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	r := f.Cross(up).Normalize()
	u := r.Cross(f)

	m := Identity()
	for i, axis := range [3]Vec3{r, u, f.Scale(-1)} {
		m[i], m[i+4], m[i+8] = axis.X, axis.Y, axis.Z
		m[i+12] = -axis.Dot(eye)
	}
	return m
}

// Perspective returns an OpenGL-style projection. fovy is the vertical
// field of view in radians and aspect is width/height. Clip-space depth runs
// from -1 at near to 1 at far.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Mul returns the product a*b, applying b first when transforming points.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		bc := b[col*4 : col*4+4]
		for row := range 4 {
			m[row+col*4] = a[row]*bc[0] + a[row+4]*bc[1] + a[row+8]*bc[2] + a[row+12]*bc[3]
		}
	}
	return m
}

// MulVec3 transforms v as a point, dividing by w when the matrix is
// projective.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	p := m.MulVec4(Vec4{v.X, v.Y, v.Z, 1})
	if p.W == 0 || p.W == 1 {
		return p.Vec3()
	}
	return p.PerspectiveDivide()
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out [4]float64
	for row := range 4 {
		out[row] = m[row]*v.X + m[row+4]*v.Y + m[row+8]*v.Z + m[row+12]*v.W
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// isAffine reports whether the bottom row is (0, 0, 0, 1).
func (m Mat4) isAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// minors returns the twelve 2x2 determinants shared by Determinant and
// Inverse: six from the first two columns and six from the last two.
func (m Mat4) minors() (lo, hi [6]float64) {
	lo = [6]float64{
		m[0]*m[5] - m[1]*m[4],
		m[0]*m[6] - m[2]*m[4],
		m[0]*m[7] - m[3]*m[4],
		m[1]*m[6] - m[2]*m[5],
		m[1]*m[7] - m[3]*m[5],
		m[2]*m[7] - m[3]*m[6],
	}
	hi = [6]float64{
		m[8]*m[13] - m[9]*m[12],
		m[8]*m[14] - m[10]*m[12],
		m[8]*m[15] - m[11]*m[12],
		m[9]*m[14] - m[10]*m[13],
		m[9]*m[15] - m[11]*m[13],
		m[10]*m[15] - m[11]*m[14],
	}
	return lo, hi
}

func minorsDeterminant(lo, hi [6]float64) float64 {
	return lo[0]*hi[5] - lo[1]*hi[4] + lo[2]*hi[3] + lo[3]*hi[2] - lo[4]*hi[1] + lo[5]*hi[0]
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float64 {
	return minorsDeterminant(m.minors())
}

// Inverse returns the inverse of m, or the identity when m is singular.
// Affine matrices, which every node transform and bind pose is, take a
// cheaper path.
func (m Mat4) Inverse() Mat4 {
	if m.isAffine() {
		return m.affineInverse()
	}

	lo, hi := m.minors()
	det := minorsDeterminant(lo, hi)
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	return Mat4{
		(m[5]*hi[5] - m[6]*hi[4] + m[7]*hi[3]) * d,
		(m[2]*hi[4] - m[1]*hi[5] - m[3]*hi[3]) * d,
		(m[13]*lo[5] - m[14]*lo[4] + m[15]*lo[3]) * d,
		(m[10]*lo[4] - m[9]*lo[5] - m[11]*lo[3]) * d,

		(m[6]*hi[2] - m[4]*hi[5] - m[7]*hi[1]) * d,
		(m[0]*hi[5] - m[2]*hi[2] + m[3]*hi[1]) * d,
		(m[14]*lo[2] - m[12]*lo[5] - m[15]*lo[1]) * d,
		(m[8]*lo[5] - m[10]*lo[2] + m[11]*lo[1]) * d,

		(m[4]*hi[4] - m[5]*hi[2] + m[7]*hi[0]) * d,
		(m[1]*hi[2] - m[0]*hi[4] - m[3]*hi[0]) * d,
		(m[12]*lo[4] - m[13]*lo[2] + m[15]*lo[0]) * d,
		(m[9]*lo[2] - m[8]*lo[4] - m[11]*lo[0]) * d,

		(m[5]*hi[1] - m[4]*hi[3] - m[6]*hi[0]) * d,
		(m[0]*hi[3] - m[1]*hi[1] + m[2]*hi[0]) * d,
		(m[13]*lo[1] - m[12]*lo[3] - m[14]*lo[0]) * d,
		(m[8]*lo[3] - m[9]*lo[1] + m[10]*lo[0]) * d,
	}
}

// affineInverse inverts the upper 3x3 by cofactors and applies the negated,
// inverse-rotated translation.
func (m Mat4) affineInverse() Mat4 {
	// Cofactors of the 3x3 block, indexed by (row, col) of the block.
	c00 := m[5]*m[10] - m[9]*m[6]
	c01 := m[6]*m[8] - m[4]*m[10]
	c02 := m[4]*m[9] - m[8]*m[5]
	det := m[0]*c00 + m[1]*c01 + m[2]*c02
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	inv := Identity()
	inv[0] = c00 * d
	inv[1] = (m[9]*m[2] - m[1]*m[10]) * d
	inv[2] = (m[1]*m[6] - m[5]*m[2]) * d
	inv[4] = c01 * d
	inv[5] = (m[0]*m[10] - m[8]*m[2]) * d
	inv[6] = (m[4]*m[2] - m[0]*m[6]) * d
	inv[8] = c02 * d
	inv[9] = (m[8]*m[1] - m[0]*m[9]) * d
	inv[10] = (m[0]*m[5] - m[4]*m[1]) * d

	t := inv.MulVec4(Vec4{m[12], m[13], m[14], 0})
	inv[12], inv[13], inv[14] = -t.X, -t.Y, -t.Z
	return inv
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
