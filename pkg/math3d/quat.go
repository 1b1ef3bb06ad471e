package math3d

import "math"

// Quat is a rotation quaternion stored as (X, Y, Z, W), the same order glTF uses.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatAxisAngle creates a rotation of angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	axis = axis.Normalize()
	s, c := math.Sin(angle/2), math.Cos(angle/2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// Mul returns the Hamilton product q * r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Normalize returns the unit quaternion. A zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Mat4 returns the rotation as a matrix.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// quatFromRotation extracts a quaternion from a pure rotation matrix.
func quatFromRotation(m Mat4) Quat {
	r00, r11, r22 := m.at(0, 0), m.at(1, 1), m.at(2, 2)
	trace := r00 + r11 + r22

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{
			(m.at(2, 1) - m.at(1, 2)) * s,
			(m.at(0, 2) - m.at(2, 0)) * s,
			(m.at(1, 0) - m.at(0, 1)) * s,
			0.25 / s,
		}
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		q = Quat{
			0.25 * s,
			(m.at(0, 1) + m.at(1, 0)) / s,
			(m.at(0, 2) + m.at(2, 0)) / s,
			(m.at(2, 1) - m.at(1, 2)) / s,
		}
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		q = Quat{
			(m.at(0, 1) + m.at(1, 0)) / s,
			0.25 * s,
			(m.at(1, 2) + m.at(2, 1)) / s,
			(m.at(0, 2) - m.at(2, 0)) / s,
		}
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		q = Quat{
			(m.at(0, 2) + m.at(2, 0)) / s,
			(m.at(1, 2) + m.at(2, 1)) / s,
			0.25 * s,
			(m.at(1, 0) - m.at(0, 1)) / s,
		}
	}
	return q.Normalize()
}
