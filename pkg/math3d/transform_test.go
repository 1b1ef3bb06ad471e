package math3d

import (
	"math"
	"testing"
)

func TestQuatMatchesAxisRotations(t *testing.T) {
	tests := []struct {
		name string
		axis Vec3
		rot  func(float64) Mat4
	}{
		{"x", V3(1, 0, 0), RotateX},
		{"y", V3(0, 1, 0), RotateY},
		{"z", V3(0, 0, 1), RotateZ},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := QuatAxisAngle(tc.axis, 0.8).Mat4()
			want := tc.rot(0.8)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("quaternion matrix %v, want %v", got, want)
			}
		})
	}
}

func TestTRSComposesInOrder(t *testing.T) {
	tr := V3(1, 2, 3)
	q := QuatAxisAngle(V3(0, 1, 0), math.Pi/2)
	s := V3(2, 2, 2)

	got := TRS(tr, q, s)
	want := Translate(tr).Mul(RotateY(math.Pi / 2)).Mul(Scale(s))
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("TRS = %v, want %v", got, want)
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	tr := V3(-1, 0.5, 7)
	q := QuatAxisAngle(V3(1, 2, 3), 1.1)
	s := V3(1, 3, 0.5)

	m := TRS(tr, q, s)
	gt, gq, gs := m.Decompose()

	if gt != tr {
		t.Errorf("translation = %v, want %v", gt, tr)
	}
	if math.Abs(gs.X-s.X) > 1e-9 || math.Abs(gs.Y-s.Y) > 1e-9 || math.Abs(gs.Z-s.Z) > 1e-9 {
		t.Errorf("scale = %v, want %v", gs, s)
	}
	if !TRS(gt, gq, gs).ApproxEqual(m, 1e-9) {
		t.Errorf("recomposed matrix differs from original")
	}
}

func TestInverseOfRigidTransform(t *testing.T) {
	m := TRS(V3(3, -2, 1), QuatAxisAngle(V3(0, 0, 1), 0.3), V3(1, 1, 1))
	if !m.Mul(m.Inverse()).IsIdentity() {
		t.Errorf("m * m^-1 should be identity")
	}
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"scaled bone", TRS(V3(0, 1.5, -2), QuatAxisAngle(V3(1, 1, 0), 0.9), V3(0.5, 2, 3))},
		{"mirrored", Scale(V3(-1, 1, 1)).Mul(RotateZ(0.4))},
		{"projection", Perspective(math.Pi/4, 1.5, 0.1, 50)},
		{"view projection", Perspective(1, 1, 0.5, 10).Mul(LookAt(V3(1, 2, 3), V3(0, 0, 0), V3(0, 1, 0)))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := tc.m.Inverse()
			if !tc.m.Mul(inv).ApproxEqual(Identity(), 1e-9) || !inv.Mul(tc.m).ApproxEqual(Identity(), 1e-9) {
				t.Errorf("inverse of %v = %v", tc.m, inv)
			}
			if d := tc.m.Determinant() * inv.Determinant(); math.Abs(d-1) > 1e-9 {
				t.Errorf("det(m)*det(m^-1) = %v", d)
			}
		})
	}
}

func TestMulVec3Projects(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 10)
	if got := p.MulVec3(V3(0, 0, -1)); math.Abs(got.Z+1) > 1e-9 {
		t.Errorf("near plane depth = %v, want -1", got.Z)
	}
	if got := p.MulVec3(V3(0, 0, -10)); math.Abs(got.Z-1) > 1e-9 {
		t.Errorf("far plane depth = %v, want 1", got.Z)
	}
	if got := Translate(V3(1, 2, 3)).MulVec3(V3(1, 1, 1)); got != V3(2, 3, 4) {
		t.Errorf("translated point = %v", got)
	}
}

func TestSingularInverseIsIdentity(t *testing.T) {
	var zero Mat4
	if !zero.Inverse().IsIdentity() {
		t.Errorf("inverse of a singular matrix should fall back to identity")
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(Scale(V3(4, 5, 6)))
	if got := Mat4From32(m.Float32()); got != m {
		t.Errorf("float32 round trip = %v, want %v", got, m)
	}
	if got := Mat4From32(m.Float32()).Translation(); got != V3(1, 2, 3) {
		t.Errorf("translation column lost: %v", got)
	}
}
