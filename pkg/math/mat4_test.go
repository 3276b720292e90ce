package math

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := LookAt(Vec3{1, 2, 3}, Vec3{}, UnitY)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 4, 6}
	m := LookAt(eye, Vec3{}, UnitY)

	got := m.MulVec4(Vec4{eye.X, eye.Y, eye.Z, 1})
	for i := 0; i < 3; i++ {
		if abs(got[i]) > 1e-5 {
			t.Errorf("LookAt(eye) component %d = %f, want 0", i, got[i])
		}
	}
	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
}

func TestLookAtTargetOnNegativeZ(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, UnitY)
	got := m.MulVec4(Vec4{0, 0, 0, 1})
	if abs(got[2]+5) > 1e-5 {
		t.Errorf("target view-space z = %f, want -5", got[2])
	}
}

func TestDepthZeroToOne(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := DepthZeroToOne.Mul(Perspective(Radians(45), 1, near, far))

	tests := []struct {
		name string
		z    float32
		want float32
	}{
		{"near plane", -near, 0},
		{"far plane", -far, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := proj.Project(Vec3{0, 0, tt.z})
			if abs(got.Z-tt.want) > 1e-4 {
				t.Errorf("depth = %f, want %f", got.Z, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !Identity().IsFinite() {
		t.Error("identity should be finite")
	}
	m := Identity()
	m[3] = float32(math.NaN())
	if m.IsFinite() {
		t.Error("matrix with NaN reported finite")
	}
	m = Identity()
	m[7] = float32(math.Inf(1))
	if m.IsFinite() {
		t.Error("matrix with Inf reported finite")
	}
}

func TestAppendBytes(t *testing.T) {
	m := Identity()
	m[12] = 2.5
	b := m.AppendBytes(nil)
	if len(b) != Mat4Size {
		t.Fatalf("len = %d, want %d", len(b), Mat4Size)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[12*4:])); got != 2.5 {
		t.Errorf("element 12 = %f, want 2.5", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[0:])); got != 1 {
		t.Errorf("element 0 = %f, want 1", got)
	}
}

func TestRadians(t *testing.T) {
	if got := Radians(180); abs(got-math.Pi) > 1e-6 {
		t.Errorf("Radians(180) = %f, want pi", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
