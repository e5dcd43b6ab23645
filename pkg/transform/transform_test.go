package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestModelTranslatesAfterRotating(t *testing.T) {
	pos := mgl32.Vec3{10, 0, 0}
	m := Model(pos, mgl32.Vec3{0, 0, 90})

	got := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// Rotate (1,0,0) by 90 deg about Z -> (0,1,0), then translate.
	want := mgl32.Vec3{10, 1, 0}
	if !got.ApproxEqualThreshold(want, eps) {
		t.Errorf("Model applied to unit X = %v, want %v", got, want)
	}

	// Rotate-after-translate would have swung the translation too.
	wrong := Rotation(mgl32.Vec3{0, 0, 90}).Mul4(mgl32.Translate3D(10, 0, 0)).Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if got.ApproxEqualThreshold(wrong, eps) {
		t.Errorf("composition order indistinguishable from R*T: %v", wrong)
	}
}

func TestModelEqualsTranslationTimesRotation(t *testing.T) {
	pos := mgl32.Vec3{-3, 4.5, 7}
	eulers := mgl32.Vec3{30, 45, 60}

	got := Model(pos, eulers)
	want := mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(Rotation(eulers))
	if got != want {
		t.Errorf("Model = %v, want %v", got, want)
	}
}

func TestModelIdentity(t *testing.T) {
	if got := Model(mgl32.Vec3{}, mgl32.Vec3{}); !got.ApproxEqualThreshold(mgl32.Ident4(), eps) {
		t.Errorf("zero transform = %v, want identity", got)
	}
}

func TestRotationAxes(t *testing.T) {
	tests := []struct {
		name   string
		eulers mgl32.Vec3
		in     mgl32.Vec3
		want   mgl32.Vec3
	}{
		{"x90 maps y to z", mgl32.Vec3{90, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{"y90 maps z to x", mgl32.Vec3{0, 90, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{"z90 maps x to y", mgl32.Vec3{0, 0, 90}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotation(tt.eulers).Mul4x1(tt.in.Vec4(0)).Vec3()
			if !got.ApproxEqualThreshold(tt.want, eps) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBasis(t *testing.T) {
	f, r, u := Basis(0, 0)
	if !f.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("forward = %v, want +X", f)
	}
	if !r.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("right = %v, want +Z", r)
	}
	if !u.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("up = %v, want +Y", u)
	}

	f, _, _ = Basis(90, 0)
	if !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("forward at yaw 90 = %v, want +Z", f)
	}

	f, r, u = Basis(37, 89)
	if d := f.Dot(r); d > eps || d < -eps {
		t.Errorf("forward.right = %v, want 0", d)
	}
	if d := f.Dot(u); d > eps || d < -eps {
		t.Errorf("forward.up = %v, want 0", d)
	}
	if l := u.Len(); l < 1-eps || l > 1+eps {
		t.Errorf("|up| = %v, want 1", l)
	}
}

func TestViewMovesEyeToOrigin(t *testing.T) {
	eye := mgl32.Vec3{3, -2, 8}
	f, _, u := Basis(120, -30)
	v := View(eye, f, u)

	got := v.Mul4x1(eye.Vec4(1)).Vec3()
	if !got.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4) {
		t.Errorf("view * eye = %v, want origin", got)
	}
}

func TestWrapDegrees(t *testing.T) {
	tests := map[float32]float32{
		0:      0,
		359.5:  359.5,
		360:    0,
		725:    5,
		-90:    270,
		-720:   0,
		-1e-7:  0,
		1e-3:   1e-3,
		-359.5: 0.5,
	}
	for in, want := range tests {
		got := WrapDegrees(in)
		if got < 0 || got >= 360 {
			t.Errorf("WrapDegrees(%v) = %v, out of [0,360)", in, got)
		}
		if d := got - want; d > 1e-3 || d < -1e-3 {
			t.Errorf("WrapDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}
