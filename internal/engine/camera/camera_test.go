package camera

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewFirstPerson(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{0, 3, 12})
	if !c.Forward.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Forward = %v, want +X", c.Forward)
	}
	if !c.Right.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("Right = %v, want +Z", c.Right)
	}
	if !c.Up.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Up = %v, want +Y", c.Up)
	}
}

func TestSpinClampsPitch(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{})
	c.Spin(0, 500)
	if c.Pitch != MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, MaxPitch)
	}
	c.Spin(0, -1000)
	if c.Pitch != -MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, -MaxPitch)
	}
}

func TestSpinWrapsYaw(t *testing.T) {
	tests := []struct {
		start, delta, want float32
	}{
		{0, 10, 10},
		{350, 20, 10},
		{10, -20, 350},
		{0, 720, 0},
		{0, -360, 0},
	}
	for _, tt := range tests {
		c := NewFirstPerson(mgl32.Vec3{})
		c.Yaw = tt.start
		c.Spin(tt.delta, 0)
		if !mgl32.FloatEqualThreshold(c.Yaw, tt.want, 1e-4) {
			t.Errorf("yaw %v + %v = %v, want %v", tt.start, tt.delta, c.Yaw, tt.want)
		}
	}
}

func TestSpinRandomSequenceStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewFirstPerson(mgl32.Vec3{})
	for i := 0; i < 10000; i++ {
		c.Spin(float32(rng.NormFloat64()*400), float32(rng.NormFloat64()*60))
		if c.Yaw < 0 || c.Yaw >= 360 {
			t.Fatalf("step %d: yaw %v out of [0,360)", i, c.Yaw)
		}
		if c.Pitch < -MaxPitch || c.Pitch > MaxPitch {
			t.Fatalf("step %d: pitch %v out of range", i, c.Pitch)
		}
	}
}

func TestSetOrientation(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{})
	c.SetOrientation(450, 120)
	if c.Yaw != 90 || c.Pitch != MaxPitch {
		t.Errorf("orientation = (%v, %v)", c.Yaw, c.Pitch)
	}
}

func TestViewMatrixAtOrigin(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{4, 5, 6})
	view := c.ViewMatrix()
	eye := view.Mul4x1(c.Position.Vec4(1)).Vec3()
	if !eye.ApproxEqualThreshold(mgl32.Vec3{}, 1e-4) {
		t.Errorf("eye in view space = %v, want origin", eye)
	}
	ahead := view.Mul4x1(c.Position.Add(c.Forward).Vec4(1)).Vec3()
	if !ahead.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("forward in view space = %v, want -Z", ahead)
	}
}

func TestMove(t *testing.T) {
	c := NewFirstPerson(mgl32.Vec3{1, 1, 1})
	c.Move(mgl32.Vec3{1, -2, 0.5})
	if c.Position != (mgl32.Vec3{2, -1, 1.5}) {
		t.Errorf("Position = %v", c.Position)
	}
}
