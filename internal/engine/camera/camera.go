// Package camera provides the first-person camera used by the scene.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/forward3d/pkg/transform"
)

// MaxPitch bounds the pitch in both directions, in degrees.
const MaxPitch = 89

// FirstPerson is a free-flying camera oriented by yaw and pitch in degrees.
// Yaw 0 looks down +X; yaw grows toward +Z.
type FirstPerson struct {
	Position mgl32.Vec3
	Yaw      float32 // [0, 360)
	Pitch    float32 // [-MaxPitch, MaxPitch]

	Forward mgl32.Vec3
	Right   mgl32.Vec3
	Up      mgl32.Vec3
}

// NewFirstPerson creates a camera at position with yaw and pitch zero.
func NewFirstPerson(position mgl32.Vec3) *FirstPerson {
	c := &FirstPerson{Position: position}
	c.update()
	return c
}

func (c *FirstPerson) update() {
	c.Forward, c.Right, c.Up = transform.Basis(c.Yaw, c.Pitch)
}

// Spin turns the camera. Yaw wraps into [0, 360) and pitch is clamped.
func (c *FirstPerson) Spin(dYaw, dPitch float32) {
	c.Yaw = transform.WrapDegrees(c.Yaw + dYaw)
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -MaxPitch, MaxPitch)
	c.update()
}

// SetOrientation replaces yaw and pitch, applying the same limits as Spin.
func (c *FirstPerson) SetOrientation(yaw, pitch float32) {
	c.Yaw, c.Pitch = 0, 0
	c.Spin(yaw, pitch)
}

// Move offsets the camera in world space.
func (c *FirstPerson) Move(delta mgl32.Vec3) {
	c.Position = c.Position.Add(delta)
}

// ViewMatrix returns the look-at matrix along the forward vector.
func (c *FirstPerson) ViewMatrix() mgl32.Mat4 {
	return transform.View(c.Position, c.Forward, c.Up)
}
