// Package transform builds the model, view and projection matrices used by the
// renderer. Matrices are mgl32 column-major values ready for glUniformMatrix4fv.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the fixed up axis used for camera bases and look-at matrices.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Rotation returns the rotation for Euler angles in degrees, applied about
// X, then Y, then Z in the object's local frame (Rx * Ry * Rz).
func Rotation(eulers mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(eulers[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(eulers[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(eulers[2]))
	return rx.Mul4(ry).Mul4(rz)
}

// Model returns translation(position) * rotation(eulers): the object is
// rotated in local space first and then placed in the world.
func Model(position, eulers mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).Mul4(Rotation(eulers))
}

// View returns a look-at matrix from eye along forward.
func View(eye, forward, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(forward), up)
}

// Projection returns a perspective projection. fovY is in degrees.
func Projection(fovY, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
}

// Basis converts yaw (phi) and pitch (theta), both in degrees, into a
// forward/right/up frame. Yaw 0 looks down +X and yaw 90 down +Z.
func Basis(yaw, pitch float32) (forward, right, up mgl32.Vec3) {
	phi := float64(mgl32.DegToRad(yaw))
	theta := float64(mgl32.DegToRad(pitch))

	forward = mgl32.Vec3{
		float32(math.Cos(theta) * math.Cos(phi)),
		float32(math.Sin(theta)),
		float32(math.Cos(theta) * math.Sin(phi)),
	}
	right = forward.Cross(WorldUp).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(a float32) float32 {
	w := float32(math.Mod(float64(a), 360))
	if w < 0 {
		w += 360
	}
	// float32 rounding can land exactly on 360 for tiny negative inputs.
	if w >= 360 {
		w = 0
	}
	return w
}
