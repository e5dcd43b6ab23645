package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement keys, combined with bitwise OR.
const (
	KeyForward  = 1 << iota // W
	KeyLeft                 // A
	KeyBackward             // S
	KeyRight                // D
)

// walkOffsets maps a key combination to an angle offset from the camera yaw.
// Combinations that cancel out are absent and produce no movement.
var walkOffsets = map[int]float64{
	1:  0,
	2:  90,
	3:  45,
	4:  180,
	6:  135,
	7:  90,
	8:  270,
	9:  315,
	11: 0,
	12: 225,
	13: 270,
	14: 180,
}

// Movement converts pressed keys into a horizontal world-space offset for a
// camera with the given yaw. speed is in units per nominal frame and rate
// scales it by the measured frame time.
func Movement(keys int, yaw, rate, speed float32) mgl32.Vec3 {
	offset, ok := walkOffsets[keys]
	if !ok {
		return mgl32.Vec3{}
	}
	angle := float64(mgl32.DegToRad(-yaw)) + offset*math.Pi/180
	step := float64(speed * rate)
	return mgl32.Vec3{
		float32(step * math.Cos(angle)),
		0,
		float32(-step * math.Sin(angle)),
	}
}
