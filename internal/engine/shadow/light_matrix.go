package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projection describes the orthographic volume of the shadow camera.
type Projection struct {
	Extent float32 // half-size of the square volume
	Near   float32
	Far    float32
}

// LightSpace returns ortho x lookAt for a directional light placed at
// position and aimed at target.
func LightSpace(position, target mgl32.Vec3, p Projection) mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	dir := target.Sub(position)
	if l := dir.Len(); l > 0 && abs32(dir.Y()/l) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(position, target, up)
	proj := mgl32.Ortho(-p.Extent, p.Extent, -p.Extent, p.Extent, p.Near, p.Far)
	return proj.Mul4(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
