package mesh

import "github.com/go-gl/mathgl/mgl32"

// Corner is one triangle corner used for tangent computation.
type Corner struct {
	Pos    mgl32.Vec3
	UV     mgl32.Vec2
	Normal mgl32.Vec3
}

// TangentBasis solves the UV-to-object-space system for one triangle.
// When the UV determinant is zero it returns an arbitrary unit tangent
// perpendicular to the triangle normal, bitangent = normal x tangent, and
// ok = false.
func TangentBasis(a, b, c Corner) (tangent, bitangent mgl32.Vec3, ok bool) {
	edge1 := b.Pos.Sub(a.Pos)
	edge2 := c.Pos.Sub(a.Pos)
	duv1 := b.UV.Sub(a.UV)
	duv2 := c.UV.Sub(a.UV)

	det := duv1.X()*duv2.Y() - duv2.X()*duv1.Y()
	if det == 0 {
		t, bt := fallbackBasis(faceNormal(a, edge1, edge2))
		return t, bt, false
	}

	inv := 1 / det
	tangent = edge1.Mul(duv2.Y()).Sub(edge2.Mul(duv1.Y())).Mul(inv)
	bitangent = edge1.Mul(-duv2.X()).Add(edge2.Mul(duv1.X())).Mul(inv)
	return tangent, bitangent, true
}

func faceNormal(a Corner, edge1, edge2 mgl32.Vec3) mgl32.Vec3 {
	if n := edge1.Cross(edge2); n.LenSqr() > 1e-12 {
		return n.Normalize()
	}
	if a.Normal.LenSqr() > 1e-12 {
		return a.Normal.Normalize()
	}
	return mgl32.Vec3{0, 0, 1}
}

func fallbackBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	var t mgl32.Vec3
	if abs(n.X()) < 0.9 {
		t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n.X()))
	} else {
		t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n.Y()))
	}
	t = t.Normalize()
	return t, n.Cross(t)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
