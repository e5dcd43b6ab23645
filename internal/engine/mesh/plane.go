package mesh

import "github.com/go-gl/mathgl/mgl32"

// Plane builds a w x h quad in the XY plane facing -Z, with UVs tiled k
// times. With LayoutTangent each group of three vertices carries the
// tangent basis of its triangle.
func Plane(w, h, k float32, layout Layout) *Data {
	x, y := w/2, h/2
	base := [6][8]float32{
		{-x, y, 0, 0, 0, 0, 0, -1},
		{-x, -y, 0, 0, k, 0, 0, -1},
		{x, -y, 0, k, k, 0, 0, -1},
		{-x, y, 0, 0, 0, 0, 0, -1},
		{x, -y, 0, k, k, 0, 0, -1},
		{x, y, 0, k, 0, 0, 0, -1},
	}

	data := &Data{Layout: layout}
	var t, bt mgl32.Vec3
	for i, v := range base {
		data.Vertices = append(data.Vertices, v[:]...)
		if layout != LayoutTangent {
			continue
		}
		if i%3 == 0 {
			var ok bool
			t, bt, ok = TangentBasis(planeCorner(base[i]), planeCorner(base[i+1]), planeCorner(base[i+2]))
			if !ok {
				data.Degenerate++
			}
		}
		data.Vertices = append(data.Vertices, t[0], t[1], t[2], bt[0], bt[1], bt[2])
	}
	return data
}

func planeCorner(v [8]float32) Corner {
	return Corner{
		Pos:    mgl32.Vec3{v[0], v[1], v[2]},
		UV:     mgl32.Vec2{v[3], v[4]},
		Normal: mgl32.Vec3{v[5], v[6], v[7]},
	}
}
