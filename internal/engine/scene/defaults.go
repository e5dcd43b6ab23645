package scene

import "github.com/go-gl/mathgl/mgl32"

// Default builds the demo scene: a carpet, three spinning cubes, two glass
// panes, two floor planes and eight light slots of which three are lit.
func Default() *Scene {
	s := New(mgl32.Vec3{0, 3, 12})

	s.Add(Carpet, &Entity{Position: mgl32.Vec3{-10, -20, -20}})

	for _, p := range []mgl32.Vec3{{0, 0, 0}, {18, -3, 0}, {-20, 0, 0}} {
		s.Add(Cube, &Entity{Position: p, Rotating: true})
	}

	s.Add(Glass, &Entity{Position: mgl32.Vec3{-20, -20, -20}, Eulers: mgl32.Vec3{-90, 0, 0}})
	s.Add(Glass, &Entity{Position: mgl32.Vec3{0, 0, -20}})

	s.Add(Floor, &Entity{Position: mgl32.Vec3{-20, -20, -20}})
	s.Add(Floor, &Entity{Position: mgl32.Vec3{20, -20, -20}, Eulers: mgl32.Vec3{-90, -90, 0}})

	s.Lights = [MaxLights]Light{
		{Position: mgl32.Vec3{26, 4, -23}, Color: mgl32.Vec3{1, 0, 0}, Strength: 20},
		{Position: mgl32.Vec3{20, 10, -25}, Color: mgl32.Vec3{0, 1, 0}, Strength: 10},
		{Position: mgl32.Vec3{21, 14, -21}, Color: mgl32.Vec3{1, 12, 10}, Strength: 12},
		{Position: mgl32.Vec3{20, 10, 0}, Color: mgl32.Vec3{0, 0, 5}},
		{Position: mgl32.Vec3{2, 5, 2}, Color: mgl32.Vec3{1, 1, 0}},
		{Position: mgl32.Vec3{-10, 10, 0}, Color: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{16, 14, 13}, Color: mgl32.Vec3{1, 12, 0}},
		{Position: mgl32.Vec3{-10, 10, 0}, Color: mgl32.Vec3{0, 1, 0}},
	}
	s.AddLightMarkers()

	return s
}
