package mesh

import (
	"math"
	"testing"
)

func TestPlaneLit(t *testing.T) {
	data := Plane(40, 40, 1, LayoutLit)
	if data.Count() != 6 {
		t.Fatalf("Count() = %d, want 6", data.Count())
	}
	if len(data.Vertices) != 6*8 {
		t.Fatalf("len(Vertices) = %d, want 48", len(data.Vertices))
	}
	// First corner is the top-left at (-w/2, h/2).
	if data.Vertices[0] != -20 || data.Vertices[1] != 20 {
		t.Errorf("first corner = %v", data.Vertices[0:3])
	}
	for i := 0; i < 6; i++ {
		n := data.Vertices[i*8+5 : i*8+8]
		if n[0] != 0 || n[1] != 0 || n[2] != -1 {
			t.Errorf("normal %d = %v, want (0,0,-1)", i, n)
		}
	}
}

func TestPlaneTangent(t *testing.T) {
	const k = 4
	data := Plane(10, 6, k, LayoutTangent)
	if data.Count() != 6 {
		t.Fatalf("Count() = %d, want 6", data.Count())
	}
	if data.Degenerate != 0 {
		t.Errorf("Degenerate = %d", data.Degenerate)
	}

	// u grows with x over w/k units, v grows as y falls over h/k units.
	wantT := [3]float64{10.0 / k, 0, 0}
	wantB := [3]float64{0, -6.0 / k, 0}
	for i := 0; i < 6; i++ {
		v := data.Vertices[i*14 : (i+1)*14]
		for j := 0; j < 3; j++ {
			if math.Abs(float64(v[8+j])-wantT[j]) > 1e-5 {
				t.Errorf("vertex %d tangent = %v, want %v", i, v[8:11], wantT)
				break
			}
			if math.Abs(float64(v[11+j])-wantB[j]) > 1e-5 {
				t.Errorf("vertex %d bitangent = %v, want %v", i, v[11:14], wantB)
				break
			}
		}
	}
}
