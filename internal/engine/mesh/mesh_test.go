package mesh

import (
	"testing"

	"github.com/Faultbox/forward3d/internal/engine/gfx/gfxtest"
)

func TestLayoutAttribs(t *testing.T) {
	tests := []struct {
		layout  Layout
		stride  int32
		attribs int
	}{
		{LayoutLit, 8, 3},
		{LayoutTangent, 14, 5},
	}
	for _, tt := range tests {
		if got := tt.layout.Stride(); got != tt.stride {
			t.Errorf("%v.Stride() = %d, want %d", tt.layout, got, tt.stride)
		}
		attribs := tt.layout.Attribs()
		if len(attribs) != tt.attribs {
			t.Errorf("%v has %d attribs, want %d", tt.layout, len(attribs), tt.attribs)
		}
	}

	// Byte offsets of the tangent layout: 0, 12, 20, 32, 44.
	want := []int{0, 3, 5, 8, 11}
	for i, a := range LayoutTangent.Attribs() {
		if a.Location != uint32(i) || a.Offset != want[i] {
			t.Errorf("attrib %d = %+v", i, a)
		}
	}
}

func TestUploadDrawDestroy(t *testing.T) {
	dev := gfxtest.New()
	m, err := Upload(dev, Plane(2, 2, 1, LayoutTangent))
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if m.Count != 6 {
		t.Errorf("Count = %d, want 6", m.Count)
	}

	m.Draw(dev)
	m.BindInstances(dev, 99)
	m.DrawInstanced(dev, 3)

	if len(dev.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(dev.Draws))
	}
	if dev.Draws[0].Count != 6 || dev.Draws[0].Instances != 0 {
		t.Errorf("draw 0 = %+v", dev.Draws[0])
	}
	if dev.Draws[1].Instances != 3 {
		t.Errorf("draw 1 = %+v", dev.Draws[1])
	}
	if buf, ok := dev.InstanceBuffer(m.VertexArray()); !ok || buf != 99 {
		t.Errorf("instance buffer = %d, %v", buf, ok)
	}

	m.Destroy(dev)
	m.Destroy(dev)
	if dev.Live() != 0 || len(dev.Errors) != 0 {
		t.Errorf("Live() = %d, errors = %v", dev.Live(), dev.Errors)
	}
}

func TestUploadEmpty(t *testing.T) {
	dev := gfxtest.New()
	if _, err := Upload(dev, &Data{Layout: LayoutLit}); err == nil {
		t.Error("Upload() of empty data should fail")
	}
}
