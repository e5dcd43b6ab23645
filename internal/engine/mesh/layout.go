// Package mesh loads interleaved vertex data and owns its GPU buffers.
package mesh

import "github.com/Faultbox/forward3d/internal/engine/gfx"

// Layout selects the interleaved vertex format.
type Layout int

const (
	// LayoutLit is position, texcoord, normal (8 floats).
	LayoutLit Layout = iota
	// LayoutTangent appends tangent and bitangent (14 floats).
	LayoutTangent
)

// Attribute locations shared with the shader sources.
const (
	AttribPosition  uint32 = 0
	AttribTexCoord  uint32 = 1
	AttribNormal    uint32 = 2
	AttribTangent   uint32 = 3
	AttribBitangent uint32 = 4
	// AttribInstance is the first of four vec4 columns of a per-instance model matrix.
	AttribInstance uint32 = 5
)

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int32 {
	if l == LayoutTangent {
		return 14
	}
	return 8
}

// Attribs describes the layout for vertex array creation.
func (l Layout) Attribs() []gfx.Attrib {
	attribs := []gfx.Attrib{
		{Location: AttribPosition, Size: 3, Offset: 0},
		{Location: AttribTexCoord, Size: 2, Offset: 3},
		{Location: AttribNormal, Size: 3, Offset: 5},
	}
	if l == LayoutTangent {
		attribs = append(attribs,
			gfx.Attrib{Location: AttribTangent, Size: 3, Offset: 8},
			gfx.Attrib{Location: AttribBitangent, Size: 3, Offset: 11},
		)
	}
	return attribs
}

func (l Layout) String() string {
	if l == LayoutTangent {
		return "tangent"
	}
	return "lit"
}

// Data is CPU-side interleaved vertex data, drawn as a triangle list.
type Data struct {
	Layout   Layout
	Vertices []float32
	// Degenerate counts triangles whose UV mapping had a zero determinant.
	Degenerate int
}

// Count returns the number of vertices.
func (d *Data) Count() int32 {
	return int32(len(d.Vertices)) / d.Layout.Stride()
}
