package mesh

import (
	"fmt"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
)

// Mesh is vertex data resident on the GPU.
type Mesh struct {
	Layout Layout
	Count  int32

	va gfx.VertexArray
}

// Upload creates the vertex array for data.
func Upload(dev gfx.Device, data *Data) (*Mesh, error) {
	if data.Count() == 0 {
		return nil, fmt.Errorf("upload mesh: no vertices")
	}
	va, err := dev.CreateVertexArray(data.Vertices, data.Layout.Stride(), data.Layout.Attribs())
	if err != nil {
		return nil, fmt.Errorf("upload mesh: %w", err)
	}
	return &Mesh{Layout: data.Layout, Count: data.Count(), va: va}, nil
}

// VertexArray exposes the underlying handles.
func (m *Mesh) VertexArray() gfx.VertexArray { return m.va }

// Draw issues one non-indexed triangle-list draw.
func (m *Mesh) Draw(dev gfx.Device) {
	dev.DrawArrays(m.va, m.Count)
}

// BindInstances feeds per-instance model matrices from buffer.
func (m *Mesh) BindInstances(dev gfx.Device, buffer uint32) {
	dev.BindInstanceBuffer(m.va, buffer, AttribInstance)
}

// DrawInstanced draws count instances using the bound instance buffer.
func (m *Mesh) DrawInstanced(dev gfx.Device, count int32) {
	dev.DrawArraysInstanced(m.va, m.Count, count)
}

// Destroy releases the GPU buffers. Calling it twice is a no-op.
func (m *Mesh) Destroy(dev gfx.Device) {
	if m.va.VAO == 0 {
		return
	}
	dev.DeleteVertexArray(m.va)
	m.va = gfx.VertexArray{}
}
