// Package instbuf implements a growable buffer of per-instance model
// matrices mirrored between host memory and the GPU.
package instbuf

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
)

const floatsPerElement = 16

// Buffer holds capacity mat4 elements. Writes land in host memory and reach
// the GPU only on Flush.
type Buffer struct {
	dev      gfx.Device
	host     []float32
	capacity int
	updated  int
	id       uint32
}

// New allocates a zeroed buffer of the given capacity (minimum 1).
func New(dev gfx.Device, capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer{
		dev:      dev,
		host:     make([]float32, capacity*floatsPerElement),
		capacity: capacity,
	}
	b.id = dev.CreateBuffer(b.host)
	return b
}

// Record stores m at index i, doubling capacity until i fits. Existing
// elements are preserved across growth.
func (b *Buffer) Record(i int, m mgl32.Mat4) {
	if i < 0 {
		panic("instbuf: negative index")
	}
	if i >= b.capacity {
		b.grow(i)
	}
	copy(b.host[i*floatsPerElement:], m[:])
	b.updated++
}

func (b *Buffer) grow(i int) {
	capacity := b.capacity
	for i >= capacity {
		capacity *= 2
	}
	host := make([]float32, capacity*floatsPerElement)
	copy(host, b.host)

	b.dev.DeleteBuffer(b.id)
	b.host = host
	b.capacity = capacity
	b.id = b.dev.CreateBuffer(b.host)
}

// Flush uploads the full host buffer and resets the update counter.
func (b *Buffer) Flush() {
	b.dev.UploadBuffer(b.id, b.host)
	b.updated = 0
}

// At returns element i.
func (b *Buffer) At(i int) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], b.host[i*floatsPerElement:(i+1)*floatsPerElement])
	return m
}

// Capacity returns the number of elements the buffer holds.
func (b *Buffer) Capacity() int { return b.capacity }

// Updated returns the number of records since the last Flush.
func (b *Buffer) Updated() int { return b.updated }

// ID returns the GPU buffer. It changes when the buffer grows.
func (b *Buffer) ID() uint32 { return b.id }

// Destroy releases the GPU buffer. Calling it twice is a no-op.
func (b *Buffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.dev.DeleteBuffer(b.id)
	b.id = 0
}
