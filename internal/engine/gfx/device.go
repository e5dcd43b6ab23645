// Package gfx defines the render context every GPU-facing package draws
// through. Bindings are explicit method arguments rather than implicit
// "currently bound" state, so wrappers can be tested against a recording
// device and never depend on call order set up elsewhere.
package gfx

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Attrib describes one float vertex attribute inside an interleaved buffer.
type Attrib struct {
	Location uint32
	Size     int32 // float components
	Offset   int   // in floats
}

// VertexArray is a vertex array object together with the buffer it owns.
type VertexArray struct {
	VAO uint32
	VBO uint32
}

// DepthTarget is a depth-only framebuffer used by the shadow pass.
type DepthTarget struct {
	FBO        uint32
	Texture    uint32
	Resolution int32
}

// ClearMask selects buffers for Clear.
type ClearMask uint32

const (
	ClearColorBuffer ClearMask = 1 << iota
	ClearDepthBuffer
)

// CullMode selects face culling.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// CompileError reports a shader stage that failed to compile or a program
// that failed to link. Log carries the driver's diagnostic output.
type CompileError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// Device is the render context. All methods must be called from the thread
// that owns the GL context.
type Device interface {
	// Programs and uniforms.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	SetMat4(loc int32, m mgl32.Mat4)
	SetVec3(loc int32, v mgl32.Vec3)
	SetFloat(loc int32, f float32)
	SetInt(loc int32, i int32)

	// Geometry.
	CreateVertexArray(vertices []float32, stride int32, attribs []Attrib) (VertexArray, error)
	DeleteVertexArray(va VertexArray)
	BindInstanceBuffer(va VertexArray, buffer uint32, location uint32)
	DrawArrays(va VertexArray, count int32)
	DrawArraysInstanced(va VertexArray, count, instances int32)

	// Float buffers.
	CreateBuffer(data []float32) uint32
	UploadBuffer(buffer uint32, data []float32)
	DeleteBuffer(buffer uint32)

	// Textures.
	CreateTexture(img *image.RGBA) (uint32, error)
	BindTexture(unit uint32, texture uint32)
	DeleteTexture(texture uint32)

	// Render targets and fixed-function state.
	CreateDepthTarget(resolution int32) (DepthTarget, error)
	DeleteDepthTarget(t DepthTarget)
	BindFramebuffer(fbo uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b float32)
	Clear(mask ClearMask)
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)
	SetCulling(mode CullMode)

	// ReadPixels returns the default framebuffer as tightly packed RGBA
	// rows, bottom row first.
	ReadPixels(width, height int32) []byte
}
