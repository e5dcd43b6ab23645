// Package gfxtest provides a recording gfx.Device for tests that exercise
// rendering code without a GPU.
package gfxtest

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
)

// Draw records one draw call.
type Draw struct {
	Program   uint32
	VAO       uint32
	Count     int32
	Instances int32 // 0 for non-instanced draws
	FBO       uint32
}

type uniformKey struct {
	program uint32
	name    string
}

// Device is a fake gfx.Device. It hands out sequential object ids, tracks
// which objects are alive, and remembers the last value written to every
// uniform location.
type Device struct {
	// Inactive lists uniform names that resolve to -1, as if the driver
	// optimized them away.
	Inactive map[string]bool
	// FailCompile makes CompileProgram return a CompileError with this log.
	FailCompile string
	// FailDepthTarget makes CreateDepthTarget fail.
	FailDepthTarget bool

	Draws   []Draw
	Uploads map[uint32][][]float32 // buffer id -> uploads in order
	Bound   map[uint32]uint32      // texture unit -> texture
	Errors  []string               // misuse such as double deletes

	nextID   uint32
	nextLoc  int32
	program  uint32
	fbo      uint32
	locs     map[uniformKey]int32
	values   map[int32]any
	programs map[uint32]bool
	vaos     map[uint32]bool
	buffers  map[uint32]bool
	textures map[uint32]bool
	targets  map[uint32]bool
	instBufs map[uint32]uint32 // vao -> instance buffer
	viewport [4]int32
	clear    mgl32.Vec3
}

var _ gfx.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Inactive: map[string]bool{},
		Uploads:  map[uint32][][]float32{},
		Bound:    map[uint32]uint32{},
		locs:     map[uniformKey]int32{},
		values:   map[int32]any{},
		programs: map[uint32]bool{},
		vaos:     map[uint32]bool{},
		buffers:  map[uint32]bool{},
		textures: map[uint32]bool{},
		targets:  map[uint32]bool{},
		instBufs: map[uint32]uint32{},
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) release(live map[uint32]bool, kind string, id uint32) {
	if !live[id] {
		d.Errors = append(d.Errors, fmt.Sprintf("delete of unknown %s %d", kind, id))
		return
	}
	delete(live, id)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.FailCompile != "" {
		return 0, &gfx.CompileError{Stage: "fragment", Log: d.FailCompile}
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, &gfx.CompileError{Stage: "vertex", Log: "empty source"}
	}
	p := d.id()
	d.programs[p] = true
	return p, nil
}

func (d *Device) DeleteProgram(program uint32) { d.release(d.programs, "program", program) }

func (d *Device) UseProgram(program uint32) { d.program = program }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if d.Inactive[name] {
		return -1
	}
	key := uniformKey{program, name}
	if loc, ok := d.locs[key]; ok {
		return loc
	}
	loc := d.nextLoc
	d.nextLoc++
	d.locs[key] = loc
	return loc
}

func (d *Device) set(loc int32, v any) {
	if loc < 0 {
		return
	}
	d.values[loc] = v
}

func (d *Device) SetMat4(loc int32, m mgl32.Mat4) { d.set(loc, m) }
func (d *Device) SetVec3(loc int32, v mgl32.Vec3) { d.set(loc, v) }
func (d *Device) SetFloat(loc int32, f float32)   { d.set(loc, f) }
func (d *Device) SetInt(loc int32, i int32)       { d.set(loc, i) }

// Uniform returns the last value written to a program's uniform.
func (d *Device) Uniform(program uint32, name string) (any, bool) {
	loc, ok := d.locs[uniformKey{program, name}]
	if !ok {
		return nil, false
	}
	v, ok := d.values[loc]
	return v, ok
}

// Mat4 is Uniform for matrix uniforms.
func (d *Device) Mat4(program uint32, name string) (mgl32.Mat4, bool) {
	v, ok := d.Uniform(program, name)
	m, isMat := v.(mgl32.Mat4)
	return m, ok && isMat
}

// Vec3 is Uniform for vector uniforms.
func (d *Device) Vec3(program uint32, name string) (mgl32.Vec3, bool) {
	v, ok := d.Uniform(program, name)
	vec, isVec := v.(mgl32.Vec3)
	return vec, ok && isVec
}

// Float is Uniform for scalar uniforms.
func (d *Device) Float(program uint32, name string) (float32, bool) {
	v, ok := d.Uniform(program, name)
	f, isFloat := v.(float32)
	return f, ok && isFloat
}

// Int is Uniform for integer and sampler uniforms.
func (d *Device) Int(program uint32, name string) (int32, bool) {
	v, ok := d.Uniform(program, name)
	i, isInt := v.(int32)
	return i, ok && isInt
}

func (d *Device) CreateVertexArray(vertices []float32, stride int32, attribs []gfx.Attrib) (gfx.VertexArray, error) {
	if len(vertices) == 0 {
		return gfx.VertexArray{}, errors.New("empty vertex data")
	}
	if stride <= 0 || len(vertices)%int(stride) != 0 {
		return gfx.VertexArray{}, fmt.Errorf("vertex data length %d not a multiple of stride %d", len(vertices), stride)
	}
	va := gfx.VertexArray{VAO: d.id(), VBO: d.id()}
	d.vaos[va.VAO] = true
	d.buffers[va.VBO] = true
	return va, nil
}

func (d *Device) DeleteVertexArray(va gfx.VertexArray) {
	d.release(d.vaos, "vertex array", va.VAO)
	d.release(d.buffers, "buffer", va.VBO)
	delete(d.instBufs, va.VAO)
}

func (d *Device) BindInstanceBuffer(va gfx.VertexArray, buffer uint32, location uint32) {
	d.instBufs[va.VAO] = buffer
}

// InstanceBuffer reports which buffer feeds a vertex array's instance
// attributes.
func (d *Device) InstanceBuffer(va gfx.VertexArray) (uint32, bool) {
	b, ok := d.instBufs[va.VAO]
	return b, ok
}

func (d *Device) DrawArrays(va gfx.VertexArray, count int32) {
	d.Draws = append(d.Draws, Draw{Program: d.program, VAO: va.VAO, Count: count, FBO: d.fbo})
}

func (d *Device) DrawArraysInstanced(va gfx.VertexArray, count, instances int32) {
	d.Draws = append(d.Draws, Draw{Program: d.program, VAO: va.VAO, Count: count, Instances: instances, FBO: d.fbo})
}

// DrawsWith returns the draws issued while program was active.
func (d *Device) DrawsWith(program uint32) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Program == program {
			out = append(out, dr)
		}
	}
	return out
}

// Reset forgets recorded draws.
func (d *Device) Reset() { d.Draws = nil }

func (d *Device) CreateBuffer(data []float32) uint32 {
	b := d.id()
	d.buffers[b] = true
	d.Uploads[b] = append(d.Uploads[b], append([]float32(nil), data...))
	return b
}

func (d *Device) UploadBuffer(buffer uint32, data []float32) {
	if !d.buffers[buffer] {
		d.Errors = append(d.Errors, fmt.Sprintf("upload to unknown buffer %d", buffer))
		return
	}
	d.Uploads[buffer] = append(d.Uploads[buffer], append([]float32(nil), data...))
}

func (d *Device) DeleteBuffer(buffer uint32) { d.release(d.buffers, "buffer", buffer) }

func (d *Device) CreateTexture(img *image.RGBA) (uint32, error) {
	if img.Bounds().Empty() {
		return 0, errors.New("empty image")
	}
	t := d.id()
	d.textures[t] = true
	return t, nil
}

func (d *Device) BindTexture(unit uint32, texture uint32) { d.Bound[unit] = texture }

func (d *Device) DeleteTexture(texture uint32) { d.release(d.textures, "texture", texture) }

func (d *Device) CreateDepthTarget(resolution int32) (gfx.DepthTarget, error) {
	if d.FailDepthTarget {
		return gfx.DepthTarget{}, errors.New("depth framebuffer incomplete")
	}
	t := gfx.DepthTarget{FBO: d.id(), Texture: d.id(), Resolution: resolution}
	d.targets[t.FBO] = true
	d.textures[t.Texture] = true
	return t, nil
}

func (d *Device) DeleteDepthTarget(t gfx.DepthTarget) {
	d.release(d.targets, "framebuffer", t.FBO)
	d.release(d.textures, "texture", t.Texture)
}

func (d *Device) BindFramebuffer(fbo uint32) { d.fbo = fbo }

func (d *Device) Viewport(x, y, width, height int32) { d.viewport = [4]int32{x, y, width, height} }

// LastViewport returns the most recent viewport rectangle.
func (d *Device) LastViewport() [4]int32 { return d.viewport }

func (d *Device) ClearColor(r, g, b float32) { d.clear = mgl32.Vec3{r, g, b} }

// LastClearColor returns the most recent clear color.
func (d *Device) LastClearColor() mgl32.Vec3 { return d.clear }

func (d *Device) Clear(mask gfx.ClearMask)     {}
func (d *Device) SetDepthTest(enabled bool)    {}
func (d *Device) SetBlend(enabled bool)        {}
func (d *Device) SetCulling(mode gfx.CullMode) {}

// ReadPixels returns a frame filled with the clear color.
func (d *Device) ReadPixels(width, height int32) []byte {
	px := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(px); i += 4 {
		px[i] = byte(d.clear[0] * 255)
		px[i+1] = byte(d.clear[1] * 255)
		px[i+2] = byte(d.clear[2] * 255)
		px[i+3] = 255
	}
	return px
}

// Live returns the number of objects not yet deleted.
func (d *Device) Live() int {
	return len(d.programs) + len(d.vaos) + len(d.buffers) + len(d.textures) + len(d.targets)
}

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }
