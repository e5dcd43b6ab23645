package gfx

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const floatSize = 4

// GLDevice implements Device on an OpenGL 4.1 core context.
type GLDevice struct {
	Version  string
	Renderer string
}

// NewGLDevice loads GL function pointers. The context must be current.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return &GLDevice{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}, nil
}

// CompileProgram compiles vertex and fragment shaders and links them.
func (d *GLDevice) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, &CompileError{Stage: "link", Log: gl.GoStr(&log[0])}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: gl.GoStr(&log[0])}
	}

	return shader, nil
}

func (d *GLDevice) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (d *GLDevice) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) SetMat4(loc int32, m mgl32.Mat4) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) }

func (d *GLDevice) SetVec3(loc int32, v mgl32.Vec3) { gl.Uniform3fv(loc, 1, &v[0]) }

func (d *GLDevice) SetFloat(loc int32, f float32) { gl.Uniform1f(loc, f) }

func (d *GLDevice) SetInt(loc int32, i int32) { gl.Uniform1i(loc, i) }

// CreateVertexArray uploads interleaved vertices and describes their layout.
func (d *GLDevice) CreateVertexArray(vertices []float32, stride int32, attribs []Attrib) (VertexArray, error) {
	if len(vertices) == 0 {
		return VertexArray{}, errors.New("empty vertex data")
	}

	var va VertexArray
	gl.GenVertexArrays(1, &va.VAO)
	gl.BindVertexArray(va.VAO)

	gl.GenBuffers(1, &va.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	strideBytes := stride * floatSize
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, strideBytes, uintptr(a.Offset*floatSize))
	}

	gl.BindVertexArray(0)
	return va, nil
}

func (d *GLDevice) DeleteVertexArray(va VertexArray) {
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
	if va.VBO != 0 {
		gl.DeleteBuffers(1, &va.VBO)
	}
}

// BindInstanceBuffer feeds a buffer of column-major mat4s into four vec4
// attributes starting at location, advancing once per instance.
func (d *GLDevice) BindInstanceBuffer(va VertexArray, buffer uint32, location uint32) {
	gl.BindVertexArray(va.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	const matBytes = 16 * floatSize
	for col := uint32(0); col < 4; col++ {
		gl.EnableVertexAttribArray(location + col)
		gl.VertexAttribPointerWithOffset(location+col, 4, gl.FLOAT, false, matBytes, uintptr(col*4*floatSize))
		gl.VertexAttribDivisor(location+col, 1)
	}
	gl.BindVertexArray(0)
}

func (d *GLDevice) DrawArrays(va VertexArray, count int32) {
	gl.BindVertexArray(va.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *GLDevice) DrawArraysInstanced(va VertexArray, count, instances int32) {
	gl.BindVertexArray(va.VAO)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, count, instances)
}

func (d *GLDevice) CreateBuffer(data []float32) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.DYNAMIC_DRAW)
	return buf
}

func (d *GLDevice) UploadBuffer(buffer uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, gl.Ptr(data), gl.DYNAMIC_DRAW)
}

func (d *GLDevice) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

// CreateTexture uploads an RGBA image and generates its mipmap chain.
func (d *GLDevice) CreateTexture(img *image.RGBA) (uint32, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, errors.New("empty image")
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex, nil
}

func (d *GLDevice) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *GLDevice) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

// CreateDepthTarget builds a depth-only framebuffer whose texture supports
// sampler2DShadow comparison.
func (d *GLDevice) CreateDepthTarget(resolution int32) (DepthTarget, error) {
	t := DepthTarget{Resolution: resolution}

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)

	gl.GenTextures(1, &t.Texture)
	gl.BindTexture(gl.TEXTURE_2D, t.Texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.Texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteDepthTarget(t)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return DepthTarget{}, fmt.Errorf("depth framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

func (d *GLDevice) DeleteDepthTarget(t DepthTarget) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
	if t.Texture != 0 {
		gl.DeleteTextures(1, &t.Texture)
	}
}

func (d *GLDevice) BindFramebuffer(fbo uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (d *GLDevice) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *GLDevice) ClearColor(r, g, b float32) { gl.ClearColor(r, g, b, 1) }

func (d *GLDevice) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *GLDevice) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (d *GLDevice) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		return
	}
	gl.Disable(gl.BLEND)
}

func (d *GLDevice) SetCulling(mode CullMode) {
	switch mode {
	case CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func (d *GLDevice) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
