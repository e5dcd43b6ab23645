// Package shader wraps compiled GPU programs together with their uniform
// location tables.
package shader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
	"github.com/Faultbox/forward3d/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
)

// Role identifies a single-valued uniform.
type Role int

const (
	View Role = iota
	Projection
	Model
	CameraPos
	Tint
	LightSpace
	Ambient
	ShadowMap
	ShadowsEnabled
	UseInstancing
	Albedo
	AmbientOcclusion
	NormalMap
	Gloss

	numRoles
)

var roleNames = [numRoles]string{
	View:             "view",
	Projection:       "projection",
	Model:            "model",
	CameraPos:        "cameraPos",
	Tint:             "tint",
	LightSpace:       "lightSpace",
	Ambient:          "ambient",
	ShadowMap:        "shadowMap",
	ShadowsEnabled:   "shadowsEnabled",
	UseInstancing:    "useInstancing",
	Albedo:           "material.albedo",
	AmbientOcclusion: "material.ao",
	NormalMap:        "material.normal",
	Gloss:            "material.gloss",
}

// Uniform returns the GLSL name bound to the role.
func (r Role) Uniform() string {
	if r < 0 || r >= numRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

func (r Role) String() string { return r.Uniform() }

// MultiRole identifies an array-indexed uniform field.
type MultiRole int

const (
	LightPosition MultiRole = iota
	LightColor
	LightStrength

	numMultiRoles
)

var multiRoleFields = [numMultiRoles]string{
	LightPosition: "position",
	LightColor:    "color",
	LightStrength: "strength",
}

// Uniform returns the GLSL name of element i.
func (m MultiRole) Uniform(i int) string {
	if m < 0 || m >= numMultiRoles {
		return fmt.Sprintf("MultiRole(%d)[%d]", int(m), i)
	}
	return fmt.Sprintf("lights[%d].%s", i, multiRoleFields[m])
}

// Program is a linked vertex+fragment program. Uniform locations are
// resolved once by Cache and CacheMulti and read back by role afterwards.
type Program struct {
	ID   uint32
	Name string

	dev    gfx.Device
	single [numRoles]int32
	cached [numRoles]bool
	multi  [numMultiRoles][]int32
}

// New compiles and links a program. Compile and link failures are returned
// as *gfx.CompileError wrapped with the program name.
func New(dev gfx.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	return &Program{ID: id, Name: name, dev: dev}, nil
}

// Cache resolves the locations of the given roles.
func (p *Program) Cache(roles ...Role) {
	for _, r := range roles {
		loc := p.dev.UniformLocation(p.ID, r.Uniform())
		if loc < 0 {
			logger.Warn("Inactive uniform",
				logger.Program(p.Name),
				zap.String("uniform", r.Uniform()))
		}
		p.single[r] = loc
		p.cached[r] = true
	}
}

// CacheMulti resolves count elements of an array-indexed role. Array slots
// are a fixed contract with the shader: an inactive element means the
// shader declares fewer slots, which is reported as an error.
func (p *Program) CacheMulti(role MultiRole, count int) error {
	locs := make([]int32, count)
	var missing []string
	for i := range locs {
		locs[i] = p.dev.UniformLocation(p.ID, role.Uniform(i))
		if locs[i] < 0 {
			missing = append(missing, role.Uniform(i))
		}
	}
	p.multi[role] = locs
	if len(missing) > 0 {
		return fmt.Errorf("program %s: %d of %d slots inactive: %s",
			p.Name, len(missing), count, strings.Join(missing, ", "))
	}
	return nil
}

// Location returns a cached location. It panics if the role was never
// cached for this program.
func (p *Program) Location(r Role) int32 {
	if r < 0 || r >= numRoles || !p.cached[r] {
		panic(fmt.Sprintf("shader %s: uniform role %s not cached", p.Name, r))
	}
	return p.single[r]
}

// MultiLocation returns element i of a cached array role. It panics if the
// role or index was never cached.
func (p *Program) MultiLocation(r MultiRole, i int) int32 {
	if r < 0 || r >= numMultiRoles || i < 0 || i >= len(p.multi[r]) {
		panic(fmt.Sprintf("shader %s: uniform %s not cached", p.Name, r.Uniform(i)))
	}
	return p.multi[r][i]
}

// Has reports whether a role has been cached.
func (p *Program) Has(r Role) bool {
	return r >= 0 && r < numRoles && p.cached[r]
}

// Use makes the program current.
func (p *Program) Use() { p.dev.UseProgram(p.ID) }

func (p *Program) SetMat4(r Role, m mgl32.Mat4) { p.dev.SetMat4(p.Location(r), m) }
func (p *Program) SetVec3(r Role, v mgl32.Vec3) { p.dev.SetVec3(p.Location(r), v) }
func (p *Program) SetFloat(r Role, f float32)   { p.dev.SetFloat(p.Location(r), f) }
func (p *Program) SetInt(r Role, i int32)       { p.dev.SetInt(p.Location(r), i) }

func (p *Program) SetBool(r Role, b bool) {
	var v int32
	if b {
		v = 1
	}
	p.SetInt(r, v)
}

func (p *Program) SetMultiVec3(r MultiRole, i int, v mgl32.Vec3) {
	p.dev.SetVec3(p.MultiLocation(r, i), v)
}

func (p *Program) SetMultiFloat(r MultiRole, i int, f float32) {
	p.dev.SetFloat(p.MultiLocation(r, i), f)
}

// Destroy deletes the GPU program. Calling it twice is a no-op.
func (p *Program) Destroy() {
	if p.ID == 0 {
		return
	}
	p.dev.DeleteProgram(p.ID)
	p.ID = 0
}
