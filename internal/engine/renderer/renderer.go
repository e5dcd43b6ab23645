// Package renderer draws a scene with a forward-shading pipeline and an
// optional shadow pass.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
	"github.com/Faultbox/forward3d/internal/engine/instbuf"
	"github.com/Faultbox/forward3d/internal/engine/material"
	"github.com/Faultbox/forward3d/internal/engine/mesh"
	"github.com/Faultbox/forward3d/internal/engine/scene"
	"github.com/Faultbox/forward3d/internal/engine/shader"
	"github.com/Faultbox/forward3d/internal/engine/shaders"
	"github.com/Faultbox/forward3d/internal/engine/shadow"
	"github.com/Faultbox/forward3d/internal/logger"
	"github.com/Faultbox/forward3d/pkg/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// Config holds renderer configuration.
type Config struct {
	Width  int32
	Height int32

	FovY float32 // degrees
	Near float32
	Far  float32

	ClearColor mgl32.Vec3
	Ambient    mgl32.Vec3

	Shadows          bool
	ShadowResolution int32
	ShadowLight      mgl32.Vec3
	ShadowProjection shadow.Projection

	// Instanced draws each entity type with one instanced call.
	Instanced bool
}

// DefaultConfig returns the stock renderer settings.
func DefaultConfig() Config {
	return Config{
		Width:            1640,
		Height:           880,
		FovY:             45,
		Near:             0.1,
		Far:              1000,
		ClearColor:       mgl32.Vec3{0.1, 0.2, 0.2},
		Ambient:          mgl32.Vec3{0.1, 0.1, 0.1},
		Shadows:          true,
		ShadowResolution: shadow.DefaultResolution,
		ShadowLight:      mgl32.Vec3{20, 40, 20},
		ShadowProjection: shadow.Projection{Extent: 60, Near: 1, Far: 150},
	}
}

// Sources are the GLSL texts of the three programs.
type Sources struct {
	MainVertex, MainFragment     string
	LightVertex, LightFragment   string
	ShadowVertex, ShadowFragment string
}

// DefaultSources returns the embedded shaders.
func DefaultSources() Sources {
	return Sources{
		MainVertex:     shaders.MainVertex,
		MainFragment:   shaders.MainFragment,
		LightVertex:    shaders.LightVertex,
		LightFragment:  shaders.LightFragment,
		ShadowVertex:   shaders.ShadowVertex,
		ShadowFragment: shaders.ShadowFragment,
	}
}

// Stats describes the last rendered frame.
type Stats struct {
	DrawCalls       int
	ShadowDrawCalls int
	Entities        int
	SkippedTypes    int
}

// Engine owns the programs, the shadow map and every mesh and material
// registered with it.
type Engine struct {
	dev gfx.Device
	cfg Config

	main       *shader.Program
	light      *shader.Program
	depth      *shader.Program
	shadowMap  *shadow.Map
	lightSpace mgl32.Mat4
	projection mgl32.Mat4
	meshes     map[scene.EntityType]*mesh.Mesh
	materials  map[scene.EntityType]*material.Material
	instances  map[scene.EntityType]*instbuf.Buffer
	boundInst  map[*mesh.Mesh]uint32
	stats      Stats
	destroyed  bool
}

// New compiles the programs, resolves uniform locations, creates the shadow
// map when enabled and uploads the one-time uniforms.
func New(dev gfx.Device, cfg Config, src Sources) (*Engine, error) {
	e := &Engine{
		dev:       dev,
		cfg:       cfg,
		meshes:    make(map[scene.EntityType]*mesh.Mesh),
		materials: make(map[scene.EntityType]*material.Material),
		instances: make(map[scene.EntityType]*instbuf.Buffer),
		boundInst: make(map[*mesh.Mesh]uint32),
	}

	var err error
	if e.main, err = shader.New(dev, "main", src.MainVertex, src.MainFragment); err != nil {
		return nil, err
	}
	e.main.Cache(shader.View, shader.Projection, shader.Model, shader.CameraPos,
		shader.LightSpace, shader.Ambient, shader.ShadowMap, shader.ShadowsEnabled,
		shader.UseInstancing, shader.Albedo, shader.AmbientOcclusion, shader.NormalMap,
		shader.Gloss)
	for _, r := range []shader.MultiRole{shader.LightPosition, shader.LightColor, shader.LightStrength} {
		if err := e.main.CacheMulti(r, scene.MaxLights); err != nil {
			e.Quit()
			return nil, fmt.Errorf("light slots: %w", err)
		}
	}

	if e.light, err = shader.New(dev, "light", src.LightVertex, src.LightFragment); err != nil {
		e.Quit()
		return nil, err
	}
	e.light.Cache(shader.View, shader.Projection, shader.Model, shader.Tint)

	if cfg.Shadows {
		if e.depth, err = shader.New(dev, "shadow", src.ShadowVertex, src.ShadowFragment); err != nil {
			e.Quit()
			return nil, err
		}
		e.depth.Cache(shader.Model, shader.LightSpace, shader.UseInstancing)

		if e.shadowMap, err = shadow.NewMap(dev, cfg.ShadowResolution); err != nil {
			e.Quit()
			return nil, err
		}
		e.lightSpace = shadow.LightSpace(cfg.ShadowLight, mgl32.Vec3{}, cfg.ShadowProjection)
	}

	dev.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2])
	dev.SetDepthTest(true)
	dev.SetBlend(true)
	e.setOnetimeUniforms()

	logger.Info("Renderer ready",
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
		zap.Bool("shadows", cfg.Shadows),
		zap.Bool("instanced", cfg.Instanced))
	return e, nil
}

func (e *Engine) setOnetimeUniforms() {
	aspect := float32(1)
	if e.cfg.Height > 0 {
		aspect = float32(e.cfg.Width) / float32(e.cfg.Height)
	}
	e.projection = transform.Projection(e.cfg.FovY, aspect, e.cfg.Near, e.cfg.Far)
	e.dev.Viewport(0, 0, e.cfg.Width, e.cfg.Height)

	e.main.Use()
	e.main.SetMat4(shader.Projection, e.projection)
	e.main.SetVec3(shader.Ambient, e.cfg.Ambient)
	e.main.SetInt(shader.Albedo, int32(material.UnitAlbedo))
	e.main.SetInt(shader.AmbientOcclusion, int32(material.UnitAO))
	e.main.SetInt(shader.NormalMap, int32(material.UnitNormal))
	e.main.SetInt(shader.Gloss, int32(material.UnitGloss))
	e.main.SetInt(shader.ShadowMap, int32(material.UnitShadow))
	e.main.SetBool(shader.ShadowsEnabled, e.cfg.Shadows)
	e.main.SetBool(shader.UseInstancing, false)
	e.main.SetMat4(shader.LightSpace, e.lightSpace)

	e.light.Use()
	e.light.SetMat4(shader.Projection, e.projection)
}

// SetMesh registers the mesh drawn for an entity type. The engine takes
// ownership and releases it in Quit.
func (e *Engine) SetMesh(t scene.EntityType, m *mesh.Mesh) { e.meshes[t] = m }

// SetMaterial registers the material bound for an entity type. The engine
// takes ownership and releases it in Quit.
func (e *Engine) SetMaterial(t scene.EntityType, m *material.Material) { e.materials[t] = m }

// Resize updates the viewport and projection.
func (e *Engine) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	e.cfg.Width, e.cfg.Height = width, height
	e.setOnetimeUniforms()
	logger.Debug("Renderer resized",
		zap.Int32("width", width),
		zap.Int32("height", height))
}

// Projection returns the current projection matrix.
func (e *Engine) Projection() mgl32.Mat4 { return e.projection }

// LightSpace returns the shadow camera transform.
func (e *Engine) LightSpace() mgl32.Mat4 { return e.lightSpace }

// Stats returns counters for the last frame.
func (e *Engine) Stats() Stats { return e.stats }

// Render draws one frame: the shadow pass, the lit pass and the light
// markers. Entity types without a mesh, or without a material for the lit
// pass, are skipped.
func (e *Engine) Render(s *scene.Scene) {
	if e.destroyed {
		return
	}
	e.stats = Stats{Entities: s.Count()}
	types := s.Types()

	if e.cfg.Instanced {
		e.recordInstances(s, types)
	}

	if e.shadowMap != nil {
		e.shadowPass(s, types)
	}

	e.dev.Clear(gfx.ClearColorBuffer | gfx.ClearDepthBuffer)
	e.dev.Viewport(0, 0, e.cfg.Width, e.cfg.Height)

	view := s.Camera.ViewMatrix()
	e.main.Use()
	e.main.SetMat4(shader.View, view)
	e.main.SetVec3(shader.CameraPos, s.Camera.Position)
	e.main.SetMat4(shader.LightSpace, e.lightSpace)
	for i, l := range s.Lights {
		e.main.SetMultiVec3(shader.LightPosition, i, l.Position)
		e.main.SetMultiVec3(shader.LightColor, i, l.Color)
		e.main.SetMultiFloat(shader.LightStrength, i, l.Strength)
	}

	for _, t := range types {
		if t == scene.PointLight {
			continue
		}
		m, mat := e.meshes[t], e.materials[t]
		if m == nil || mat == nil {
			e.stats.SkippedTypes++
			continue
		}
		mat.Use(e.dev)
		if e.shadowMap != nil {
			e.shadowMap.BindTexture(material.UnitShadow)
		}
		e.stats.DrawCalls += e.drawType(e.main, t, m, s.Entities[t])
	}

	e.drawMarkers(s, view)
}

func (e *Engine) shadowPass(s *scene.Scene, types []scene.EntityType) {
	e.shadowMap.Begin()
	e.depth.Use()
	e.depth.SetMat4(shader.LightSpace, e.lightSpace)

	for _, t := range types {
		if t == scene.PointLight {
			continue
		}
		m := e.meshes[t]
		if m == nil {
			continue
		}
		e.stats.ShadowDrawCalls += e.drawType(e.depth, t, m, s.Entities[t])
	}

	e.shadowMap.End(e.cfg.Width, e.cfg.Height)
}

// drawType draws every entity of one type with the current program and
// returns the number of draw calls issued.
func (e *Engine) drawType(p *shader.Program, t scene.EntityType, m *mesh.Mesh, entities []*scene.Entity) int {
	if e.cfg.Instanced {
		buf := e.instances[t]
		if e.boundInst[m] != buf.ID() {
			m.BindInstances(e.dev, buf.ID())
			e.boundInst[m] = buf.ID()
		}
		p.SetBool(shader.UseInstancing, true)
		m.DrawInstanced(e.dev, int32(len(entities)))
		p.SetBool(shader.UseInstancing, false)
		return 1
	}

	for _, ent := range entities {
		p.SetMat4(shader.Model, ent.ModelMatrix())
		m.Draw(e.dev)
	}
	return len(entities)
}

// recordInstances writes every model matrix into its type's buffer and
// uploads each buffer once.
func (e *Engine) recordInstances(s *scene.Scene, types []scene.EntityType) {
	for _, t := range types {
		if t == scene.PointLight || e.meshes[t] == nil {
			continue
		}
		entities := s.Entities[t]
		buf := e.instances[t]
		if buf == nil {
			buf = instbuf.New(e.dev, len(entities))
			e.instances[t] = buf
		}
		for i, ent := range entities {
			buf.Record(i, ent.ModelMatrix())
		}
		buf.Flush()
	}
}

func (e *Engine) drawMarkers(s *scene.Scene, view mgl32.Mat4) {
	m := e.meshes[scene.PointLight]
	markers := s.Entities[scene.PointLight]
	if m == nil || len(markers) == 0 {
		return
	}

	e.light.Use()
	e.light.SetMat4(shader.View, view)
	for _, ent := range markers {
		tint := mgl32.Vec3{1, 1, 1}
		if ent.Light != nil {
			if ent.Light.Strength == 0 {
				continue
			}
			tint = ent.Light.Color
		}
		e.light.SetVec3(shader.Tint, tint)
		e.light.SetMat4(shader.Model, ent.ModelMatrix())
		m.Draw(e.dev)
		e.stats.DrawCalls++
	}
}

// Quit releases every program, mesh, material, instance buffer and the
// shadow map exactly once. Resources shared between entity types are
// released once. Calling Quit twice is a no-op.
func (e *Engine) Quit() {
	if e.destroyed {
		return
	}
	e.destroyed = true

	meshes := make(map[*mesh.Mesh]bool)
	for _, m := range e.meshes {
		if m != nil && !meshes[m] {
			meshes[m] = true
			m.Destroy(e.dev)
		}
	}
	materials := make(map[*material.Material]bool)
	for _, m := range e.materials {
		if m != nil && !materials[m] {
			materials[m] = true
			m.Destroy(e.dev)
		}
	}
	for _, b := range e.instances {
		b.Destroy()
	}
	for _, p := range []*shader.Program{e.main, e.light, e.depth} {
		if p != nil {
			p.Destroy()
		}
	}
	if e.shadowMap != nil {
		e.shadowMap.Destroy()
	}

	logger.Info("Renderer released",
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", len(materials)),
		zap.Int("instance_buffers", len(e.instances)))
}

// String implements fmt.Stringer for debug logging.
func (s Stats) String() string {
	return fmt.Sprintf("draws=%d shadow=%d entities=%d skipped=%d",
		s.DrawCalls, s.ShadowDrawCalls, s.Entities, s.SkippedTypes)
}
