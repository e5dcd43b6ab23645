package assets

import (
	"bytes"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/config"
	"github.com/Faultbox/forward3d/internal/engine/gfx"
	"github.com/Faultbox/forward3d/internal/engine/material"
	"github.com/Faultbox/forward3d/internal/engine/mesh"
	"github.com/Faultbox/forward3d/internal/engine/scene"
	"github.com/Faultbox/forward3d/internal/logger"
)

// Registry receives the resources of each entity type and owns them from
// then on. *renderer.Engine implements it.
type Registry interface {
	SetMesh(t scene.EntityType, m *mesh.Mesh)
	SetMaterial(t scene.EntityType, m *material.Material)
}

// Summary counts what LoadResources created.
type Summary struct {
	Types     int
	Meshes    int
	Materials int
	Fallbacks int
}

// LoadResources loads the mesh and material of every configured entity
// type and hands them to reg. Meshes and materials referenced by several
// types are loaded once and shared. Everything loaded before a failure has
// already been handed to reg.
func LoadResources(dev gfx.Device, m *Manager, cfg config.AssetsConfig, reg Registry) (Summary, error) {
	var sum Summary
	meshes := make(map[string]*mesh.Mesh)
	materials := make(map[string]*material.Material)

	names := make([]string, 0, len(cfg.Types))
	for name := range cfg.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t, err := scene.ParseEntityType(name)
		if err != nil {
			return sum, err
		}
		spec := cfg.Types[name]

		msh, ok := meshes[spec.Mesh]
		if !ok {
			if msh, err = loadMesh(dev, m, spec.Mesh, cfg.Meshes); err != nil {
				return sum, fmt.Errorf("type %s: %w", name, err)
			}
			meshes[spec.Mesh] = msh
			sum.Meshes++
		}
		reg.SetMesh(t, msh)

		mat, ok := materials[spec.Material]
		if !ok {
			matSpec, found := cfg.Materials[spec.Material]
			if !found {
				return sum, fmt.Errorf("type %s: unknown material %q", name, spec.Material)
			}
			mat, err = material.Load(dev, m, spec.Material, material.Spec(matSpec), cfg.FallbackTextures)
			if err != nil {
				return sum, fmt.Errorf("type %s: %w", name, err)
			}
			materials[spec.Material] = mat
			sum.Materials++
			sum.Fallbacks += mat.Fallbacks
		}
		reg.SetMaterial(t, mat)
		sum.Types++
	}

	logger.Info("Assets loaded",
		zap.Int("types", sum.Types),
		zap.Int("meshes", sum.Meshes),
		zap.Int("materials", sum.Materials),
		zap.Int("fallback_textures", sum.Fallbacks))
	return sum, nil
}

func loadMesh(dev gfx.Device, m *Manager, key string, specs map[string]config.MeshSpec) (*mesh.Mesh, error) {
	spec, ok := specs[key]
	if !ok {
		return nil, fmt.Errorf("unknown mesh %q", key)
	}

	var data *mesh.Data
	switch {
	case spec.Plane != nil:
		layout := mesh.LayoutLit
		if spec.Plane.Tangents {
			layout = mesh.LayoutTangent
		}
		data = mesh.Plane(spec.Plane.Width, spec.Plane.Height, spec.Plane.Tiling, layout)
	case spec.File != "":
		raw, err := m.ReadFile(spec.File)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", key, err)
		}
		if data, err = mesh.Parse(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("mesh %s (%s): %w", key, spec.File, err)
		}
		m.cache.Drop(spec.File)
	default:
		return nil, fmt.Errorf("mesh %s: needs a file or a plane", key)
	}

	msh, err := mesh.Upload(dev, data)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", key, err)
	}

	fields := []zap.Field{
		logger.Mesh(key),
		zap.Int32("vertices", data.Count()),
		zap.Stringer("layout", data.Layout),
	}
	if data.Degenerate > 0 {
		logger.Warn("Mesh has degenerate UV triangles", append(fields, zap.Int("triangles", data.Degenerate))...)
	} else {
		logger.Info("Mesh loaded", fields...)
	}
	return msh, nil
}
