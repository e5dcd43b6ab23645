// Package material binds sets of textures to fixed texture units.
package material

import (
	"fmt"
	"image"
	"image/color"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
	"github.com/Faultbox/forward3d/internal/engine/texture"
	"github.com/Faultbox/forward3d/internal/logger"
)

// Texture units used by a full material set.
const (
	UnitAlbedo uint32 = iota
	UnitAO
	UnitNormal
	UnitGloss
	// UnitShadow is reserved for the shadow depth texture.
	UnitShadow
)

// NumUnits is the number of units every material binds.
const NumUnits = int(UnitShadow)

// neutral holds the texel bound to a unit the material has no file for:
// full occlusion factor, a flat tangent-space normal and no gloss.
var neutral = [NumUnits]color.RGBA{
	UnitAlbedo: {R: 255, G: 255, B: 255, A: 255},
	UnitAO:     {R: 255, G: 255, B: 255, A: 255},
	UnitNormal: {R: 128, G: 128, B: 255, A: 255},
	UnitGloss:  {A: 255},
}

// Source reads asset files by slash-separated path.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Spec describes where a material's textures live. A Spec with File set
// is a single texture on unit 0. Otherwise it is a four-texture set laid
// out as <Dir>/<Name>/<Name>_COL.<Ext>, _AO.<Ext>, _NRM.png and _GLOSS.<Ext>.
type Spec struct {
	Dir  string
	Name string
	Ext  string
	File string
}

// Paths returns the texture file of each unit in order.
func (s Spec) Paths() []string {
	if s.File != "" {
		return []string{s.File}
	}
	base := path.Join(s.Dir, s.Name, s.Name)
	return []string{
		base + "_COL." + s.Ext,
		base + "_AO." + s.Ext,
		base + "_NRM.png",
		base + "_GLOSS." + s.Ext,
	}
}

// Material owns one texture per unit. Units past the loaded files hold
// 1x1 neutral textures so Use always rebinds all NumUnits units.
type Material struct {
	Name string
	// Fallbacks counts units that received the placeholder texture.
	Fallbacks int

	textures []uint32
	loaded   int
}

const (
	placeholderSize = 64
	placeholderCell = 8
)

// Load decodes and uploads every texture of spec. When fallback is true a
// texture that fails to read or decode is replaced by a magenta
// checkerboard and a warning is logged; otherwise the failure is returned.
func Load(dev gfx.Device, src Source, name string, spec Spec, fallback bool) (*Material, error) {
	m := &Material{Name: name}

	for unit, p := range spec.Paths() {
		img, err := read(src, p)
		if err != nil {
			if !fallback {
				m.Destroy(dev)
				return nil, fmt.Errorf("material %s: %w", name, err)
			}
			logger.Warn("Texture missing, using placeholder",
				logger.Material(name),
				zap.Int("unit", unit),
				zap.Error(err))
			img = texture.Checkerboard(placeholderSize, placeholderCell)
			m.Fallbacks++
		}

		tex, err := dev.CreateTexture(img)
		if err != nil {
			m.Destroy(dev)
			return nil, fmt.Errorf("material %s: upload %s: %w", name, p, err)
		}
		m.textures = append(m.textures, tex)
	}
	m.loaded = len(m.textures)

	for unit := m.loaded; unit < NumUnits; unit++ {
		tex, err := dev.CreateTexture(texture.Solid(neutral[unit]))
		if err != nil {
			m.Destroy(dev)
			return nil, fmt.Errorf("material %s: neutral texture for unit %d: %w", name, unit, err)
		}
		m.textures = append(m.textures, tex)
	}

	logger.Info("Material loaded",
		logger.Material(name),
		zap.Int("textures", m.loaded),
		zap.Int("fallbacks", m.Fallbacks))
	return m, nil
}

func read(src Source, p string) (*image.RGBA, error) {
	data, err := src.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return texture.Decode(p, data)
}

// Units returns the number of units loaded from files.
func (m *Material) Units() int { return m.loaded }

// Use binds all NumUnits textures to their units in order.
func (m *Material) Use(dev gfx.Device) {
	for unit, tex := range m.textures {
		dev.BindTexture(uint32(unit), tex)
	}
}

// Destroy releases all textures. Calling it twice is a no-op.
func (m *Material) Destroy(dev gfx.Device) {
	for _, tex := range m.textures {
		dev.DeleteTexture(tex)
	}
	m.textures = nil
	m.loaded = 0
}
