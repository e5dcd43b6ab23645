// Package shadow implements the depth-only pass for one directional light.
package shadow

import (
	"fmt"

	"github.com/Faultbox/forward3d/internal/engine/gfx"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Map is a square depth target sampled with comparison in the main pass.
type Map struct {
	Resolution int32

	dev    gfx.Device
	target gfx.DepthTarget
}

// NewMap creates a shadow map. A non-positive resolution selects
// DefaultResolution.
func NewMap(dev gfx.Device, resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	target, err := dev.CreateDepthTarget(resolution)
	if err != nil {
		return nil, fmt.Errorf("shadow map %dx%d: %w", resolution, resolution, err)
	}
	return &Map{Resolution: resolution, dev: dev, target: target}, nil
}

// Begin binds the depth target, sizes the viewport to it and clears depth.
// Front faces are culled to reduce acne.
func (sm *Map) Begin() {
	sm.dev.BindFramebuffer(sm.target.FBO)
	sm.dev.Viewport(0, 0, sm.Resolution, sm.Resolution)
	sm.dev.Clear(gfx.ClearDepthBuffer)
	sm.dev.SetDepthTest(true)
	sm.dev.SetCulling(gfx.CullFront)
}

// End rebinds the default framebuffer with the given viewport.
func (sm *Map) End(width, height int32) {
	sm.dev.BindFramebuffer(0)
	sm.dev.Viewport(0, 0, width, height)
	sm.dev.SetCulling(gfx.CullNone)
}

// BindTexture binds the depth texture to a texture unit.
func (sm *Map) BindTexture(unit uint32) {
	sm.dev.BindTexture(unit, sm.target.Texture)
}

// FBO returns the framebuffer drawn into by Begin.
func (sm *Map) FBO() uint32 { return sm.target.FBO }

// Destroy releases the framebuffer and texture. Calling it twice is a no-op.
func (sm *Map) Destroy() {
	if sm.target.FBO == 0 {
		return
	}
	sm.dev.DeleteDepthTarget(sm.target)
	sm.target = gfx.DepthTarget{}
}
