// Package scene holds the entity registry, the light slots and the camera.
package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/forward3d/internal/engine/camera"
	"github.com/Faultbox/forward3d/internal/engine/shaders"
)

// MaxLights is the number of light slots; slot i feeds lights[i] in the
// main shader.
const MaxLights = shaders.MaxLights

// Scene is mutated by the frame loop and read by the renderer. It is not
// safe for concurrent use.
type Scene struct {
	Entities map[EntityType][]*Entity
	Lights   [MaxLights]Light
	Camera   *camera.FirstPerson
}

// New returns an empty scene with a camera at cameraPos.
func New(cameraPos mgl32.Vec3) *Scene {
	return &Scene{
		Entities: make(map[EntityType][]*Entity),
		Camera:   camera.NewFirstPerson(cameraPos),
	}
}

// Add registers an entity under t and returns it.
func (s *Scene) Add(t EntityType, e *Entity) *Entity {
	s.Entities[t] = append(s.Entities[t], e)
	return e
}

// Types returns the populated entity types in ascending order.
func (s *Scene) Types() []EntityType {
	types := make([]EntityType, 0, len(s.Entities))
	for t, list := range s.Entities {
		if len(list) > 0 {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Count returns the total number of entities.
func (s *Scene) Count() int {
	n := 0
	for _, list := range s.Entities {
		n += len(list)
	}
	return n
}

// SetLight fills slot i.
func (s *Scene) SetLight(i int, l Light) error {
	if i < 0 || i >= MaxLights {
		return fmt.Errorf("light slot %d out of range [0,%d)", i, MaxLights)
	}
	s.Lights[i] = l
	return nil
}

// AddLightMarkers adds one PointLight entity per light slot, linked to it.
func (s *Scene) AddLightMarkers() {
	for i := range s.Lights {
		s.Add(PointLight, &Entity{Light: &s.Lights[i]})
	}
}

// MoveCamera offsets the camera position.
func (s *Scene) MoveCamera(delta mgl32.Vec3) {
	s.Camera.Move(delta)
}

// SpinCamera turns the camera; see camera.FirstPerson.Spin.
func (s *Scene) SpinCamera(dYaw, dPitch float32) {
	s.Camera.Spin(dYaw, dPitch)
}

// Animate advances every rotating entity by 0.25 degrees per axis per
// nominal frame, scaled by rate, wrapping past 360.
func (s *Scene) Animate(rate float32) {
	for _, list := range s.Entities {
		for _, e := range list {
			if e.Rotating {
				e.animate(rate)
			}
		}
	}
}
