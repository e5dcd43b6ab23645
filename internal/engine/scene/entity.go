package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/forward3d/pkg/transform"
)

// EntityType groups entities sharing one mesh and one material.
type EntityType int

const (
	Carpet     EntityType = 0
	PointLight EntityType = 1
	Floor      EntityType = 2
	Cube       EntityType = 100
	Glass      EntityType = 200
)

var typeNames = map[EntityType]string{
	Carpet:     "carpet",
	PointLight: "pointlight",
	Floor:      "floor",
	Cube:       "cube",
	Glass:      "glass",
}

func (t EntityType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type%d", int(t))
}

// ParseEntityType resolves a type name as used in configuration.
func ParseEntityType(s string) (EntityType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown entity type %q", s)
}

// EntityTypes returns all named types in ascending order.
func EntityTypes() []EntityType {
	types := make([]EntityType, 0, len(typeNames))
	for t := range typeNames {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Light is a point light occupying one shader slot.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Strength float32
}

// Entity is a positioned, oriented instance of its type.
type Entity struct {
	Position mgl32.Vec3
	Eulers   mgl32.Vec3 // degrees
	Rotating bool
	// Light links a marker entity to the light it visualizes. The marker
	// is drawn at the light's position.
	Light *Light
}

// WorldPosition returns the linked light's position for markers and
// Position otherwise.
func (e *Entity) WorldPosition() mgl32.Vec3 {
	if e.Light != nil {
		return e.Light.Position
	}
	return e.Position
}

// ModelMatrix returns translation x rotation.
func (e *Entity) ModelMatrix() mgl32.Mat4 {
	return transform.Model(e.WorldPosition(), e.Eulers)
}

const rotateStep = 0.25 // degrees per axis per nominal frame

func (e *Entity) animate(rate float32) {
	for i := range e.Eulers {
		e.Eulers[i] += rotateStep * rate
		if e.Eulers[i] > 360 {
			e.Eulers[i] -= 360
		}
	}
}
