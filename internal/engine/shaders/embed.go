// Package shaders embeds the GLSL sources of the forward pipeline.
package shaders

import _ "embed"

// MaxLights is the size of the lights array in main.frag.
const MaxLights = 8

// Main program: lit, textured, normal-mapped, shadowed geometry.
var (
	//go:embed main.vert
	MainVertex string

	//go:embed main.frag
	MainFragment string
)

// Light program: unlit markers tinted by their light's color.
var (
	//go:embed light.vert
	LightVertex string

	//go:embed light.frag
	LightFragment string
)

// Shadow program: depth-only pass from the light's point of view.
var (
	//go:embed shadow.vert
	ShadowVertex string

	//go:embed shadow.frag
	ShadowFragment string
)
