// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Shadows ShadowConfig  `yaml:"shadows"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Backend    string `yaml:"backend"` // "sdl" or "glfw"
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds forward pipeline settings.
type RenderConfig struct {
	FovY       float32    `yaml:"fov_y"` // degrees
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	ClearColor [3]float32 `yaml:"clear_color"`
	Ambient    [3]float32 `yaml:"ambient"`
	Instanced  bool       `yaml:"instanced"`
	ShaderDir  string     `yaml:"shader_dir"` // empty = embedded sources

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ShadowConfig holds directional shadow settings.
type ShadowConfig struct {
	Enabled       bool       `yaml:"enabled"`
	Resolution    int32      `yaml:"resolution"`
	LightPosition [3]float32 `yaml:"light_position"`
	Extent        float32    `yaml:"extent"` // half-size of the orthographic volume
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
}

// CameraConfig holds first-person camera settings.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	MoveSpeed        float32    `yaml:"move_speed"`        // units per nominal frame
	MouseSensitivity float32    `yaml:"mouse_sensitivity"` // degrees per pixel per nominal frame
}

// AssetsConfig describes where assets live and which mesh/material every
// entity type uses.
type AssetsConfig struct {
	Root             string                  `yaml:"root"`
	FallbackTextures bool                    `yaml:"fallback_textures"`
	Meshes           map[string]MeshSpec     `yaml:"meshes"`
	Materials        map[string]MaterialSpec `yaml:"materials"`
	Types            map[string]TypeSpec     `yaml:"types"`
}

// MeshSpec selects a mesh source: a text mesh file or a generated plane.
type MeshSpec struct {
	File  string     `yaml:"file,omitempty"`
	Plane *PlaneSpec `yaml:"plane,omitempty"`
}

// PlaneSpec describes a generated planar mesh.
type PlaneSpec struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	Tiling   float32 `yaml:"tiling"`
	Tangents bool    `yaml:"tangents"`
}

// MaterialSpec describes a texture set. Set materials load
// <dir>/<name>/<name>_{COL,AO,NRM,GLOSS}; single materials load File.
type MaterialSpec struct {
	Dir  string `yaml:"dir,omitempty"`
	Name string `yaml:"name,omitempty"`
	Ext  string `yaml:"ext,omitempty"`
	File string `yaml:"file,omitempty"`
}

// TypeSpec maps an entity type to a mesh and material key.
type TypeSpec struct {
	Mesh     string `yaml:"mesh"`
	Material string `yaml:"material"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Backend: "sdl",
			Title:   "forward3d",
			Width:   1640,
			Height:  880,
			VSync:   true,
		},
		Render: RenderConfig{
			FovY:       45,
			Near:       0.1,
			Far:        1000,
			ClearColor: [3]float32{0.1, 0.2, 0.2},
			Ambient:    [3]float32{0.1, 0.1, 0.1},

			ScreenshotDir: "screenshots",
		},
		Shadows: ShadowConfig{
			Enabled:       true,
			Resolution:    2048,
			LightPosition: [3]float32{20, 40, 20},
			Extent:        60,
			Near:          1,
			Far:           150,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 3, 12},
			MoveSpeed:        0.5,
			MouseSensitivity: 1,
		},
		Assets: AssetsConfig{
			Root:             ".",
			FallbackTextures: true,
			Meshes: map[string]MeshSpec{
				"carpet": {File: "models/carpet.obj"},
				"cube":   {File: "models/cube.obj"},
				"glass":  {File: "models/glass.obj"},
				"floor":  {Plane: &PlaneSpec{Width: 40, Height: 40, Tiling: 1, Tangents: true}},
			},
			Materials: map[string]MaterialSpec{
				"carpet": {Dir: "gfx", Name: "Carpet", Ext: "jpg"},
			},
			Types: map[string]TypeSpec{
				"carpet":     {Mesh: "carpet", Material: "carpet"},
				"pointlight": {Mesh: "cube", Material: "carpet"},
				"cube":       {Mesh: "cube", Material: "carpet"},
				"glass":      {Mesh: "glass", Material: "carpet"},
				"floor":      {Mesh: "floor", Material: "carpet"},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
