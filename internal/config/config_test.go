package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1640 || cfg.Window.Height != 880 {
		t.Errorf("expected 1640x880, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Backend != "sdl" {
		t.Errorf("expected sdl backend, got %s", cfg.Window.Backend)
	}
	if cfg.Render.FovY != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Render.FovY)
	}
	if cfg.Render.ClearColor != [3]float32{0.1, 0.2, 0.2} {
		t.Errorf("unexpected clear color %v", cfg.Render.ClearColor)
	}
	if !cfg.Shadows.Enabled {
		t.Error("expected shadows enabled by default")
	}
	if cfg.Render.Instanced {
		t.Error("expected per-entity draws by default")
	}
	if cfg.Camera.Position != [3]float32{0, 3, 12} {
		t.Errorf("unexpected camera start %v", cfg.Camera.Position)
	}
	if !cfg.Assets.FallbackTextures {
		t.Error("expected fallback textures enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  backend: glfw
  width: 1920
  height: 1080
  fullscreen: true

render:
  instanced: true
  clear_color: [0, 0, 0]

shadows:
  enabled: false
  resolution: 1024

assets:
  root: /data/scene
  meshes:
    rock:
      file: models/rock.obj
  types:
    glass:
      mesh: rock
      material: carpet

logging:
  level: "debug"
  log_file: "viewer.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Backend != "glfw" {
		t.Errorf("expected glfw backend, got %s", cfg.Window.Backend)
	}
	if cfg.Window.Width != 1920 || !cfg.Window.Fullscreen {
		t.Errorf("window section not applied: %+v", cfg.Window)
	}
	if !cfg.Render.Instanced {
		t.Error("expected instanced to be true")
	}
	if cfg.Shadows.Enabled || cfg.Shadows.Resolution != 1024 {
		t.Errorf("shadow section not applied: %+v", cfg.Shadows)
	}
	if cfg.Assets.Root != "/data/scene" {
		t.Errorf("expected root /data/scene, got %s", cfg.Assets.Root)
	}
	// File entries merge into the default tables.
	if _, ok := cfg.Assets.Meshes["cube"]; !ok {
		t.Error("default cube mesh should survive the merge")
	}
	if cfg.Assets.Meshes["rock"].File != "models/rock.obj" {
		t.Errorf("rock mesh not loaded: %+v", cfg.Assets.Meshes["rock"])
	}
	if cfg.Assets.Types["glass"].Mesh != "rock" {
		t.Errorf("glass type not remapped: %+v", cfg.Assets.Types["glass"])
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("merged config should validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Window.Backend = "x11" }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"inverted depth range", func(c *Config) { c.Render.Far = 0.01 }},
		{"unknown mesh", func(c *Config) { c.Assets.Types["cube"] = TypeSpec{Mesh: "nope", Material: "carpet"} }},
		{"unknown material", func(c *Config) { c.Assets.Types["cube"] = TypeSpec{Mesh: "cube", Material: "nope"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "backend flag",
			setup: func() { *flagBackend = "glfw" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Backend != "glfw" {
					t.Errorf("expected glfw backend, got %s", cfg.Window.Backend)
				}
			},
			teardown: func() { *flagBackend = "" },
		},
		{
			name:  "no-shadows flag",
			setup: func() { *flagNoShadows = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Shadows.Enabled {
					t.Error("expected shadows disabled")
				}
			},
			teardown: func() { *flagNoShadows = false },
		},
		{
			name:  "instanced flag",
			setup: func() { *flagInstanced = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Render.Instanced {
					t.Error("expected instanced rendering")
				}
			},
			teardown: func() { *flagInstanced = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Title = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Window.Title != "saved" {
		t.Errorf("expected title 'saved', got %s", loaded.Window.Title)
	}
	if loaded.Assets.Meshes["floor"].Plane == nil {
		t.Error("plane mesh spec lost on save")
	}
}
