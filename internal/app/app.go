// Package app runs the viewer: it opens the window, loads the renderer and
// assets, and drives the frame loop.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/assets"
	"github.com/Faultbox/forward3d/internal/config"
	"github.com/Faultbox/forward3d/internal/engine/gfx"
	"github.com/Faultbox/forward3d/internal/engine/input"
	"github.com/Faultbox/forward3d/internal/engine/renderer"
	"github.com/Faultbox/forward3d/internal/engine/scene"
	"github.com/Faultbox/forward3d/internal/engine/screenshot"
	"github.com/Faultbox/forward3d/internal/engine/shadow"
	"github.com/Faultbox/forward3d/internal/engine/window"
	"github.com/Faultbox/forward3d/internal/logger"
)

// Window is what the frame loop needs from a window backend.
type Window interface {
	PollEvents(st *input.State)
	SwapBuffers()
	FramebufferSize() (int32, int32)
	SetTitle(title string)
	Time() float64
	Close()
}

// App is the viewer instance.
type App struct {
	cfg    *config.Config
	win    Window
	dev    gfx.Device
	engine *renderer.Engine
	assets *assets.Manager
	scene  *scene.Scene
	input  *input.State
	clock  *Clock
	shots  *screenshot.Capture

	width, height int32
}

// New opens the window, creates the GL device and loads everything the
// first frame needs.
func New(cfg *config.Config) (*App, error) {
	logger.Info("Initializing viewer",
		zap.String("backend", cfg.Window.Backend),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	// The GL context must exist before the device is created.
	win, err := window.Open(cfg.Window.Backend, window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dev, err := gfx.NewGLDevice()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", dev.Version),
		zap.String("renderer", dev.Renderer))

	a, err := newApp(cfg, win, dev)
	if err != nil {
		win.Close()
		return nil, err
	}
	return a, nil
}

// newApp builds the renderer, loads assets and creates the scene on an
// already current context.
func newApp(cfg *config.Config, win Window, dev gfx.Device) (*App, error) {
	width, height := win.FramebufferSize()

	src := renderer.DefaultSources()
	mgr := assets.NewManager()
	if cfg.Render.ShaderDir != "" {
		var err error
		if src, err = loadSources(cfg.Render.ShaderDir); err != nil {
			return nil, err
		}
	}

	engine, err := renderer.New(dev, rendererConfig(cfg, width, height), src)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := mgr.AddDir(cfg.Assets.Root); err != nil {
		engine.Quit()
		return nil, err
	}
	if _, err := assets.LoadResources(dev, mgr, cfg.Assets, engine); err != nil {
		engine.Quit()
		mgr.Close()
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	s := scene.Default()
	s.Camera.Position = mgl32.Vec3(cfg.Camera.Position)
	logger.Info("Scene ready",
		zap.Int("entities", s.Count()),
		zap.Int("types", len(s.Types())))

	return &App{
		cfg:    cfg,
		win:    win,
		dev:    dev,
		engine: engine,
		assets: mgr,
		scene:  s,
		input:  input.New(),
		clock:  NewClock(win.Time()),
		shots:  screenshot.New(cfg.Render.ScreenshotDir, "forward3d"),
		width:  width,
		height: height,
	}, nil
}

func rendererConfig(cfg *config.Config, width, height int32) renderer.Config {
	return renderer.Config{
		Width:            width,
		Height:           height,
		FovY:             cfg.Render.FovY,
		Near:             cfg.Render.Near,
		Far:              cfg.Render.Far,
		ClearColor:       mgl32.Vec3(cfg.Render.ClearColor),
		Ambient:          mgl32.Vec3(cfg.Render.Ambient),
		Shadows:          cfg.Shadows.Enabled,
		ShadowResolution: cfg.Shadows.Resolution,
		ShadowLight:      mgl32.Vec3(cfg.Shadows.LightPosition),
		ShadowProjection: shadow.Projection{
			Extent: cfg.Shadows.Extent,
			Near:   cfg.Shadows.Near,
			Far:    cfg.Shadows.Far,
		},
		Instanced: cfg.Render.Instanced,
	}
}

// loadSources reads the six GLSL files from dir.
func loadSources(dir string) (renderer.Sources, error) {
	mgr := assets.NewManager()
	defer mgr.Close()
	if err := mgr.AddDir(dir); err != nil {
		return renderer.Sources{}, err
	}

	var src renderer.Sources
	for name, dst := range map[string]*string{
		"main.vert":   &src.MainVertex,
		"main.frag":   &src.MainFragment,
		"light.vert":  &src.LightVertex,
		"light.frag":  &src.LightFragment,
		"shadow.vert": &src.ShadowVertex,
		"shadow.frag": &src.ShadowFragment,
	} {
		data, err := mgr.ReadFile(name)
		if err != nil {
			return renderer.Sources{}, fmt.Errorf("shader %s: %w", filepath.Join(dir, name), err)
		}
		*dst = string(data)
	}
	logger.Info("Loaded shaders from disk", zap.String("dir", dir))
	return src, nil
}

// Scene returns the scene driven by the loop.
func (a *App) Scene() *scene.Scene { return a.scene }

// Run drives frames until the window is closed or Escape is pressed.
func (a *App) Run() error {
	logger.Info("Starting frame loop")
	frames := 0
	for a.Step() {
		frames++
	}
	logger.Info("Frame loop finished", logger.Frame(frames))
	return nil
}

// Step runs one frame: input, scene update, render, present. It returns
// false once a quit was requested.
func (a *App) Step() bool {
	a.win.PollEvents(a.input)
	f := a.input.Frame()
	if f.Quit {
		return false
	}
	if f.Resized && f.Width > 0 && f.Height > 0 {
		a.width, a.height = f.Width, f.Height
		a.engine.Resize(f.Width, f.Height)
	}

	rate := a.clock.Rate()
	cam := a.scene.Camera
	if delta := scene.Movement(f.Move, cam.Yaw, rate, a.cfg.Camera.MoveSpeed); delta != (mgl32.Vec3{}) {
		a.scene.MoveCamera(delta)
	}
	if f.MouseDX != 0 || f.MouseDY != 0 {
		sens := a.cfg.Camera.MouseSensitivity
		a.scene.SpinCamera(rate*f.MouseDX*sens, -rate*f.MouseDY*sens)
	}
	a.scene.Animate(rate)

	a.engine.Render(a.scene)
	if f.Screenshot {
		a.screenshot()
	}
	a.win.SwapBuffers()

	if a.clock.Tick(a.win.Time()) {
		a.win.SetTitle(Title(a.clock.FPS()))
		logger.Debug("fps",
			zap.Int("fps", a.clock.FPS()),
			logger.FrameTime(a.clock.FrameTime()),
			zap.Stringer("stats", a.engine.Stats()))
	}
	return true
}

func (a *App) screenshot() {
	pixels := a.dev.ReadPixels(a.width, a.height)
	name, err := a.shots.Save(pixels, int(a.width), int(a.height))
	if err != nil {
		logger.Warn("Screenshot failed", zap.Error(err))
		return
	}
	logger.Info("Screenshot saved", zap.String("file", name))
}

// Close releases GPU resources and closes the window.
func (a *App) Close() {
	logger.Info("Closing viewer")
	a.engine.Quit()
	a.assets.Close()
	a.win.Close()
}
