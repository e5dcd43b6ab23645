package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/engine/input"
	"github.com/Faultbox/forward3d/internal/logger"
)

// SDL is the SDL2 backend.
type SDL struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	start     uint32
}

// NewSDL creates an SDL2 window with an OpenGL 4.1 core context and
// relative mouse mode.
func NewSDL(cfg Config) (*SDL, error) {
	w := &SDL{config: cfg}

	logger.Info("Initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Attributes must be set before the window is created.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("Failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	sdl.SetRelativeMouseMode(true)
	w.start = sdl.GetTicks()

	logger.Info("Window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync))

	return w, nil
}

func sdlKey(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_W:
		return input.KeyW
	case sdl.SCANCODE_A:
		return input.KeyA
	case sdl.SCANCODE_S:
		return input.KeyS
	case sdl.SCANCODE_D:
		return input.KeyD
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	case sdl.SCANCODE_F12:
		return input.KeyF12
	}
	return input.KeyUnknown
}

// PollEvents drains the SDL event queue into st.
func (w *SDL) PollEvents(st *input.State) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			st.RequestQuit()

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				width, height := w.FramebufferSize()
				st.Resize(width, height)
			case sdl.WINDOWEVENT_CLOSE:
				st.RequestQuit()
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			k := sdlKey(e.Keysym.Scancode)
			if e.Type == sdl.KEYDOWN {
				st.KeyDown(k)
			} else {
				st.KeyUp(k)
			}

		case *sdl.MouseMotionEvent:
			st.MouseMotion(float32(e.XRel), float32(e.YRel))
		}
	}
}

// SwapBuffers presents the back buffer.
func (w *SDL) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// FramebufferSize returns the drawable size in pixels.
func (w *SDL) FramebufferSize() (int32, int32) {
	return w.sdlWindow.GLGetDrawableSize()
}

// SetTitle sets the window title.
func (w *SDL) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Time returns seconds since the window was created.
func (w *SDL) Time() float64 {
	return float64(sdl.GetTicks()-w.start) / 1000
}

// Close destroys the context and window and shuts SDL down.
func (w *SDL) Close() {
	logger.Info("Closing window", zap.String("backend", BackendSDL))

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
