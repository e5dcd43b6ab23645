package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/forward3d/internal/engine/input"
	"github.com/Faultbox/forward3d/internal/logger"
)

// GLFW is the GLFW 3.3 backend.
type GLFW struct {
	config Config
	handle *glfw.Window

	// Callbacks fire inside glfw.PollEvents; st is only set for that call.
	st           *input.State
	lastX, lastY float64
	haveCursor   bool
}

// NewGLFW creates a GLFW window with an OpenGL 4.1 core context and a
// disabled (captured) cursor.
func NewGLFW(cfg Config) (*GLFW, error) {
	logger.Info("Initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}

	w := &GLFW{config: cfg, handle: handle}
	handle.SetKeyCallback(w.onKey)
	handle.SetCursorPosCallback(w.onCursor)
	handle.SetFramebufferSizeCallback(w.onResize)
	glfw.SetTime(0)

	logger.Info("Window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync))

	return w, nil
}

func glfwKey(k glfw.Key) input.Key {
	switch k {
	case glfw.KeyW:
		return input.KeyW
	case glfw.KeyA:
		return input.KeyA
	case glfw.KeyS:
		return input.KeyS
	case glfw.KeyD:
		return input.KeyD
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeyF12:
		return input.KeyF12
	}
	return input.KeyUnknown
}

func (w *GLFW) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if w.st == nil {
		return
	}
	switch action {
	case glfw.Press:
		w.st.KeyDown(glfwKey(key))
	case glfw.Release:
		w.st.KeyUp(glfwKey(key))
	}
}

func (w *GLFW) onCursor(_ *glfw.Window, x, y float64) {
	if w.haveCursor && w.st != nil {
		w.st.MouseMotion(float32(x-w.lastX), float32(y-w.lastY))
	}
	w.lastX, w.lastY = x, y
	w.haveCursor = true
}

func (w *GLFW) onResize(_ *glfw.Window, width, height int) {
	if w.st != nil {
		w.st.Resize(int32(width), int32(height))
	}
}

// PollEvents processes pending GLFW events into st.
func (w *GLFW) PollEvents(st *input.State) {
	w.st = st
	glfw.PollEvents()
	w.st = nil
	if w.handle.ShouldClose() {
		st.RequestQuit()
	}
}

// SwapBuffers presents the back buffer.
func (w *GLFW) SwapBuffers() {
	w.handle.SwapBuffers()
}

// FramebufferSize returns the drawable size in pixels.
func (w *GLFW) FramebufferSize() (int32, int32) {
	width, height := w.handle.GetFramebufferSize()
	return int32(width), int32(height)
}

// SetTitle sets the window title.
func (w *GLFW) SetTitle(title string) {
	w.handle.SetTitle(title)
}

// Time returns seconds since the window was created.
func (w *GLFW) Time() float64 {
	return glfw.GetTime()
}

// Close destroys the window and terminates GLFW.
func (w *GLFW) Close() {
	logger.Info("Closing window", zap.String("backend", BackendGLFW))
	w.handle.Destroy()
	glfw.Terminate()
}
