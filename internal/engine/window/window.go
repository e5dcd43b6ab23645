// Package window creates the OS window and OpenGL 4.1 core context and
// translates native events into input.State updates.
package window

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/forward3d/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backends.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window is a window with a current GL context.
type Window interface {
	// PollEvents drains pending native events into st.
	PollEvents(st *input.State)
	SwapBuffers()
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int32, int32)
	SetTitle(title string)
	// Time returns seconds since the window was created.
	Time() float64
	Close()
}

// Open creates a window using the named backend.
func Open(backend string, cfg Config) (Window, error) {
	switch backend {
	case BackendSDL, "":
		return NewSDL(cfg)
	case BackendGLFW:
		return NewGLFW(cfg)
	default:
		return nil, fmt.Errorf("unknown window backend %q", backend)
	}
}
