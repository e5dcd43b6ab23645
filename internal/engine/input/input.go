// Package input accumulates window events into per-frame input.
package input

// Key is a backend-independent key the application reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyEscape
	KeyF12
)

// Movement bits, matching scene.KeyForward and friends.
const (
	MoveForward  = 1
	MoveLeft     = 2
	MoveBackward = 4
	MoveRight    = 8
)

var moveBits = map[Key]int{
	KeyW: MoveForward,
	KeyA: MoveLeft,
	KeyS: MoveBackward,
	KeyD: MoveRight,
}

// Frame is the input consumed by one iteration of the frame loop.
type Frame struct {
	// Move is the OR of the held movement keys.
	Move int
	// MouseDX and MouseDY are the cursor motion since the previous frame.
	MouseDX float32
	MouseDY float32

	Quit bool
	// Screenshot is set on the frame F12 was pressed.
	Screenshot bool
	Resized    bool
	Width      int32
	Height     int32
}

// State collects events between frames. Window backends feed it; the frame
// loop drains it with Frame.
type State struct {
	held    map[Key]bool
	dx, dy  float32
	quit    bool
	shot    bool
	resized bool
	width   int32
	height  int32
}

// New returns an empty input state.
func New() *State {
	return &State{held: make(map[Key]bool)}
}

// KeyDown records a key press. Escape requests quit and F12 a screenshot.
func (s *State) KeyDown(k Key) {
	switch k {
	case KeyEscape:
		s.quit = true
	case KeyF12:
		s.shot = true
	default:
		s.held[k] = true
	}
}

// KeyUp records a key release.
func (s *State) KeyUp(k Key) {
	delete(s.held, k)
}

// Held reports whether k is currently held.
func (s *State) Held(k Key) bool { return s.held[k] }

// MouseMotion accumulates relative cursor motion.
func (s *State) MouseMotion(dx, dy float32) {
	s.dx += dx
	s.dy += dy
}

// Resize records a new framebuffer size.
func (s *State) Resize(width, height int32) {
	s.resized = true
	s.width, s.height = width, height
}

// RequestQuit records a close request.
func (s *State) RequestQuit() { s.quit = true }

// Frame returns the accumulated input and resets the per-frame parts.
// Held keys and the quit request persist.
func (s *State) Frame() Frame {
	f := Frame{
		MouseDX:    s.dx,
		MouseDY:    s.dy,
		Quit:       s.quit,
		Screenshot: s.shot,
		Resized:    s.resized,
		Width:      s.width,
		Height:     s.height,
	}
	for k := range s.held {
		f.Move |= moveBits[k]
	}
	s.dx, s.dy = 0, 0
	s.resized, s.shot = false, false
	return f
}
