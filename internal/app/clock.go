package app

import "fmt"

// NominalFrameTime is the frame duration, in milliseconds, that motion
// and animation speeds are expressed against.
const NominalFrameTime = 16.7

// Clock measures the framerate and derives the rate factor used to scale
// per-frame motion. The frame time is refreshed once per second.
type Clock struct {
	frameTime float64 // ms
	frames    int
	last      float64 // seconds
	fps       int
}

// NewClock starts a clock at time now (seconds) with the nominal frame time.
func NewClock(now float64) *Clock {
	return &Clock{frameTime: NominalFrameTime, last: now}
}

// Rate is the current frame time divided by the nominal frame time.
func (c *Clock) Rate() float32 {
	return float32(c.frameTime / NominalFrameTime)
}

// FrameTime returns the frame time in milliseconds.
func (c *Clock) FrameTime() float64 { return c.frameTime }

// FPS returns the framerate measured at the last refresh.
func (c *Clock) FPS() int { return c.fps }

// Tick records a finished frame at time now. It reports true when at least
// a second has passed since the last refresh, in which case the framerate
// and frame time have been updated.
func (c *Clock) Tick(now float64) bool {
	delta := now - c.last
	if delta < 1 {
		c.frames++
		return false
	}
	c.fps = max(1, int(float64(c.frames)/delta))
	c.frameTime = 1000 / float64(c.fps)
	c.frames = 0
	c.last = now
	return true
}

// Title formats the window title for a framerate.
func Title(fps int) string {
	return fmt.Sprintf("%d fps.", fps)
}
