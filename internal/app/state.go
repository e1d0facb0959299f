package app

import (
	"time"

	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/camera"
	"github.com/Faultbox/shadowlab/internal/engine/input"
)

// Explosion slider range and step, in world units along face normals.
const (
	MaxExplosion  float32 = 9.9
	ExplosionStep float32 = 0.1
)

// PlanetSpin is the planet's rotation per frame, in radians.
const PlanetSpin float32 = 0.01

// FPSCounter averages frame rate over one-second windows.
type FPSCounter struct {
	frames int
	since  time.Time
	fps    float64
}

// Tick counts a frame at now and reports whether a new average is ready.
func (c *FPSCounter) Tick(now time.Time) bool {
	if c.since.IsZero() {
		c.since = now
	}
	c.frames++
	elapsed := now.Sub(c.since)
	if elapsed < time.Second {
		return false
	}
	c.fps = float64(c.frames) / elapsed.Seconds()
	c.frames = 0
	c.since = now
	return true
}

// FPS returns the last completed average.
func (c *FPSCounter) FPS() float64 { return c.fps }

// State is everything the frame loop mutates between frames.
type State struct {
	Camera *camera.Camera

	LastFrame time.Time
	Delta     float32 // seconds since the previous frame

	Explosion   float32
	PlanetAngle float32
	FPS         FPSCounter
	FPSUpdated  bool // a new FPS average arrived this frame

	// Width and Height track the window's drawable size; OrigWidth and
	// OrigHeight are the size the offscreen targets were created at.
	Width, Height         int
	OrigWidth, OrigHeight int

	Quit       bool
	Screenshot bool
}

// NewState creates the state for a window of the given drawable size.
func NewState(cam *camera.Camera, width, height int) (*State, error) {
	if err := cam.SetScreenSize(width, height); err != nil {
		return nil, err
	}
	return &State{
		Camera:     cam,
		Width:      width,
		Height:     height,
		OrigWidth:  width,
		OrigHeight: height,
	}, nil
}

// AdjustExplosion moves the explosion slider by delta, keeping it in
// [0, MaxExplosion] on the 0.1 grid.
func (s *State) AdjustExplosion(delta float32) {
	v := s.Explosion + delta
	// snap to tenths so repeated steps do not drift
	v = float32(int32(v*10+sign(v)*0.5)) / 10
	s.Explosion = min(max(v, 0), MaxExplosion)
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// Update applies one frame of input at time now.
func (s *State) Update(in *input.Input, now time.Time, cam config.CameraConfig) error {
	if !s.LastFrame.IsZero() {
		s.Delta = float32(now.Sub(s.LastFrame).Seconds())
	}
	s.LastFrame = now
	s.Screenshot = false

	for _, e := range in.Events() {
		switch e.Type {
		case input.EventQuit:
			s.Quit = true
		case input.EventWindowResize:
			if e.Width <= 0 || e.Height <= 0 {
				// minimized
				continue
			}
			if err := s.Camera.SetScreenSize(e.Width, e.Height); err != nil {
				return err
			}
			s.Width, s.Height = e.Width, e.Height
		case input.EventMouseMove:
			s.Camera.ProcessMouseMove(e.X, e.Y)
		case input.EventScroll:
			s.Camera.ProcessMouseScroll(e.ScrollY, cam.FovMin, cam.FovMax)
		case input.EventKeyDown:
			switch e.Key {
			case input.KeyEscape:
				s.Quit = true
			case input.KeyZ:
				s.AdjustExplosion(ExplosionStep)
			case input.KeyX:
				s.AdjustExplosion(-ExplosionStep)
			case input.KeyF12:
				s.Screenshot = true
			}
		}
	}
	if in.Quit() {
		s.Quit = true
	}

	dist := s.Delta * cam.Speed
	moves := []struct {
		keys [2]input.Key
		dir  camera.Direction
	}{
		{[2]input.Key{input.KeyUp, input.KeyW}, camera.Forward},
		{[2]input.Key{input.KeyDown, input.KeyS}, camera.Backward},
		{[2]input.Key{input.KeyLeft, input.KeyA}, camera.Left},
		{[2]input.Key{input.KeyRight, input.KeyD}, camera.Right},
	}
	for _, m := range moves {
		if in.IsHeld(m.keys[0]) || in.IsHeld(m.keys[1]) {
			if err := s.Camera.ProcessKeyboardInput(m.dir, dist); err != nil {
				return err
			}
		}
	}

	s.PlanetAngle += PlanetSpin
	s.FPSUpdated = s.FPS.Tick(now)
	return nil
}
