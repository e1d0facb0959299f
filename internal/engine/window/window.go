// Package window creates the OS window and OpenGL 4.1 core context on
// either SDL2 or GLFW and feeds their events into an input.Input.
package window

import (
	"runtime"

	"github.com/Faultbox/shadowlab/internal/engine/input"
	"github.com/Faultbox/shadowlab/internal/fault"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backend names accepted by New.
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
	Backend    string
}

// Window is an open window with a current OpenGL context.
type Window interface {
	// PollEvents drains pending OS events into in.
	PollEvents(in *input.Input)
	SwapBuffers()
	// Size returns the window size in screen coordinates.
	Size() (int, int)
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)
	SetTitle(title string)
	Close()
}

// New opens a window on the configured backend.
func New(cfg Config) (Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fault.New(fault.InvalidInput, "window.New", "invalid size %dx%d", cfg.Width, cfg.Height)
	}
	switch cfg.Backend {
	case BackendSDL, "":
		w, err := newSDL(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendGLFW:
		w, err := newGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fault.New(fault.InvalidInput, "window.New", "unknown backend %q", cfg.Backend)
	}
}
