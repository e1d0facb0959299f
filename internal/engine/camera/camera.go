// Package camera provides the first-person fly camera used by the demo.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// Direction is a keyboard movement direction.
type Direction int

// Movement directions.
const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Pitch limits, in degrees. Looking straight up or down would make the
// front vector parallel to world up.
const (
	MinPitch float32 = -89
	MaxPitch float32 = 89
)

// Options configures a new camera. Zero fields take the defaults below,
// except Yaw and Pitch where zero is a valid angle.
type Options struct {
	Position    mgl32.Vec3
	Front       mgl32.Vec3 // derived from Yaw and Pitch when zero
	Up          mgl32.Vec3 // default (0,1,0)
	Fov         float32    // degrees, default 45
	Near        float32    // default 0.1
	Far         float32    // default 100
	Yaw         float32    // degrees, 0 looks along +X
	Pitch       float32    // degrees
	Sensitivity float32    // degrees per pixel, default 0.05
}

// DefaultOptions returns the default camera: at the origin looking down -Z.
func DefaultOptions() Options {
	return Options{
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         45,
		Near:        0.1,
		Far:         100,
		Yaw:         -90,
		Sensitivity: 0.05,
	}
}

// Camera is a yaw/pitch fly camera. View and projection matrices are
// derived state, recomputed on every mutation.
type Camera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	fov, near, far float32
	yaw, pitch     float32
	sensitivity    float32

	width, height float32
	lastX, lastY  float32
	anchored      bool
	hasScreenSize bool

	view mgl32.Mat4
	proj mgl32.Mat4
}

// New creates a camera. Zero option fields fall back to DefaultOptions,
// except Position and Pitch whose zero value is meaningful.
func New(opts Options) *Camera {
	def := DefaultOptions()
	if opts.Up.Len() == 0 {
		opts.Up = def.Up
	}
	if opts.Fov == 0 {
		opts.Fov = def.Fov
	}
	if opts.Near == 0 {
		opts.Near = def.Near
	}
	if opts.Far == 0 {
		opts.Far = def.Far
	}
	if opts.Sensitivity == 0 {
		opts.Sensitivity = def.Sensitivity
	}

	c := &Camera{
		position:    opts.Position,
		up:          opts.Up.Normalize(),
		fov:         opts.Fov,
		near:        opts.Near,
		far:         opts.Far,
		yaw:         opts.Yaw,
		pitch:       clamp(opts.Pitch, MinPitch, MaxPitch),
		sensitivity: opts.Sensitivity,
	}
	if opts.Front.Len() == 0 {
		c.updateFront()
	} else {
		c.front = opts.Front.Normalize()
	}
	c.updateRight()
	c.updateView()
	return c
}

// ProcessMouseMove turns the camera toward the cursor position (x, y) in
// window pixels. The first event only records the cursor position.
func (c *Camera) ProcessMouseMove(x, y float32) {
	if !c.anchored {
		c.lastX, c.lastY = x, y
		c.anchored = true
	}
	dx := (x - c.lastX) * c.sensitivity
	// window y grows downward
	dy := (c.lastY - y) * c.sensitivity
	c.lastX, c.lastY = x, y

	c.yaw = wrapDegrees(c.yaw + dx)
	c.pitch = clamp(c.pitch+dy, MinPitch, MaxPitch)

	c.updateFront()
	c.updateRight()
	c.updateView()
}

// ProcessMouseScroll changes the field of view by dy degrees, clamped to
// [min, max].
func (c *Camera) ProcessMouseScroll(dy, min, max float32) {
	c.fov = clamp(c.fov+dy, min, max)
	if c.hasScreenSize {
		c.updateProj()
	}
}

// ProcessKeyboardInput moves the camera distance units in direction.
func (c *Camera) ProcessKeyboardInput(dir Direction, distance float32) error {
	switch dir {
	case Forward:
		c.position = c.position.Add(c.front.Mul(distance))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(distance))
	case Left:
		c.position = c.position.Sub(c.right.Mul(distance))
	case Right:
		c.position = c.position.Add(c.right.Mul(distance))
	default:
		return fault.New(fault.InvalidInput, "camera.ProcessKeyboardInput", "invalid direction %d", int(dir))
	}
	c.updateView()
	return nil
}

// SetScreenSize sets the viewport size in pixels and re-centres the
// mouse reference point.
func (c *Camera) SetScreenSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fault.New(fault.InvalidInput, "camera.SetScreenSize", "invalid screen size %dx%d", width, height)
	}
	c.width = float32(width)
	c.height = float32(height)
	c.lastX = c.width / 2
	c.lastY = c.height / 2
	c.hasScreenSize = true
	c.updateProj()
	return nil
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.view
}

// ProjMatrix returns the perspective projection. It fails until a screen
// size has been set.
func (c *Camera) ProjMatrix() (mgl32.Mat4, error) {
	if !c.hasScreenSize {
		return mgl32.Mat4{}, fault.New(fault.InvalidState, "camera.ProjMatrix", "screen size has not been set")
	}
	return c.proj, nil
}

// Position returns the camera position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Direction returns the unit front vector.
func (c *Camera) Direction() mgl32.Vec3 { return c.front }

// Up returns the world up vector used by the view matrix.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// RightVector returns the unit right vector.
func (c *Camera) RightVector() mgl32.Vec3 { return c.right }

// Fov returns the vertical field of view in degrees.
func (c *Camera) Fov() float32 { return c.fov }

// Yaw returns the yaw in degrees, in [0, 360) once the mouse has moved.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch in degrees, in [-89, 89].
func (c *Camera) Pitch() float32 { return c.pitch }

// Near returns the near clip distance.
func (c *Camera) Near() float32 { return c.near }

// Far returns the far clip distance.
func (c *Camera) Far() float32 { return c.far }

func (c *Camera) updateFront() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	c.front = mgl32.Vec3{
		float32(gomath.Cos(pitch) * gomath.Cos(yaw)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Cos(pitch) * gomath.Sin(yaw)),
	}.Normalize()
}

func (c *Camera) updateRight() {
	c.right = c.front.Cross(c.up).Normalize()
}

func (c *Camera) updateView() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

func (c *Camera) updateProj() {
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.fov), c.width/c.height, c.near, c.far)
}

// wrapDegrees maps an angle into [0, 360).
func wrapDegrees(a float32) float32 {
	r := float32(gomath.Mod(float64(a), 360))
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
