package app

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/camera"
	"github.com/Faultbox/shadowlab/internal/engine/input"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(camera.New(camera.DefaultOptions()), 800, 600)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func testCameraConfig() config.CameraConfig {
	return config.CameraConfig{FovMin: 1, FovMax: 90, Speed: 2}
}

func TestNewStateRejectsBadSize(t *testing.T) {
	if _, err := NewState(camera.New(camera.DefaultOptions()), 0, 600); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestAdjustExplosion(t *testing.T) {
	tests := []struct {
		name  string
		start float32
		delta float32
		want  float32
	}{
		{"step up", 0, ExplosionStep, 0.1},
		{"step down", 0.5, -ExplosionStep, 0.4},
		{"clamped low", 0, -ExplosionStep, 0},
		{"clamped high", MaxExplosion, ExplosionStep, MaxExplosion},
		{"snaps drift", 0.30000004, ExplosionStep, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{Explosion: tt.start}
			s.AdjustExplosion(tt.delta)
			if s.Explosion != tt.want {
				t.Errorf("got %v, want %v", s.Explosion, tt.want)
			}
		})
	}
}

func TestAdjustExplosionRepeated(t *testing.T) {
	s := &State{}
	for range 33 {
		s.AdjustExplosion(ExplosionStep)
	}
	if s.Explosion != float32(3.3) {
		t.Errorf("after 33 steps got %v, want 3.3", s.Explosion)
	}
	for range 200 {
		s.AdjustExplosion(ExplosionStep)
	}
	if s.Explosion != MaxExplosion {
		t.Errorf("got %v, want %v", s.Explosion, MaxExplosion)
	}
}

func TestFPSCounter(t *testing.T) {
	var c FPSCounter
	t0 := time.Unix(1000, 0)
	if c.Tick(t0) {
		t.Fatal("first tick reported an average")
	}
	if c.Tick(t0.Add(500 * time.Millisecond)) {
		t.Fatal("average reported before a second elapsed")
	}
	if !c.Tick(t0.Add(time.Second)) {
		t.Fatal("no average after a second")
	}
	if c.FPS() != 3 {
		t.Errorf("FPS = %v, want 3", c.FPS())
	}
}

func TestUpdateKeys(t *testing.T) {
	tests := []struct {
		name           string
		events         []input.Event
		wantQuit       bool
		wantShot       bool
		wantExplosion  float32
		wantRequestEnd bool
	}{
		{name: "escape", events: []input.Event{{Type: input.EventKeyDown, Key: input.KeyEscape}}, wantQuit: true},
		{name: "window close", events: []input.Event{{Type: input.EventQuit}}, wantQuit: true},
		{name: "screenshot", events: []input.Event{{Type: input.EventKeyDown, Key: input.KeyF12}}, wantShot: true},
		{name: "explode", events: []input.Event{{Type: input.EventKeyDown, Key: input.KeyZ}}, wantExplosion: 0.1},
		{name: "implode at zero", events: []input.Event{{Type: input.EventKeyDown, Key: input.KeyX}}},
		{name: "request quit", wantQuit: true, wantRequestEnd: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t)
			in := input.New()
			in.Begin()
			for _, e := range tt.events {
				in.Push(e)
			}
			if tt.wantRequestEnd {
				in.RequestQuit()
			}
			if err := s.Update(in, time.Unix(1000, 0), testCameraConfig()); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if s.Quit != tt.wantQuit {
				t.Errorf("Quit = %v, want %v", s.Quit, tt.wantQuit)
			}
			if s.Screenshot != tt.wantShot {
				t.Errorf("Screenshot = %v, want %v", s.Screenshot, tt.wantShot)
			}
			if s.Explosion != tt.wantExplosion {
				t.Errorf("Explosion = %v, want %v", s.Explosion, tt.wantExplosion)
			}
		})
	}
}

func TestUpdateScreenshotIsOneShot(t *testing.T) {
	s := newTestState(t)
	in := input.New()
	now := time.Unix(1000, 0)

	in.Begin()
	in.Push(input.Event{Type: input.EventKeyDown, Key: input.KeyF12})
	if err := s.Update(in, now, testCameraConfig()); err != nil {
		t.Fatal(err)
	}
	in.Begin()
	if err := s.Update(in, now.Add(time.Millisecond), testCameraConfig()); err != nil {
		t.Fatal(err)
	}
	if s.Screenshot {
		t.Error("screenshot still requested on the following frame")
	}
}

func TestUpdateResize(t *testing.T) {
	s := newTestState(t)
	in := input.New()
	in.Begin()
	in.Push(input.Event{Type: input.EventWindowResize, Width: 1024, Height: 768})
	in.Push(input.Event{Type: input.EventWindowResize, Width: 0, Height: 0})
	if err := s.Update(in, time.Unix(1000, 0), testCameraConfig()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Width != 1024 || s.Height != 768 {
		t.Errorf("size = %dx%d, want 1024x768", s.Width, s.Height)
	}
	if s.OrigWidth != 800 || s.OrigHeight != 600 {
		t.Errorf("original size changed to %dx%d", s.OrigWidth, s.OrigHeight)
	}
}

func TestUpdateScroll(t *testing.T) {
	s := newTestState(t)
	in := input.New()
	in.Begin()
	in.Push(input.Event{Type: input.EventScroll, ScrollY: 100})
	if err := s.Update(in, time.Unix(1000, 0), testCameraConfig()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := s.Camera.Fov(); got != 90 {
		t.Errorf("fov = %v, want clamp at 90", got)
	}
}

func TestUpdateMovement(t *testing.T) {
	tests := []struct {
		key  input.Key
		want mgl32.Vec3
	}{
		{input.KeyW, mgl32.Vec3{0, 0, -1}},
		{input.KeyUp, mgl32.Vec3{0, 0, -1}},
		{input.KeyS, mgl32.Vec3{0, 0, 1}},
		{input.KeyA, mgl32.Vec3{-1, 0, 0}},
		{input.KeyD, mgl32.Vec3{1, 0, 0}},
		{input.KeyRight, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			s := newTestState(t)
			in := input.New()
			now := time.Unix(1000, 0)

			in.Begin()
			if err := s.Update(in, now, testCameraConfig()); err != nil {
				t.Fatal(err)
			}
			in.Begin()
			in.Push(input.Event{Type: input.EventKeyDown, Key: tt.key})
			// half a second at speed 2 covers one unit
			if err := s.Update(in, now.Add(500*time.Millisecond), testCameraConfig()); err != nil {
				t.Fatal(err)
			}
			if got := s.Camera.Position(); !vecNear(got, tt.want, 1e-5) {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateSpinsPlanet(t *testing.T) {
	s := newTestState(t)
	in := input.New()
	for i := range 3 {
		in.Begin()
		if err := s.Update(in, time.Unix(1000, int64(i)), testCameraConfig()); err != nil {
			t.Fatal(err)
		}
	}
	if d := s.PlanetAngle - 3*PlanetSpin; d > 1e-6 || d < -1e-6 {
		t.Errorf("planet angle = %v, want %v", s.PlanetAngle, 3*PlanetSpin)
	}
}
