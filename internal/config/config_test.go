package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/shadowlab/internal/fault"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Backend != "sdl" {
		t.Errorf("expected sdl backend, got %s", cfg.Graphics.Backend)
	}
	if cfg.Camera.Position != [3]float32{0, 0, 10} {
		t.Errorf("expected camera at (0,0,10), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FovMin != 1 || cfg.Camera.FovMax != 60 {
		t.Errorf("expected fov range [1, 60], got [%g, %g]", cfg.Camera.FovMin, cfg.Camera.FovMax)
	}
	if len(cfg.Lights.Points) != 3 {
		t.Errorf("expected 3 point lights, got %d", len(cfg.Lights.Points))
	}
	if cfg.Post.BloomPasses != 5 {
		t.Errorf("expected 5 bloom passes, got %d", cfg.Post.BloomPasses)
	}
	if len(cfg.Scene.SkyboxFaces) != 6 {
		t.Errorf("expected 6 skybox faces, got %d", len(cfg.Scene.SkyboxFaces))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  backend: glfw

camera:
  position: [1, 2, 3]
  fov_max: 90

lights:
  points:
    - position: [0, 5, 0]
      color: [1, 1, 1]

post:
  bloom_passes: 2

logging:
  level: "debug"
  log_file: "shadowlab.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Backend != "glfw" {
		t.Errorf("expected glfw backend, got %s", cfg.Graphics.Backend)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected camera at (1,2,3), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FovMax != 90 {
		t.Errorf("expected fov_max 90, got %g", cfg.Camera.FovMax)
	}
	// Unset keys keep their defaults.
	if cfg.Camera.FovMin != 1 {
		t.Errorf("expected fov_min to keep default 1, got %g", cfg.Camera.FovMin)
	}
	if len(cfg.Lights.Points) != 1 || cfg.Lights.Points[0].Position != [3]float32{0, 5, 0} {
		t.Errorf("expected single point light at (0,5,0), got %+v", cfg.Lights.Points)
	}
	if cfg.Post.BloomPasses != 2 {
		t.Errorf("expected 2 bloom passes, got %d", cfg.Post.BloomPasses)
	}
	if cfg.Logging.LogFile != "shadowlab.log" {
		t.Errorf("expected log file 'shadowlab.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "invalid size"},
		{"unknown backend", func(c *Config) { c.Graphics.Backend = "vulkan" }, "unknown backend"},
		{"inverted fov range", func(c *Config) { c.Camera.FovMin = 70 }, "fov range"},
		{"near beyond far", func(c *Config) { c.Camera.Near = 200 }, "clip planes"},
		{"point light range", func(c *Config) { c.Shadows.PointFar = 0.01 }, "point light range"},
		{"spot fov", func(c *Config) { c.Shadows.SpotFov = 180 }, "spot fov"},
		{"too many lights", func(c *Config) {
			c.Lights.Points = make([]PointLightConfig, MaxPointLights+1)
		}, "point lights"},
		{"negative bloom", func(c *Config) { c.Post.BloomPasses = -1 }, "bloom"},
		{"skybox faces", func(c *Config) { c.Scene.SkyboxFaces = c.Scene.SkyboxFaces[:5] }, "skybox"},
		{"font size", func(c *Config) { c.Data.FontSize = 0 }, "font size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if !errors.Is(err, fault.InvalidInput) {
				t.Errorf("error %v is not classified as %v", err, fault.InvalidInput)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 1024
	cfg.Lights.Directional = [3]float32{0, -1, 0}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Graphics.Width != 1024 {
		t.Errorf("expected width 1024, got %d", loaded.Graphics.Width)
	}
	if loaded.Lights.Directional != [3]float32{0, -1, 0} {
		t.Errorf("expected directional (0,-1,0), got %v", loaded.Lights.Directional)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	if err := os.WriteFile("config.yaml", []byte("graphics:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if got := findConfigFile(); got != "./config.yaml" {
		t.Errorf("findConfigFile: got %q, want ./config.yaml", got)
	}
}
