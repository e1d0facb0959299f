// Package config handles demo configuration loading and management.
package config

import (
	"github.com/Faultbox/shadowlab/internal/fault"
)

// MaxPointLights mirrors the size of the point light arrays in the object shader.
const MaxPointLights = 4

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Shadows  ShadowConfig   `yaml:"shadows"`
	Lights   LightsConfig   `yaml:"lights"`
	Post     PostConfig     `yaml:"post"`
	Scene    SceneConfig    `yaml:"scene"`
	Data     DataConfig     `yaml:"data"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Backend    string `yaml:"backend"` // "sdl" or "glfw"
	SRGB       bool   `yaml:"srgb"`    // upload colour textures as sRGB
}

// CameraConfig holds the initial camera pose and input tuning.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Fov         float32    `yaml:"fov"`
	FovMin      float32    `yaml:"fov_min"`
	FovMax      float32    `yaml:"fov_max"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Sensitivity float32    `yaml:"sensitivity"`
	Speed       float32    `yaml:"speed"` // world units per second
}

// ShadowConfig holds the projection parameters of every shadow caster.
type ShadowConfig struct {
	PointNear float32 `yaml:"point_near"`
	PointFar  float32 `yaml:"point_far"`

	DirLeft     float32 `yaml:"dir_left"`
	DirRight    float32 `yaml:"dir_right"`
	DirBottom   float32 `yaml:"dir_bottom"`
	DirTop      float32 `yaml:"dir_top"`
	DirNear     float32 `yaml:"dir_near"`
	DirFar      float32 `yaml:"dir_far"`
	DirDistance float32 `yaml:"dir_distance"` // light placed at -direction*distance
	FitScene    bool    `yaml:"fit_scene"`    // derive the ortho box from scene bounds

	SpotFov  float32 `yaml:"spot_fov"`
	SpotNear float32 `yaml:"spot_near"`
	SpotFar  float32 `yaml:"spot_far"`
}

// PointLightConfig describes one point light.
type PointLightConfig struct {
	Position [3]float32 `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// LightsConfig holds light placement and shading constants.
type LightsConfig struct {
	Directional [3]float32         `yaml:"directional"`
	Points      []PointLightConfig `yaml:"points"`
	Color       float32            `yaml:"color"` // base light intensity
	Constant    float32            `yaml:"constant"`
	Linear      float32            `yaml:"linear"`
	Quadratic   float32            `yaml:"quadratic"`
	SpotInner   float32            `yaml:"spot_inner"` // degrees
	SpotOuter   float32            `yaml:"spot_outer"` // degrees
	Shininess   float32            `yaml:"shininess"`
}

// PostConfig holds post-processing settings.
type PostConfig struct {
	BloomPasses  int        `yaml:"bloom_passes"`
	Exposure     float32    `yaml:"exposure"`
	LampScale    float32    `yaml:"lamp_scale"`
	OutlineScale float32    `yaml:"outline_scale"`
	OutlineColor [3]float32 `yaml:"outline_color"`
}

// SceneConfig lists the assets making up the demo scene.
// Paths are relative to Data.AssetDir.
type SceneConfig struct {
	Object        string   `yaml:"object"`
	Planet        string   `yaml:"planet"`
	Asteroid      string   `yaml:"asteroid"`
	AsteroidCount int      `yaml:"asteroid_count"`
	Seed          int64    `yaml:"seed"`
	SkyboxDir     string   `yaml:"skybox_dir"`
	SkyboxFaces   []string `yaml:"skybox_faces"`
	GlassTexture  string   `yaml:"glass_texture"`
	FloorTexture  string   `yaml:"floor_texture"`
	BlackTexture  string   `yaml:"black_texture"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	AssetDir  string `yaml:"asset_dir"`
	ShaderDir string `yaml:"shader_dir"` // overrides embedded shaders when set
	Font      string `yaml:"font"`       // empty uses the built-in Go font
	FontSize  int    `yaml:"font_size"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
	ShowFPS       bool   `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config reproducing the classic demo scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:   800,
			Height:  600,
			VSync:   true,
			Backend: "sdl",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 10},
			Fov:         45,
			FovMin:      1,
			FovMax:      60,
			Near:        0.1,
			Far:         100,
			Yaw:         -90,
			Pitch:       0,
			Sensitivity: 0.05,
			Speed:       5,
		},
		Shadows: ShadowConfig{
			PointNear:   0.1,
			PointFar:    100,
			DirLeft:     -20,
			DirRight:    20,
			DirBottom:   -20,
			DirTop:      20,
			DirNear:     0.1,
			DirFar:      100,
			DirDistance: 20,
			SpotFov:     45,
			SpotNear:    0.1,
			SpotFar:     100,
		},
		Lights: LightsConfig{
			Directional: [3]float32{1, -1, 1},
			Points: []PointLightConfig{
				{Position: [3]float32{0, -3, 4}, Color: [3]float32{1, 0, 0}},
				{Position: [3]float32{-4, -1, -3}, Color: [3]float32{0, 1, 0}},
				{Position: [3]float32{4, 2, -2}, Color: [3]float32{0, 0, 1}},
			},
			Color:     0.4,
			Constant:  1,
			Linear:    0.1,
			Quadratic: 0.002,
			SpotInner: 7.5,
			SpotOuter: 12.5,
			Shininess: 0.2,
		},
		Post: PostConfig{
			BloomPasses:  5,
			Exposure:     0.8,
			LampScale:    0.8,
			OutlineScale: 1.0625,
			OutlineColor: [3]float32{5, 5, 0},
		},
		Scene: SceneConfig{
			Object:        "nanosuit/nanosuit.obj",
			Planet:        "planet/planet.obj",
			Asteroid:      "rock/rock.obj",
			AsteroidCount: 750,
			SkyboxDir:     "tidepool",
			SkyboxFaces:   []string{"right.tga", "left.tga", "top.tga", "bottom.tga", "back.tga", "front.tga"},
			GlassTexture:  "glass.png",
			FloorTexture:  "floor.jpg",
			BlackTexture:  "black.jpg",
		},
		Data: DataConfig{
			AssetDir: "assets",
			FontSize: 48,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
			ShowFPS:       true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the renderer cannot honor.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fault.New(fault.InvalidInput, "config.Validate", "graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	switch c.Graphics.Backend {
	case "sdl", "glfw":
	default:
		return fault.New(fault.InvalidInput, "config.Validate", "graphics: unknown backend %q", c.Graphics.Backend)
	}
	if c.Camera.FovMin <= 0 || c.Camera.FovMin > c.Camera.FovMax {
		return fault.New(fault.InvalidInput, "config.Validate", "camera: invalid fov range [%g, %g]", c.Camera.FovMin, c.Camera.FovMax)
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		return fault.New(fault.InvalidInput, "config.Validate", "camera: invalid clip planes near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Shadows.PointNear <= 0 || c.Shadows.PointNear >= c.Shadows.PointFar {
		return fault.New(fault.InvalidInput, "config.Validate", "shadows: invalid point light range near=%g far=%g", c.Shadows.PointNear, c.Shadows.PointFar)
	}
	if c.Shadows.SpotFov <= 0 || c.Shadows.SpotFov >= 180 {
		return fault.New(fault.InvalidInput, "config.Validate", "shadows: invalid spot fov %g", c.Shadows.SpotFov)
	}
	if n := len(c.Lights.Points); n > MaxPointLights {
		return fault.New(fault.InvalidInput, "config.Validate", "lights: %d point lights configured, at most %d supported", n, MaxPointLights)
	}
	if c.Post.BloomPasses < 0 {
		return fault.New(fault.InvalidInput, "config.Validate", "post: negative bloom passes %d", c.Post.BloomPasses)
	}
	if len(c.Scene.SkyboxFaces) != 6 {
		return fault.New(fault.InvalidInput, "config.Validate", "scene: skybox needs 6 faces, got %d", len(c.Scene.SkyboxFaces))
	}
	if c.Scene.AsteroidCount < 0 {
		return fault.New(fault.InvalidInput, "config.Validate", "scene: negative asteroid count %d", c.Scene.AsteroidCount)
	}
	if c.Data.FontSize <= 0 {
		return fault.New(fault.InvalidInput, "config.Validate", "data: invalid font size %d", c.Data.FontSize)
	}
	return nil
}
