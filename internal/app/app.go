// Package app wires the engine packages into the shadow-mapping demo and
// runs its frame loop.
package app

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/camera"
	"github.com/Faultbox/shadowlab/internal/engine/debug"
	"github.com/Faultbox/shadowlab/internal/engine/framebuffer"
	"github.com/Faultbox/shadowlab/internal/engine/input"
	"github.com/Faultbox/shadowlab/internal/engine/lighting"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/engine/model"
	"github.com/Faultbox/shadowlab/internal/engine/renderer"
	"github.com/Faultbox/shadowlab/internal/engine/scene"
	"github.com/Faultbox/shadowlab/internal/engine/shader"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
	"github.com/Faultbox/shadowlab/internal/engine/text"
	"github.com/Faultbox/shadowlab/internal/engine/texture"
	"github.com/Faultbox/shadowlab/internal/engine/window"
	"github.com/Faultbox/shadowlab/internal/logger"
)

const title = "shadowlab"

// programs holds every compiled shader.
type programs struct {
	object, lamp, skybox, glass, planet, asteroid *shader.Program
	screen, bright, blur, blend, text             *shader.Program
	omniDepth, uniDepth                           *shader.Program
}

func (p *programs) all() []*shader.Program {
	return []*shader.Program{
		p.object, p.lamp, p.skybox, p.glass, p.planet, p.asteroid,
		p.screen, p.bright, p.blur, p.blend, p.text,
		p.omniDepth, p.uniDepth,
	}
}

// textures holds the GPU textures the frame binds by hand.
type textures struct {
	skybox uint32
	glass  uint32
	black  uint32
}

// models holds the scene geometry.
type models struct {
	object   *model.Model
	floor    *model.Model
	cube     *model.Model
	glass    *model.Model
	planet   *model.Model
	asteroid *model.Model
	screen   *model.Model

	asteroids *mesh.InstanceBuffer
}

// App is the running demo.
type App struct {
	cfg *config.Config
	log *zap.Logger

	win   window.Window
	in    *input.Input
	files *assets.Manager
	lib   *shader.Library
	tex   *texture.Loader

	prog     programs
	textures textures
	models   models
	matrices *shader.UniformBuffer

	rig        *lighting.Rig
	points     []*shadow.Shadow
	dirShadow  *shadow.Shadow
	spotShadow *shadow.Shadow
	casters    scene.DrawList

	hdr   *framebuffer.Framebuffer
	bloom *framebuffer.Bloom
	font  *text.Font
	shots *debug.ScreenshotCapture

	state *State
}

// New opens the window and loads every resource. On error everything
// created so far is released.
func New(cfg *config.Config) (a *App, err error) {
	a = &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		in:    input.New(),
		files: assets.NewManager(cfg.Data.AssetDir),
		lib:   shader.NewLibrary(cfg.Data.ShaderDir),
		shots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, title),
	}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	a.win, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Backend:    cfg.Graphics.Backend,
	})
	if err != nil {
		return a, err
	}
	if _, err = renderer.Init(); err != nil {
		return a, err
	}
	a.tex = texture.NewLoader(a.files, cfg.Graphics.SRGB)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"programs", a.loadPrograms},
		{"textures", a.loadTextures},
		{"models", a.loadModels},
		{"font", a.loadFont},
		{"state", a.initState},
		{"targets", a.initTargets},
		{"lights", a.initLights},
	}
	for _, s := range steps {
		start := time.Now()
		if err = s.fn(); err != nil {
			return a, err
		}
		a.log.Debug("startup step done", zap.String("step", s.name), zap.Duration("took", time.Since(start)))
	}

	a.log.Info("scene ready",
		zap.Int("textures", a.tex.Loaded()),
		zap.Int("point_lights", len(a.points)),
		zap.Int("asteroids", int(a.models.asteroids.Count())),
	)
	return a, nil
}

func (a *App) loadPrograms() error {
	specs := []struct {
		dst              **shader.Program
		name             string
		vert, frag, geom string
	}{
		{&a.prog.object, "object", "object.vert", "object.frag", "object.geom"},
		{&a.prog.lamp, "lamp", "lamp.vert", "lamp.frag", ""},
		{&a.prog.skybox, "skybox", "skybox.vert", "skybox.frag", ""},
		{&a.prog.glass, "glass", "glass.vert", "glass.frag", ""},
		{&a.prog.planet, "planet", "planet.vert", "textured.frag", ""},
		{&a.prog.asteroid, "asteroid", "asteroid.vert", "textured.frag", ""},
		{&a.prog.screen, "screen", "screen.vert", "screen.frag", ""},
		{&a.prog.bright, "bright", "screen.vert", "bright.frag", ""},
		{&a.prog.blur, "gaussian", "screen.vert", "gaussian.frag", ""},
		{&a.prog.blend, "blend", "screen.vert", "blend.frag", ""},
		{&a.prog.text, "text", "text.vert", "text.frag", ""},
		{&a.prog.omniDepth, "omni_shadow", "omni_shadow.vert", "omni_shadow.frag", "omni_shadow.geom"},
		{&a.prog.uniDepth, "uni_shadow", "uni_shadow.vert", "uni_shadow.frag", ""},
	}
	for _, s := range specs {
		p, err := a.lib.Program(s.name, s.vert, s.frag, s.geom)
		if err != nil {
			return err
		}
		*s.dst = p
	}

	a.matrices = shader.NewUniformBuffer(2*shader.Mat4Size, 0)
	for _, p := range []*shader.Program{a.prog.object, a.prog.lamp, a.prog.skybox, a.prog.glass, a.prog.planet, a.prog.asteroid} {
		p.SetBlock("Matrices", a.matrices.Binding())
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) loadTextures() error {
	sc := a.cfg.Scene
	var err error
	if a.textures.skybox, err = a.tex.LoadCubemap(sc.SkyboxDir, sc.SkyboxFaces); err != nil {
		return err
	}
	if a.textures.glass, err = a.tex.Load(sc.GlassTexture); err != nil {
		return err
	}
	if a.textures.black, err = a.tex.Load(sc.BlackTexture); err != nil {
		return err
	}
	return nil
}

func (a *App) loadModels() error {
	sc := a.cfg.Scene
	m := &a.models
	var err error

	if m.object, err = model.Load(sc.Object, a.files, a.tex); err != nil {
		return err
	}
	if m.planet, err = model.Load(sc.Planet, a.files, a.tex); err != nil {
		return err
	}
	if m.asteroid, err = model.Load(sc.Asteroid, a.files, a.tex); err != nil {
		return err
	}

	floorTex, err := a.tex.Load(sc.FloorTexture)
	if err != nil {
		return err
	}
	qv, qi := mesh.Quad()
	m.floor = model.NewFromMesh("floor", mesh.New(qv, qi, []mesh.Texture{
		{ID: floorTex, Type: mesh.Diffuse, Path: sc.FloorTexture},
		{ID: a.textures.black, Type: mesh.Specular, Path: sc.BlackTexture},
		{ID: a.textures.black, Type: mesh.Reflection, Path: sc.BlackTexture},
	}))
	m.glass = model.NewFromMesh("glass", mesh.New(qv, qi, nil))

	cv, ci := mesh.Cube(1)
	m.cube = model.NewFromMesh("cube", mesh.New(cv, ci, nil))

	sv, si := mesh.ScreenQuad()
	m.screen = model.NewFromMesh("screen", mesh.New(sv, si, nil))

	ring := scene.AsteroidRing(scene.RingOptions{
		Count:  sc.AsteroidCount,
		Seed:   sc.Seed,
		Center: PlanetCenter,
	})
	m.asteroids = mesh.NewInstanceBuffer(ring)
	m.asteroid.AppendData(m.asteroids.Attach)

	a.casters = scene.DrawList{}
	a.casters.Add(m.object, ObjectTransform())
	a.casters.Add(m.floor, FloorTransform())
	return a.casters.Validate()
}

func (a *App) loadFont() error {
	var data []byte
	if a.cfg.Data.Font != "" {
		var err error
		if data, err = a.files.Load(a.cfg.Data.Font); err != nil {
			return err
		}
	}
	face, err := text.LoadFace(data, float64(a.cfg.Data.FontSize))
	if err != nil {
		return err
	}
	defer face.Close()
	a.font = text.NewFont(face)
	return nil
}

func (a *App) initState() error {
	cc := a.cfg.Camera
	cam := camera.New(camera.Options{
		Position:    mgl32.Vec3(cc.Position),
		Fov:         cc.Fov,
		Near:        cc.Near,
		Far:         cc.Far,
		Yaw:         cc.Yaw,
		Pitch:       cc.Pitch,
		Sensitivity: cc.Sensitivity,
	})
	w, h := a.win.FramebufferSize()
	var err error
	a.state, err = NewState(cam, w, h)
	return err
}

func (a *App) initTargets() error {
	var err error
	a.hdr, err = framebuffer.New(int32(a.state.OrigWidth), int32(a.state.OrigHeight))
	if err != nil {
		return err
	}
	a.bloom = framebuffer.NewBloom(a.hdr, a.models.screen, a.prog.bright, a.prog.blur, a.prog.blend)
	return nil
}

func (a *App) initLights() error {
	sh := a.cfg.Shadows
	dev := shadow.GLDevice{}
	a.rig = lighting.NewRig(a.cfg.Lights)

	for _, pos := range a.rig.Points.Positions() {
		s, err := shadow.NewPointLight(dev, a.prog.omniDepth, sh.PointNear, sh.PointFar)
		if err != nil {
			return err
		}
		a.points = append(a.points, s)
		if err := s.MoveLight(pos, mgl32.Vec3{}, mgl32.Vec3{}); err != nil {
			return err
		}
	}

	w, h := int32(a.state.OrigWidth), int32(a.state.OrigHeight)
	box := shadow.OrthoBox{
		Left: sh.DirLeft, Right: sh.DirRight,
		Bottom: sh.DirBottom, Top: sh.DirTop,
		Near: sh.DirNear, Far: sh.DirFar,
	}
	var err error
	if a.dirShadow, err = shadow.NewDirectional(dev, a.prog.uniDepth, w, h, box); err != nil {
		return err
	}
	if err := a.placeSun(); err != nil {
		return err
	}

	a.spotShadow, err = shadow.NewSpot(dev, a.prog.uniDepth, w, h, sh.SpotFov, sh.SpotNear, sh.SpotFar)
	return err
}

// placeSun aims the directional shadow. With fit_scene set the ortho box
// is sized to the casters' bounds instead of the configured box.
func (a *App) placeSun() error {
	sun := a.rig.Sun
	if a.cfg.Shadows.FitScene {
		if lo, hi, ok := a.casters.Bounds(); ok {
			fit := shadow.FitDirectional(sun.Direction, shadow.AABB{Min: lo, Max: hi})
			if err := a.dirShadow.SetOrtho(fit.Box); err != nil {
				return err
			}
			return a.dirShadow.MoveLight(fit.Position, fit.Front, fit.Up)
		}
		a.log.Warn("scene bounds unavailable, using configured ortho box")
	}
	return a.dirShadow.MoveLight(sun.Position(a.cfg.Shadows.DirDistance), sun.Direction, mgl32.Vec3{0, 1, 0})
}

// Run drives the frame loop until the window closes or ESC is pressed.
func (a *App) Run() error {
	a.log.Info("entering frame loop")
	for !a.state.Quit {
		a.in.Begin()
		a.win.PollEvents(a.in)
		if err := a.state.Update(a.in, time.Now(), a.cfg.Camera); err != nil {
			return err
		}
		if a.state.Quit {
			break
		}
		if err := a.frame(); err != nil {
			return err
		}
		a.win.SwapBuffers()
	}
	a.log.Info("frame loop finished")
	return nil
}

// checkPrograms returns the first uniform error any program recorded.
func (a *App) checkPrograms() error {
	var errs []error
	for _, p := range a.prog.all() {
		if p == nil {
			continue
		}
		if err := p.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// Close releases GPU resources in reverse creation order.
func (a *App) Close() {
	if a.spotShadow != nil {
		a.spotShadow.Close()
	}
	if a.dirShadow != nil {
		a.dirShadow.Close()
	}
	for _, s := range a.points {
		s.Close()
	}
	if a.hdr != nil {
		a.hdr.Destroy()
	}
	if a.font != nil {
		a.font.Delete()
	}

	m := &a.models
	if m.asteroids != nil {
		m.asteroids.Delete()
	}
	for _, mdl := range []*model.Model{m.screen, m.cube, m.glass, m.floor, m.asteroid, m.planet, m.object} {
		if mdl != nil {
			mdl.Delete()
		}
	}
	if a.tex != nil {
		a.tex.Close()
	}
	if a.matrices != nil {
		a.matrices.Delete()
	}
	for _, p := range a.prog.all() {
		if p != nil {
			p.Delete()
		}
	}
	if a.files != nil {
		a.files.Close()
	}
	if a.win != nil {
		a.win.Close()
		a.win = nil
	}
}
