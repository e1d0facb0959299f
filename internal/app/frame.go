package app

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/framebuffer"
	"github.com/Faultbox/shadowlab/internal/engine/lighting"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/engine/renderer"
	"github.com/Faultbox/shadowlab/internal/engine/scene"
	"github.com/Faultbox/shadowlab/internal/engine/shader"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Texture units of the object shader, relative to the point light count.
func (a *App) dirUnit() uint32  { return uint32(len(a.points)) }
func (a *App) spotUnit() uint32 { return a.dirUnit() + 1 }
func (a *App) envUnit() uint32  { return a.dirUnit() + 2 }
func (a *App) texOffset() uint32 {
	return a.dirUnit() + 3
}

// frame renders one complete frame into the default framebuffer.
func (a *App) frame() error {
	st := a.state
	ow, oh := int32(st.OrigWidth), int32(st.OrigHeight)

	a.hdr.Bind()
	a.hdr.ClearAll(0, 0, 0, 1)

	proj, err := st.Camera.ProjMatrix()
	if err != nil {
		return err
	}
	a.matrices.SetMat4(0, st.Camera.ViewMatrix())
	a.matrices.SetMat4(shader.Mat4Size, proj)

	a.drawLamps()

	if err := a.renderShadows(ow, oh); err != nil {
		return err
	}
	a.drawObjects()
	a.drawPlanet()

	renderer.SkyboxDepth(true)
	a.prog.skybox.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, a.textures.skybox)
	a.prog.skybox.SetInt("skybox", 0)
	a.models.cube.DrawDepth()
	renderer.SkyboxDepth(false)

	if err := a.drawGlass(); err != nil {
		return err
	}
	if a.cfg.Debug.ShowFPS {
		renderer.Blending(true)
		label := fmt.Sprintf("%.0f fps", st.FPS.FPS())
		a.font.RenderText(a.prog.text, label, -0.95, 0.9, 1.0/1000, mgl32.Vec3{0, 0, 0})
		renderer.Blending(false)
	}

	result, err := a.bloom.Run(a.cfg.Post.BloomPasses, a.cfg.Post.Exposure)
	if err != nil {
		return err
	}

	w, h := int32(st.Width), int32(st.Height)
	renderer.ClearDefault(w, h)
	gl.Disable(gl.DEPTH_TEST)
	a.prog.screen.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, result)
	a.prog.screen.SetInt("texture1", 0)
	a.models.screen.DrawDepth()
	renderer.Viewport(0, 0, w/4, h/4)
	a.models.screen.DrawDepth()
	renderer.Viewport(0, 0, w, h)
	gl.Enable(gl.DEPTH_TEST)

	if st.Screenshot {
		st.Screenshot = false
		a.screenshot(w, h)
	}
	if st.FPSUpdated {
		a.win.SetTitle(fmt.Sprintf("%s - %.0f fps", title, st.FPS.FPS()))
	}
	return a.checkPrograms()
}

// drawLamps draws a small cube at every point light and outlines it.
func (a *App) drawLamps() {
	p := a.prog.lamp
	post := a.cfg.Post
	lights := a.rig.Points.Lights

	p.Use()
	renderer.StencilWrite()
	for _, l := range lights {
		p.SetMat4("model", LampTransform(l.Position, post.LampScale))
		p.SetVec3("lightColor", l.Color)
		a.models.cube.DrawDepth()
	}

	renderer.StencilOutline()
	outline := mgl32.Vec3(post.OutlineColor)
	for _, l := range lights {
		p.SetMat4("model", LampTransform(l.Position, post.LampScale*post.OutlineScale))
		p.SetVec3("lightColor", outline)
		a.models.cube.DrawDepth()
	}
	renderer.StencilOff()
}

// renderShadows refreshes every depth map against the caster list. The
// spot light rides with the camera.
func (a *App) renderShadows(w, h int32) error {
	prev := shadow.Viewport{FBO: a.hdr.FBO(), Width: w, Height: h}
	cam := a.state.Camera

	a.rig.Spot.Follow(cam.Position(), cam.Direction())
	if err := a.spotShadow.MoveLight(cam.Position(), cam.Direction(), cam.Up()); err != nil {
		return err
	}

	for _, s := range a.points {
		if err := s.CalculateShadow(a.casters, prev); err != nil {
			return err
		}
	}
	if err := a.dirShadow.CalculateShadow(a.casters, prev); err != nil {
		return err
	}
	return a.spotShadow.CalculateShadow(a.casters, prev)
}

// drawObjects draws the exploding object and the floor with every light
// and shadow map bound.
func (a *App) drawObjects() {
	p := a.prog.object
	st := a.state
	p.Use()

	for i, s := range a.points {
		s.BindShadowMap(uint32(i))
		p.SetInt(shader.Indexed("pointLightDepthMaps", i, ""), int32(i))
		p.SetFloat(shader.Indexed("frustumHeights", i, ""), s.FrustumHeight())
	}
	// Every samplerCube needs a cube map bound even when no light uses it.
	for i := len(a.points); i < lighting.MaxPointLights; i++ {
		p.SetInt(shader.Indexed("pointLightDepthMaps", i, ""), int32(a.envUnit()))
	}
	a.dirShadow.BindShadowMap(a.dirUnit())
	p.SetInt("dirLightDepthMap", int32(a.dirUnit()))
	p.SetMat4("dirLightSpace", a.dirShadow.LightSpace())
	a.spotShadow.BindShadowMap(a.spotUnit())
	p.SetInt("spotLightDepthMap", int32(a.spotUnit()))
	p.SetMat4("spotLightSpace", a.spotShadow.LightSpace())

	gl.ActiveTexture(gl.TEXTURE0 + a.envUnit())
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, a.textures.skybox)
	p.SetInt("material.envMap", int32(a.envUnit()))

	p.SetVec3("viewPos", st.Camera.Position())
	a.rig.Upload(p)

	black := a.textures.black
	slots := mesh.Slots{mesh.Diffuse: black, mesh.Specular: black, mesh.Reflection: black}

	obj := ObjectTransform()
	p.SetMat4("model", obj)
	p.SetMat3("normal", NormalMatrix(obj))
	p.SetFloat("explosion", st.Explosion)
	a.models.object.Draw(p, a.texOffset(), slots)

	floor := FloorTransform()
	p.SetMat4("model", floor)
	p.SetMat3("normal", NormalMatrix(floor))
	p.SetFloat("explosion", 0)
	a.models.floor.Draw(p, a.texOffset(), slots)
}

// drawPlanet draws the spinning planet and its asteroid ring.
func (a *App) drawPlanet() {
	slots := mesh.Slots{mesh.Diffuse: a.textures.black}

	a.prog.planet.Use()
	a.prog.planet.SetMat4("model", PlanetTransform(a.state.PlanetAngle))
	a.models.planet.Draw(a.prog.planet, 0, slots)

	a.prog.asteroid.Use()
	a.models.asteroid.DrawInstanced(a.prog.asteroid, 0, slots, a.models.asteroids.Count())
}

// drawGlass blends the glass panes farthest first.
func (a *App) drawGlass() error {
	var panes scene.DrawList
	for _, t := range GlassTransforms() {
		panes.Add(a.models.glass, t)
	}
	sorted, err := panes.SortBackToFront(a.state.Camera.Position())
	if err != nil {
		return err
	}

	p := a.prog.glass
	p.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, a.textures.glass)
	p.SetInt("texture1", 0)

	renderer.Blending(true)
	for i, m := range sorted.Models {
		p.SetMat4("model", sorted.Transforms[i])
		m.DrawDepth()
	}
	renderer.Blending(false)
	return nil
}

// screenshot saves the default framebuffer. Failures are logged and the
// demo keeps running.
func (a *App) screenshot(w, h int32) {
	pixels := framebuffer.ReadDefault(w, h)
	if _, err := a.shots.CaptureFromPixels(pixels, int(w), int(h)); err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
	}
}
