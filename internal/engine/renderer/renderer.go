// Package renderer owns the OpenGL function loader and the fixed-function
// state switches shared by the render passes.
package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Info describes the active OpenGL implementation.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// Init loads the OpenGL function pointers and sets the default state:
// depth testing, stencil testing that keeps values unless a pass says
// otherwise, and no face culling.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func Init() (Info, error) {
	if err := gl.Init(); err != nil {
		return Info{}, fault.Wrap(fault.WindowInit, "renderer.Init", err)
	}

	info := Info{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	logger.Info("OpenGL initialized",
		zap.String("version", info.Version),
		zap.String("renderer", info.Renderer),
		zap.String("vendor", info.Vendor),
		zap.String("glsl", info.GLSL),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
	StencilOff()
	gl.Disable(gl.CULL_FACE)
	return info, nil
}

// Viewport sets the viewport to the given rectangle.
func Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// StencilWrite makes the following draws set the stencil to 1 where they
// cover.
func StencilWrite() {
	gl.StencilFunc(gl.ALWAYS, 1, 0xFF)
	gl.StencilMask(0xFF)
}

// StencilOutline limits the following draws to pixels whose stencil is
// not 1 and leaves the stencil untouched. Depth testing is disabled so
// the outline shows through other geometry.
func StencilOutline() {
	gl.StencilFunc(gl.NOTEQUAL, 1, 0xFF)
	gl.StencilMask(0x00)
	gl.Disable(gl.DEPTH_TEST)
}

// StencilOff passes every fragment and stops stencil writes.
func StencilOff() {
	gl.StencilMask(0x00)
	gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
	gl.Enable(gl.DEPTH_TEST)
}

// SkyboxDepth lets fragments at exactly the far plane pass, or restores
// the default comparison.
func SkyboxDepth(on bool) {
	if on {
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.DepthFunc(gl.LESS)
	}
}

// Blending toggles standard alpha blending.
func Blending(on bool) {
	if on {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
}

// ClearDefault binds the default framebuffer, sets the viewport and clears it.
func ClearDefault(width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.ClearColor(0, 0, 0, 1)
	gl.StencilMask(0xFF)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}
