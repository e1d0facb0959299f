package shadow

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// GLDevice implements Device on the current OpenGL context.
type GLDevice struct{}

// CreateDepthTarget allocates a depth-only framebuffer. Omni targets are
// cube maps with nearest filtering; Uni targets are 2D textures clamped to
// a border of depth 1.0, so samples outside the light frustum are lit.
func (GLDevice) CreateDepthTarget(kind Kind, width, height int32) (Target, error) {
	var t Target
	gl.GenTextures(1, &t.Texture)

	switch kind {
	case Omni:
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.Texture)
		for face := uint32(0); face < 6; face++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.DEPTH_COMPONENT,
				width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		}
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	case Uni:
		gl.BindTexture(gl.TEXTURE_2D, t.Texture)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT,
			width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		borderColor := []float32{1.0, 1.0, 1.0, 1.0}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])
	default:
		gl.DeleteTextures(1, &t.Texture)
		return Target{}, fault.New(fault.InvalidInput, "shadow.CreateDepthTarget", "unknown kind %d", int(kind))
	}

	gl.GenFramebuffers(1, &t.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	if kind == Omni {
		// layered attachment, the geometry shader picks the face
		gl.FramebufferTexture(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, t.Texture, 0)
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.Texture, 0)
	}

	// No color buffer for the depth pass
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		GLDevice{}.DeleteTarget(t)
		return Target{}, fault.New(fault.InvalidState, "shadow.CreateDepthTarget",
			"%s depth framebuffer incomplete (status 0x%x)", kind, status)
	}
	return t, nil
}

// DeleteTarget releases a depth target.
func (GLDevice) DeleteTarget(t Target) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
	if t.Texture != 0 {
		gl.DeleteTextures(1, &t.Texture)
	}
}

// BindFramebuffer binds fbo for drawing and reading.
func (GLDevice) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

// Viewport sets the viewport rectangle.
func (GLDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// ClearDepth clears the depth buffer of the bound framebuffer.
func (GLDevice) ClearDepth() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// SetCulling toggles back-face culling.
func (GLDevice) SetCulling(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// BindDepthTexture binds a depth map to texture unit TEXTURE0+unit.
func (GLDevice) BindDepthTexture(kind Kind, unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if kind == Omni {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, texture)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, texture)
	}
}
