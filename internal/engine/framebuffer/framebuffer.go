// Package framebuffer provides the HDR render target and the bloom chain.
package framebuffer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Colour attachments of the HDR target.
const (
	Scene  = 0 // lit scene
	Bright = 1 // highlights, later the tone-mapped result
	Ping   = 2 // horizontal blur
	Pong   = 3 // vertical blur

	NumAttachments = 4
)

// Framebuffer is an offscreen HDR target with four floating-point colour
// textures and a combined depth-stencil renderbuffer.
type Framebuffer struct {
	fbo      uint32
	color    [NumAttachments]uint32
	depthRBO uint32
	width    int32
	height   int32
}

// New creates a new framebuffer with the specified dimensions.
func New(width, height int32) (*Framebuffer, error) {
	if width < 1 || height < 1 {
		return nil, fault.New(fault.InvalidInput, "framebuffer.New", "invalid size %dx%d", width, height)
	}

	fb := &Framebuffer{
		width:  width,
		height: height,
	}

	if err := fb.create(); err != nil {
		return nil, err
	}

	logger.Debug("hdr framebuffer created",
		zap.Uint32("fbo", fb.fbo),
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
	return fb, nil
}

func (fb *Framebuffer) create() error {
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(NumAttachments, &fb.color[0])
	for i, tex := range fb.color {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, fb.width, fb.height, 0, gl.RGB, gl.FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, tex, 0)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, fb.width, fb.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	fb.DrawTo(Scene)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return fault.New(fault.InvalidState, "framebuffer.New", "framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
}

// DrawTo routes fragment output location i to the i-th listed attachment.
// The framebuffer must be bound.
func (fb *Framebuffer) DrawTo(attachments ...int) {
	bufs := make([]uint32, len(attachments))
	for i, a := range attachments {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(a)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

// Clear clears colour, depth and stencil of the current draw buffers and
// leaves the stencil mask open.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.StencilMask(0xFF)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// ClearAll clears every colour attachment, then depth and stencil.
func (fb *Framebuffer) ClearAll(r, g, b, a float32) {
	fb.DrawTo(Scene, Bright, Ping, Pong)
	fb.Clear(r, g, b, a)
	fb.DrawTo(Scene)
}

// Color returns the texture of attachment i.
func (fb *Framebuffer) Color(i int) uint32 {
	return fb.color[i]
}

// FBO returns the underlying framebuffer object ID.
func (fb *Framebuffer) FBO() uint32 {
	return fb.fbo
}

// ReadDefault reads the default framebuffer's back buffer as RGBA, bottom
// row first.
func ReadDefault(width, height int32) []byte {
	pixels := make([]byte, width*height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

// Destroy releases all OpenGL resources.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.color[0] != 0 {
		gl.DeleteTextures(NumAttachments, &fb.color[0])
		fb.color = [NumAttachments]uint32{}
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
