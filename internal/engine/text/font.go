package text

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"github.com/Faultbox/shadowlab/internal/logger"
)

// Program is the text shader: a sampler "text" and a colour "textColor".
type Program interface {
	Use()
	SetInt(name string, v int32)
	SetVec3(name string, v mgl32.Vec3)
}

// Font holds one texture per ASCII character and a dynamic quad buffer.
type Font struct {
	glyphs   map[rune]Glyph
	textures map[rune]uint32
	vao, vbo uint32
}

// NewFont rasterizes characters 0..127 of face and uploads them as
// single-channel textures.
func NewFont(face font.Face) *Font {
	f := &Font{
		glyphs:   make(map[rune]Glyph, 128),
		textures: make(map[rune]uint32, 128),
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for r := rune(0); r < 128; r++ {
		g, ok := Rasterize(face, r)
		if !ok {
			continue
		}
		f.glyphs[r] = g
		if g.Width == 0 || g.Height == 0 {
			continue
		}

		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(g.Width), int32(g.Height), 0,
			gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(g.Mask.Pix))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		f.textures[r] = tex
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.GenVertexArrays(1, &f.vao)
	gl.GenBuffers(1, &f.vbo)
	gl.BindVertexArray(f.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, f.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, int(unsafe.Sizeof(Quad{})), nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, int32(unsafe.Sizeof(Vertex{})), 0)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("font uploaded",
		zap.Int("glyphs", len(f.glyphs)),
		zap.Int("textures", len(f.textures)),
	)
	return f
}

// Glyphs returns the rasterized metrics.
func (f *Font) Glyphs() map[rune]Glyph { return f.glyphs }

// RenderText draws s with its baseline starting at (x, y) in normalized
// device coordinates. Blending must be enabled by the caller.
func (f *Font) RenderText(p Program, s string, x, y, scale float32, color mgl32.Vec3) {
	p.Use()
	p.SetVec3("textColor", color)
	p.SetInt("text", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(f.vao)

	quads, runes := Layout(f.glyphs, s, x, y, scale)
	for i := range quads {
		gl.BindTexture(gl.TEXTURE_2D, f.textures[runes[i]])
		gl.BindBuffer(gl.ARRAY_BUFFER, f.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, int(unsafe.Sizeof(Quad{})), gl.Ptr(&quads[i][0][0]))
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Delete releases the glyph textures and buffers.
func (f *Font) Delete() {
	for r, tex := range f.textures {
		gl.DeleteTextures(1, &tex)
		delete(f.textures, r)
	}
	if f.vao != 0 {
		gl.DeleteVertexArrays(1, &f.vao)
		gl.DeleteBuffers(1, &f.vbo)
		f.vao, f.vbo = 0, 0
	}
}
