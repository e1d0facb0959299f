package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceBuffer holds one model matrix per instance.
type InstanceBuffer struct {
	vbo   uint32
	count int32
}

// NewInstanceBuffer uploads the instance matrices.
func NewInstanceBuffer(matrices []mgl32.Mat4) *InstanceBuffer {
	b := &InstanceBuffer{count: int32(len(matrices))}
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(matrices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(matrices)*int(unsafe.Sizeof(mgl32.Mat4{})), gl.Ptr(matrices), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

// Count returns the number of instances.
func (b *InstanceBuffer) Count() int32 { return b.count }

// Attach wires the buffer to attributes 3..6 of the bound vertex array,
// one vec4 column each, advancing once per instance. Call it from
// Mesh.AppendData.
func (b *InstanceBuffer) Attach() {
	const vec4Size = 4 * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	for col := uint32(0); col < 4; col++ {
		attrib := AttribInstance + col
		gl.VertexAttribPointerWithOffset(attrib, 4, gl.FLOAT, false, 4*vec4Size, uintptr(col*vec4Size))
		gl.EnableVertexAttribArray(attrib)
		gl.VertexAttribDivisor(attrib, 1)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Delete releases the buffer.
func (b *InstanceBuffer) Delete() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
}
