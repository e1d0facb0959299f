package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Size is the std140 size of a mat4 in bytes.
const Mat4Size = 16 * 4

// UniformBuffer is a uniform buffer object bound to a fixed binding point.
type UniformBuffer struct {
	id      uint32
	binding uint32
	size    int
}

// NewUniformBuffer allocates size bytes and binds the whole range to binding.
func NewUniformBuffer(size int, binding uint32) *UniformBuffer {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, id)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.STATIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferRange(gl.UNIFORM_BUFFER, binding, id, 0, size)
	return &UniformBuffer{id: id, binding: binding, size: size}
}

// Binding returns the binding point.
func (u *UniformBuffer) Binding() uint32 {
	return u.binding
}

// SetMat4 writes a matrix at the given byte offset.
func (u *UniformBuffer) SetMat4(offset int, m mgl32.Mat4) {
	gl.BindBuffer(gl.UNIFORM_BUFFER, u.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, offset, Mat4Size, gl.Ptr(&m[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Delete releases the buffer.
func (u *UniformBuffer) Delete() {
	if u.id != 0 {
		gl.DeleteBuffers(1, &u.id)
		u.id = 0
	}
}
