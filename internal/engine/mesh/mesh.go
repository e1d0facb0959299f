// Package mesh uploads indexed triangle meshes and draws them with their
// material textures.
package mesh

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one interleaved vertex: 8 floats.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Vertex attribute locations shared by every scene shader.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2
	// AttribInstance is the first of four vec4 columns of a per-instance mat4.
	AttribInstance = 3
)

const vertexStride = int32(unsafe.Sizeof(Vertex{}))

// TextureType is the role of a material texture.
type TextureType int

// Material texture roles.
const (
	Diffuse TextureType = iota
	Specular
	Reflection
)

// String returns the uniform prefix of the role.
func (t TextureType) String() string {
	switch t {
	case Diffuse:
		return "diffuse"
	case Specular:
		return "specular"
	case Reflection:
		return "reflection"
	default:
		return fmt.Sprintf("texture(%d)", int(t))
	}
}

// UniformName returns the sampler uniform of the n-th texture of a role,
// for example "material.diffuse0".
func UniformName(t TextureType, n int) string {
	return fmt.Sprintf("material.%s%d", t, n)
}

// Texture is an uploaded material texture.
type Texture struct {
	ID   uint32
	Type TextureType
	Path string
}

// Slots lists the texture roles a program samples. The value is a fallback
// texture bound when a mesh has no texture of that role; zero means none.
type Slots map[TextureType]uint32

// Binding is one texture unit assignment.
type Binding struct {
	Unit    uint32
	Uniform string
	Texture uint32
}

// Bindings assigns texture units from offset upward. Only the first texture
// of each role listed in slots is bound, since scene shaders declare one
// sampler per role. Roles are bound in Diffuse, Specular, Reflection order.
func Bindings(textures []Texture, slots Slots, offset uint32) []Binding {
	var out []Binding
	unit := offset
	for _, role := range []TextureType{Diffuse, Specular, Reflection} {
		fallback, wanted := slots[role]
		if !wanted {
			continue
		}
		id := fallback
		for _, t := range textures {
			if t.Type == role {
				id = t.ID
				break
			}
		}
		if id == 0 {
			continue
		}
		out = append(out, Binding{Unit: unit, Uniform: UniformName(role, 0), Texture: id})
		unit++
	}
	return out
}

// Program receives sampler unit assignments.
type Program interface {
	SetInt(name string, v int32)
}

// Mesh is an indexed triangle list on the GPU.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
	textures      []Texture
	min, max      mgl32.Vec3
}

// New uploads vertices and indices.
func New(vertices []Vertex, indices []uint32, textures []Texture) *Mesh {
	m := describe(vertices, indices, textures)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(vertexStride), gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.VertexAttribPointerWithOffset(AttribPosition, 3, gl.FLOAT, false, vertexStride, unsafe.Offsetof(Vertex{}.Position))
	gl.EnableVertexAttribArray(AttribPosition)
	gl.VertexAttribPointerWithOffset(AttribNormal, 3, gl.FLOAT, false, vertexStride, unsafe.Offsetof(Vertex{}.Normal))
	gl.EnableVertexAttribArray(AttribNormal)
	gl.VertexAttribPointerWithOffset(AttribTexCoord, 2, gl.FLOAT, false, vertexStride, unsafe.Offsetof(Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(AttribTexCoord)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return m
}

// describe fills in the CPU-side state of a mesh.
func describe(vertices []Vertex, indices []uint32, textures []Texture) *Mesh {
	m := &Mesh{
		count:    int32(len(indices)),
		textures: textures,
	}
	m.min, m.max = Bounds(vertices)
	return m
}

// Textures returns the material textures.
func (m *Mesh) Textures() []Texture { return m.textures }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int32 { return m.count }

// Bounds returns the object-space bounding box.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) { return m.min, m.max }

// Draw binds the textures requested by slots starting at texture unit
// texOffset, then draws the mesh.
func (m *Mesh) Draw(p Program, texOffset uint32, slots Slots) {
	m.bindTextures(p, texOffset, slots)
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// DrawDepth draws the geometry only.
func (m *Mesh) DrawDepth() {
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// DrawInstanced draws count instances. Per-instance attributes must have
// been attached with AppendData.
func (m *Mesh) DrawInstanced(p Program, texOffset uint32, slots Slots, count int32) {
	m.bindTextures(p, texOffset, slots)
	gl.BindVertexArray(m.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil, count)
	gl.BindVertexArray(0)
}

// AppendData runs fn with the mesh's vertex array bound, so fn can attach
// extra vertex attributes.
func (m *Mesh) AppendData(fn func()) {
	gl.BindVertexArray(m.vao)
	fn()
	gl.BindVertexArray(0)
}

// Delete releases the GPU buffers. Textures are owned by the loader.
func (m *Mesh) Delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		m.vao, m.vbo, m.ebo = 0, 0, 0
	}
}

func (m *Mesh) bindTextures(p Program, texOffset uint32, slots Slots) {
	for _, b := range Bindings(m.textures, slots, texOffset) {
		gl.ActiveTexture(gl.TEXTURE0 + b.Unit)
		gl.BindTexture(gl.TEXTURE_2D, b.Texture)
		p.SetInt(b.Uniform, int32(b.Unit))
	}
}

// Bounds returns the bounding box of the vertex positions.
func Bounds(vertices []Vertex) (lo, hi mgl32.Vec3) {
	if len(vertices) == 0 {
		return lo, hi
	}
	lo, hi = vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], v.Position[k])
			hi[k] = max(hi[k], v.Position[k])
		}
	}
	return lo, hi
}
