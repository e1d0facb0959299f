package model

import (
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// TextureLoader uploads material textures. Implementations memoize, so
// meshes sharing a file share the GPU texture.
type TextureLoader interface {
	Load(name string) (uint32, error)
	LoadData(key string, data []byte) (uint32, error)
}

// Model is a set of meshes drawn with one transform.
type Model struct {
	name     string
	meshes   []*mesh.Mesh
	min, max mgl32.Vec3
}

// Load imports a model file and uploads it. The format is chosen by
// extension: .obj, .gltf or .glb.
func Load(name string, src FileSource, tex TextureLoader) (*Model, error) {
	var (
		data *Data
		err  error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".obj":
		data, err = LoadOBJ(name, src)
	case ".gltf", ".glb":
		data, err = LoadGLTF(name, src)
	default:
		return nil, fault.New(fault.SceneImport, "model.Load", "%s: unsupported model format", name)
	}
	if err != nil {
		return nil, err
	}
	return Upload(data, tex)
}

// Upload creates GPU meshes for imported data, loading each referenced
// texture through tex.
func Upload(data *Data, tex TextureLoader) (*Model, error) {
	m := &Model{name: data.Name}
	for _, md := range data.Meshes {
		textures := make([]mesh.Texture, 0, len(md.Textures))
		for _, ref := range md.Textures {
			var (
				id  uint32
				err error
			)
			if ref.Data != nil {
				id, err = tex.LoadData(ref.Path, ref.Data)
			} else {
				id, err = tex.Load(ref.Path)
			}
			if err != nil {
				m.Delete()
				return nil, err
			}
			textures = append(textures, mesh.Texture{ID: id, Type: ref.Type, Path: ref.Path})
		}
		m.meshes = append(m.meshes, mesh.New(md.Vertices, md.Indices, textures))
	}
	m.min, m.max = data.Bounds()

	var indices int32
	for _, msh := range m.meshes {
		indices += msh.IndexCount()
	}
	logger.Debug("model uploaded",
		zap.String("name", data.Name),
		zap.Int("meshes", len(m.meshes)),
		zap.Int32("indices", indices),
	)
	return m, nil
}

// NewFromMesh wraps a single mesh, such as a built-in primitive.
func NewFromMesh(name string, msh *mesh.Mesh) *Model {
	lo, hi := msh.Bounds()
	return &Model{name: name, meshes: []*mesh.Mesh{msh}, min: lo, max: hi}
}

// Name returns the asset name the model was loaded from.
func (m *Model) Name() string { return m.name }

// Meshes returns the meshes in draw order.
func (m *Model) Meshes() []*mesh.Mesh { return m.meshes }

// Bounds returns the object-space bounding box.
func (m *Model) Bounds() (lo, hi mgl32.Vec3) { return m.min, m.max }

// Draw draws every mesh with its textures bound from unit texOffset.
func (m *Model) Draw(p mesh.Program, texOffset uint32, slots mesh.Slots) {
	for _, msh := range m.meshes {
		msh.Draw(p, texOffset, slots)
	}
}

// DrawDepth draws the geometry without binding textures.
func (m *Model) DrawDepth() {
	for _, msh := range m.meshes {
		msh.DrawDepth()
	}
}

// DrawInstanced draws count instances of every mesh.
func (m *Model) DrawInstanced(p mesh.Program, texOffset uint32, slots mesh.Slots, count int32) {
	for _, msh := range m.meshes {
		msh.DrawInstanced(p, texOffset, slots, count)
	}
}

// AppendData runs fn once per mesh with that mesh's vertex array bound.
func (m *Model) AppendData(fn func()) {
	for _, msh := range m.meshes {
		msh.AppendData(fn)
	}
}

// Delete releases the meshes. Textures belong to the loader.
func (m *Model) Delete() {
	for _, msh := range m.meshes {
		msh.Delete()
	}
	m.meshes = nil
}
