// Package model imports scenes from OBJ and glTF files and draws them.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/mesh"
)

// TextureRef names a material texture before upload. Path is relative to
// the asset root; Data holds the bytes of images embedded in the file.
type TextureRef struct {
	Path string
	Type mesh.TextureType
	Data []byte
}

// MeshData is one imported mesh ready for GPU upload.
type MeshData struct {
	Name     string
	Vertices []mesh.Vertex
	Indices  []uint32
	Textures []TextureRef
}

// Data is an imported scene: a flat list of meshes in world space of the
// model file.
type Data struct {
	Name   string
	Meshes []MeshData
}

// Bounds returns the bounding box of every vertex in the scene.
func (d *Data) Bounds() (lo, hi mgl32.Vec3) {
	first := true
	for _, m := range d.Meshes {
		if len(m.Vertices) == 0 {
			continue
		}
		mlo, mhi := mesh.Bounds(m.Vertices)
		if first {
			lo, hi, first = mlo, mhi, false
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], mlo[k])
			hi[k] = max(hi[k], mhi[k])
		}
	}
	return lo, hi
}

// VertexCount returns the total number of vertices.
func (d *Data) VertexCount() int {
	n := 0
	for _, m := range d.Meshes {
		n += len(m.Vertices)
	}
	return n
}
