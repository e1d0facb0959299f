package model

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/fault"
)

// triangleDoc builds a one-triangle document without normals.
func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idx),
			Attributes: map[string]int{
				gltf.POSITION:   pos,
				gltf.TEXCOORD_0: uv,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func TestConvertGLTFTriangle(t *testing.T) {
	data, err := convertGLTF(triangleDoc(), "tri.glb")
	if err != nil {
		t.Fatalf("convertGLTF() error = %v", err)
	}
	if len(data.Meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(data.Meshes))
	}
	m := data.Meshes[0]
	if m.Name != "tri" {
		t.Errorf("name = %q, want tri", m.Name)
	}
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	if got := m.Vertices[1].TexCoord; got != (mgl32.Vec2{1, 0}) {
		t.Errorf("texcoord = %v, want [1 0]", got)
	}
	for i, v := range m.Vertices {
		if !vecNear(v.Normal, mgl32.Vec3{0, 0, 1}, 1e-5) {
			t.Errorf("vertex %d normal = %v, want generated [0 0 1]", i, v.Normal)
		}
	}
}

func TestConvertGLTFChildNodes(t *testing.T) {
	doc := triangleDoc()
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "child", Mesh: gltf.Index(0)})
	doc.Nodes[0].Children = []int{1}

	data, err := convertGLTF(doc, "tri.glb")
	if err != nil {
		t.Fatalf("convertGLTF() error = %v", err)
	}
	if len(data.Meshes) != 2 {
		t.Errorf("got %d meshes, want 2 (root and child)", len(data.Meshes))
	}
}

func TestConvertGLTFBadNode(t *testing.T) {
	doc := triangleDoc()
	doc.Nodes[0].Children = []int{7}
	if _, err := convertGLTF(doc, "tri.glb"); err == nil {
		t.Error("convertGLTF() with dangling child succeeded")
	}
}

func TestConvertGLTFExternalTexture(t *testing.T) {
	doc := triangleDoc()
	doc.Images = []*gltf.Image{{URI: "tex/albedo.png"}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	doc.Meshes[0].Primitives[0].Material = gltf.Index(0)

	data, err := convertGLTF(doc, "models/tri.gltf")
	if err != nil {
		t.Fatalf("convertGLTF() error = %v", err)
	}
	tex := data.Meshes[0].Textures
	if len(tex) != 1 {
		t.Fatalf("got %d textures, want 1", len(tex))
	}
	if tex[0].Path != "models/tex/albedo.png" || tex[0].Type != mesh.Diffuse || tex[0].Data != nil {
		t.Errorf("texture = %+v", tex[0])
	}
}

func TestLoadGLTFBinary(t *testing.T) {
	dir := t.TempDir()
	if err := gltf.SaveBinary(triangleDoc(), filepath.Join(dir, "tri.glb")); err != nil {
		t.Fatalf("SaveBinary() error = %v", err)
	}

	data, err := LoadGLTF("tri.glb", assets.NewManager(dir))
	if err != nil {
		t.Fatalf("LoadGLTF() error = %v", err)
	}
	lo, hi := data.Bounds()
	if lo != (mgl32.Vec3{0, 0, 0}) || hi != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestLoadGLTFErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadGLTF("missing.glb", assets.NewManager(dir)); !errors.Is(err, fault.SceneImport) {
		t.Errorf("missing file: error = %v, want SceneImport", err)
	}
	if _, err := LoadGLTF("tri.glb", newSource(nil)); !errors.Is(err, fault.SceneImport) {
		t.Errorf("in-memory source: error = %v, want SceneImport", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("scene.fbx", newSource(nil), nil)
	if !errors.Is(err, fault.SceneImport) {
		t.Errorf("Load() error = %v, want SceneImport", err)
	}
}

func TestLocalTransformIdentity(t *testing.T) {
	if got := localTransform(&gltf.Node{}); got != mgl32.Ident4() {
		t.Errorf("localTransform(empty) = %v, want identity", got)
	}
}
