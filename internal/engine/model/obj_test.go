package model

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/fault"
)

const quadOBJ = `# two triangles as one quad
mtllib quad.mtl
o quad
v -1 0 -1
v  1 0 -1
v  1 0  1
v -1 0  1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
usemtl floor
f 1/1/1 4/4/1 3/3/1 2/2/1
`

const quadMTL = `newmtl floor
Kd 1 1 1
map_Kd textures/floor.jpg
map_Ks -bm 1 textures/floor_spec.jpg
refl textures/env.png
`

func newSource(files map[string]string) *assets.Manager {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return assets.NewManagerFS(fsys)
}

func TestLoadOBJQuad(t *testing.T) {
	src := newSource(map[string]string{
		"models/quad.obj": quadOBJ,
		"models/quad.mtl": quadMTL,
	})

	data, err := LoadOBJ("models/quad.obj", src)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	if len(data.Meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(data.Meshes))
	}
	m := data.Meshes[0]
	if m.Name != "quad" {
		t.Errorf("mesh name = %q, want quad", m.Name)
	}
	if len(m.Vertices) != 4 {
		t.Errorf("got %d vertices, want 4 (shared corners deduplicated)", len(m.Vertices))
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(m.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}

	// vt 0 0 is flipped to v = 1
	if got := m.Vertices[0].TexCoord; got != (mgl32.Vec2{0, 1}) {
		t.Errorf("first texcoord = %v, want [0 1]", got)
	}
	if got := m.Vertices[0].Normal; got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("first normal = %v, want [0 1 0]", got)
	}

	wantTex := []TextureRef{
		{Path: "models/textures/floor.jpg", Type: mesh.Diffuse},
		{Path: "models/textures/floor_spec.jpg", Type: mesh.Specular},
		{Path: "models/textures/env.png", Type: mesh.Reflection},
	}
	if len(m.Textures) != len(wantTex) {
		t.Fatalf("textures = %+v, want %+v", m.Textures, wantTex)
	}
	for i, w := range wantTex {
		if m.Textures[i].Path != w.Path || m.Textures[i].Type != w.Type {
			t.Errorf("texture %d = %+v, want %+v", i, m.Textures[i], w)
		}
	}

	lo, hi := data.Bounds()
	if lo != (mgl32.Vec3{-1, 0, -1}) || hi != (mgl32.Vec3{1, 0, 1}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
}

func TestLoadOBJGeneratesNormals(t *testing.T) {
	src := newSource(map[string]string{
		"tri.obj": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
	})
	data, err := LoadOBJ("tri.obj", src)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	for i, v := range data.Meshes[0].Vertices {
		if !vecNear(v.Normal, mgl32.Vec3{0, 0, 1}, 1e-5) {
			t.Errorf("vertex %d normal = %v, want [0 0 1]", i, v.Normal)
		}
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	src := newSource(map[string]string{
		"tri.obj": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n",
	})
	data, err := LoadOBJ("tri.obj", src)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	if got := data.Meshes[0].Vertices[1].Position; got != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("second vertex = %v, want [1 0 0]", got)
	}
}

func TestLoadOBJSplitsOnMaterial(t *testing.T) {
	src := newSource(map[string]string{
		"two.obj": "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\n" +
			"usemtl a\nf 1 2 3\nusemtl b\nf 2 4 3\n",
	})
	data, err := LoadOBJ("two.obj", src)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	if len(data.Meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(data.Meshes))
	}
	if data.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", data.VertexCount())
	}
}

func TestLoadOBJMissingMaterialLibrary(t *testing.T) {
	src := newSource(map[string]string{
		"tri.obj": "mtllib gone.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl x\nf 1 2 3\n",
	})
	data, err := LoadOBJ("tri.obj", src)
	if err != nil {
		t.Fatalf("LoadOBJ() error = %v", err)
	}
	if n := len(data.Meshes[0].Textures); n != 0 {
		t.Errorf("got %d textures, want 0", n)
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no faces", "v 0 0 0\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n"},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad vertex", "v 0 zero 0\n"},
		{"short vertex", "v 0 0\n"},
		{"bad face ref", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/a 2 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(map[string]string{"bad.obj": tt.body})
			_, err := LoadOBJ("bad.obj", src)
			if !errors.Is(err, fault.SceneImport) {
				t.Errorf("LoadOBJ() error = %v, want SceneImport", err)
			}
		})
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ("nope.obj", newSource(nil))
	if !errors.Is(err, fault.SceneImport) {
		t.Errorf("LoadOBJ() error = %v, want SceneImport", err)
	}
}

func TestParseMTLIgnoresMapsOutsideMaterial(t *testing.T) {
	mats := parseMTL([]byte("map_Kd stray.png\nnewmtl a\nmap_Kd a.png\nmap_Bump n.png\n"), "m")
	if len(mats) != 1 {
		t.Fatalf("got %d materials, want 1", len(mats))
	}
	tex := mats["a"].textures
	if len(tex) != 1 || tex[0].Path != "m/a.png" {
		t.Errorf("textures = %+v", tex)
	}
}

// vecNear reports whether a and b lie within eps of each other.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}
