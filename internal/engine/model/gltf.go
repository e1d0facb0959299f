package model

import (
	"fmt"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// FileSource is a Source that can also name assets on disk, which the
// glTF reader needs to resolve external buffers.
type FileSource interface {
	Source
	Abs(name string) string
}

// LoadGLTF imports a .gltf or .glb scene. Node transforms are baked into
// the vertices, and each material's base colour texture becomes the
// mesh's diffuse map.
func LoadGLTF(name string, src FileSource) (*Data, error) {
	name = assets.Clean(name)
	file := src.Abs(name)
	if file == "" {
		return nil, fault.New(fault.SceneImport, "model.LoadGLTF", "%s: asset source is not disk backed", name)
	}
	doc, err := gltf.Open(file)
	if err != nil {
		return nil, fault.Wrap(fault.SceneImport, "model.LoadGLTF", fmt.Errorf("%s: %w", name, err))
	}

	out, err := convertGLTF(doc, name)
	if err != nil {
		return nil, fault.Wrap(fault.SceneImport, "model.LoadGLTF", err)
	}
	if len(out.Meshes) == 0 {
		return nil, fault.New(fault.SceneImport, "model.LoadGLTF", "%s: no triangle meshes", name)
	}

	logger.Debug("gltf imported",
		zap.String("name", name),
		zap.Int("meshes", len(out.Meshes)),
		zap.Int("vertices", out.VertexCount()),
	)
	return out, nil
}

func convertGLTF(doc *gltf.Document, name string) (*Data, error) {
	c := gltfConverter{doc: doc, name: name, dir: path.Dir(name), out: &Data{Name: name}}
	c.textures = make([]*TextureRef, len(doc.Textures))
	for i := range doc.Textures {
		c.textures[i] = c.texture(i)
	}

	for _, root := range c.roots() {
		if err := c.node(root, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return c.out, nil
}

type gltfConverter struct {
	doc      *gltf.Document
	name     string
	dir      string
	textures []*TextureRef
	out      *Data
}

// roots returns the nodes of the default scene, or every parentless node
// when the file has none.
func (c *gltfConverter) roots() []int {
	doc := c.doc
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) == 1 {
		return doc.Scenes[0].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, ch := range n.Children {
			if ch < len(hasParent) {
				hasParent[ch] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

const maxNodeDepth = 64

func (c *gltfConverter) node(idx int, parent mgl32.Mat4, depth int) error {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return fmt.Errorf("%s: node %d out of range", c.name, idx)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("%s: node hierarchy deeper than %d", c.name, maxNodeDepth)
	}
	n := c.doc.Nodes[idx]
	world := parent.Mul4(localTransform(n))

	if n.Mesh != nil {
		if *n.Mesh >= len(c.doc.Meshes) {
			return fmt.Errorf("%s: node %d references mesh %d", c.name, idx, *n.Mesh)
		}
		gm := c.doc.Meshes[*n.Mesh]
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Warn("skipping non-triangle primitive",
					zap.String("model", c.name), zap.String("mesh", gm.Name), zap.Int("primitive", pi))
				continue
			}
			md, err := c.primitive(gm.Name, pi, prim, world)
			if err != nil {
				return fmt.Errorf("%s: mesh %q primitive %d: %w", c.name, gm.Name, pi, err)
			}
			c.out.Meshes = append(c.out.Meshes, md)
		}
	}

	for _, ch := range n.Children {
		if err := c.node(ch, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func localTransform(n *gltf.Node) mgl32.Mat4 {
	m := n.MatrixOrDefault()
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	if out != mgl32.Ident4() {
		return out
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (c *gltfConverter) primitive(meshName string, pi int, prim *gltf.Primitive, world mgl32.Mat4) (MeshData, error) {
	md := MeshData{Name: meshName}
	if md.Name == "" {
		md.Name = fmt.Sprintf("primitive_%d", pi)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return md, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(c.doc, c.doc.Accessors[posIdx], nil)
	if err != nil {
		return md, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(c.doc, c.doc.Accessors[idx], nil); err != nil {
			return md, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(c.doc, c.doc.Accessors[idx], nil); err != nil {
			return md, fmt.Errorf("texcoords: %w", err)
		}
	}

	normalMat := world.Mat3().Inv().Transpose()
	md.Vertices = make([]mesh.Vertex, len(positions))
	missing := make([]bool, len(positions))
	for i, p := range positions {
		v := mesh.Vertex{Position: world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()}
		if i < len(normals) {
			n := normalMat.Mul3x1(mgl32.Vec3(normals[i]))
			if n.Len() > 0 {
				n = n.Normalize()
			}
			v.Normal = n
		} else {
			missing[i] = true
		}
		if i < len(uvs) {
			v.TexCoord = mgl32.Vec2(uvs[i])
		}
		md.Vertices[i] = v
	}

	if prim.Indices != nil {
		md.Indices, err = modeler.ReadIndices(c.doc, c.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return md, fmt.Errorf("indices: %w", err)
		}
		for _, ix := range md.Indices {
			if int(ix) >= len(md.Vertices) {
				return md, fmt.Errorf("index %d out of range", ix)
			}
		}
	} else {
		md.Indices = make([]uint32, len(md.Vertices))
		for i := range md.Indices {
			md.Indices[i] = uint32(i)
		}
	}
	if len(normals) < len(positions) {
		generateNormals(md.Vertices, md.Indices, missing)
	}

	if prim.Material != nil && *prim.Material < len(c.doc.Materials) {
		mat := c.doc.Materials[*prim.Material]
		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			ti := pbr.BaseColorTexture.Index
			if ti < len(c.textures) && c.textures[ti] != nil {
				md.Textures = append(md.Textures, *c.textures[ti])
			}
		}
	}
	return md, nil
}

// texture resolves a glTF texture to a file path or embedded bytes. A
// texture that cannot be read is logged and left out.
func (c *gltfConverter) texture(i int) *TextureRef {
	t := c.doc.Textures[i]
	if t.Source == nil || *t.Source >= len(c.doc.Images) {
		return nil
	}
	img := c.doc.Images[*t.Source]
	key := fmt.Sprintf("%s#image%d", c.name, *t.Source)

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(c.doc, c.doc.BufferViews[*img.BufferView])
		if err != nil {
			logger.Warn("gltf image not read", zap.String("model", c.name), zap.Int("image", *t.Source), zap.Error(err))
			return nil
		}
		return &TextureRef{Path: key, Type: mesh.Diffuse, Data: raw}
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			logger.Warn("gltf image not decoded", zap.String("model", c.name), zap.Int("image", *t.Source), zap.Error(err))
			return nil
		}
		return &TextureRef{Path: key, Type: mesh.Diffuse, Data: raw}
	case img.URI != "":
		return &TextureRef{Path: assets.Join(c.dir, img.URI), Type: mesh.Diffuse}
	}
	return nil
}
