package model

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/assets"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Source supplies model, material and texture files by asset name.
type Source interface {
	Load(name string) ([]byte, error)
}

// material is the texture set of one MTL entry.
type material struct {
	textures []TextureRef
}

// LoadOBJ imports a Wavefront OBJ file and the MTL libraries it names.
// Polygons are fan-triangulated, texture V is flipped to OpenGL's
// bottom-left origin, and missing normals are generated.
func LoadOBJ(name string, src Source) (*Data, error) {
	name = assets.Clean(name)
	data, err := src.Load(name)
	if err != nil {
		return nil, fault.Wrap(fault.SceneImport, "model.LoadOBJ", err)
	}
	dir := path.Dir(name)

	p := objParser{
		name:      name,
		dir:       dir,
		src:       src,
		materials: make(map[string]material),
		out:       &Data{Name: name},
	}
	if err := p.parse(data); err != nil {
		return nil, fault.Wrap(fault.SceneImport, "model.LoadOBJ", err)
	}
	if len(p.out.Meshes) == 0 {
		return nil, fault.New(fault.SceneImport, "model.LoadOBJ", "%s: no faces", name)
	}

	logger.Debug("obj imported",
		zap.String("name", name),
		zap.Int("meshes", len(p.out.Meshes)),
		zap.Int("vertices", p.out.VertexCount()),
	)
	return p.out, nil
}

type objParser struct {
	name      string
	dir       string
	src       Source
	materials map[string]material

	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2

	cur       MeshData
	curMat    string
	missing   []bool
	vertexMap map[[3]int]uint32

	out *Data
}

func (p *objParser) parse(data []byte) error {
	p.reset("default")

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)

		var err error
		switch parts[0] {
		case "v":
			var v mgl32.Vec3
			v, err = parseVec3(parts)
			p.positions = append(p.positions, v)
		case "vn":
			var v mgl32.Vec3
			v, err = parseVec3(parts)
			p.normals = append(p.normals, v)
		case "vt":
			if len(parts) < 3 {
				err = fmt.Errorf("vt needs 2 components")
				break
			}
			var u, v float64
			if u, err = strconv.ParseFloat(parts[1], 32); err != nil {
				break
			}
			if v, err = strconv.ParseFloat(parts[2], 32); err != nil {
				break
			}
			p.uvs = append(p.uvs, mgl32.Vec2{float32(u), 1 - float32(v)})
		case "f":
			err = p.face(parts[1:])
		case "o", "g":
			name := "unnamed"
			if len(parts) > 1 {
				name = parts[1]
			}
			p.flush()
			p.reset(name)
		case "usemtl":
			if len(parts) > 1 && parts[1] != p.curMat {
				name := p.cur.Name
				p.flush()
				p.reset(name)
				p.curMat = parts[1]
			}
		case "mtllib":
			for _, lib := range parts[1:] {
				p.loadMTL(lib)
			}
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", p.name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	p.flush()
	return nil
}

func (p *objParser) reset(name string) {
	p.cur = MeshData{Name: name}
	p.missing = nil
	p.vertexMap = make(map[[3]int]uint32)
}

// flush finishes the current mesh if it has any faces.
func (p *objParser) flush() {
	if len(p.cur.Indices) == 0 {
		return
	}
	generateNormals(p.cur.Vertices, p.cur.Indices, p.missing)
	if m, ok := p.materials[p.curMat]; ok {
		p.cur.Textures = append([]TextureRef(nil), m.textures...)
	}
	p.out.Meshes = append(p.out.Meshes, p.cur)
}

func (p *objParser) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}
	idx := make([]uint32, 0, len(refs))
	for _, ref := range refs {
		key, err := p.parseRef(ref)
		if err != nil {
			return err
		}
		if i, ok := p.vertexMap[key]; ok {
			idx = append(idx, i)
			continue
		}

		v := mesh.Vertex{Position: p.positions[key[0]]}
		if key[1] >= 0 {
			v.TexCoord = p.uvs[key[1]]
		}
		if key[2] >= 0 {
			v.Normal = p.normals[key[2]]
		}
		i := uint32(len(p.cur.Vertices))
		p.cur.Vertices = append(p.cur.Vertices, v)
		p.missing = append(p.missing, key[2] < 0)
		p.vertexMap[key] = i
		idx = append(idx, i)
	}

	for i := 2; i < len(idx); i++ {
		p.cur.Indices = append(p.cur.Indices, idx[0], idx[i-1], idx[i])
	}
	return nil
}

// parseRef resolves "v", "v/vt", "v//vn" or "v/vt/vn" to zero-based
// indices, -1 for an absent component. Negative OBJ indices count back
// from the latest element.
func (p *objParser) parseRef(ref string) ([3]int, error) {
	key := [3]int{-1, -1, -1}
	counts := [3]int{len(p.positions), len(p.uvs), len(p.normals)}
	fields := strings.Split(ref, "/")
	if len(fields) > 3 {
		return key, fmt.Errorf("bad face vertex %q", ref)
	}
	for i, f := range fields {
		if f == "" {
			if i == 0 {
				return key, fmt.Errorf("face vertex %q has no position", ref)
			}
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return key, fmt.Errorf("bad face vertex %q: %w", ref, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += counts[i]
		default:
			return key, fmt.Errorf("face vertex %q uses index 0", ref)
		}
		if n < 0 || n >= counts[i] {
			return key, fmt.Errorf("face vertex %q out of range", ref)
		}
		key[i] = n
	}
	return key, nil
}

// loadMTL reads a material library. A missing library leaves the meshes
// untextured.
func (p *objParser) loadMTL(lib string) {
	name := assets.Join(p.dir, lib)
	data, err := p.src.Load(name)
	if err != nil {
		logger.Warn("material library not loaded", zap.String("mtl", name), zap.Error(err))
		return
	}
	for k, v := range parseMTL(data, p.dir) {
		p.materials[k] = v
	}
}

// parseMTL extracts texture maps. Paths are resolved against dir.
// map_Ka and refl are read as reflection maps.
func parseMTL(data []byte, dir string) map[string]material {
	out := make(map[string]material)
	var cur string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if parts[0] == "newmtl" {
			if len(parts) > 1 {
				cur = parts[1]
				out[cur] = material{}
			}
			continue
		}

		var typ mesh.TextureType
		switch parts[0] {
		case "map_Kd":
			typ = mesh.Diffuse
		case "map_Ks":
			typ = mesh.Specular
		case "map_Ka", "map_refl", "refl":
			typ = mesh.Reflection
		default:
			continue
		}
		if cur == "" || len(parts) < 2 {
			continue
		}
		// options such as -bm 1 precede the file name
		file := parts[len(parts)-1]
		m := out[cur]
		m.textures = append(m.textures, TextureRef{Path: assets.Join(dir, file), Type: typ})
		out[cur] = m
	}
	return out
}

func parseVec3(parts []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(parts) < 4 {
		return v, fmt.Errorf("%s needs 3 components", parts[0])
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i+1], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
