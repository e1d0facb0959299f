package mesh

import "github.com/go-gl/mathgl/mgl32"

// face is a unit square spanned by u and v; its normal is u x v.
type face struct {
	u, v mgl32.Vec3
}

var cubeFaces = []face{
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}}, // +X
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},  // -X
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}}, // +Y
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},  // -Y
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},  // +Z
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}}, // -Z
}

// appendFace adds a counter-clockwise quad centred at center.
func appendFace(vs []Vertex, is []uint32, f face, center mgl32.Vec3, half float32) ([]Vertex, []uint32) {
	n := f.u.Cross(f.v)
	base := uint32(len(vs))
	for _, st := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		p := center.Add(f.u.Mul(st[0] * half)).Add(f.v.Mul(st[1] * half))
		vs = append(vs, Vertex{
			Position: p,
			Normal:   n,
			TexCoord: mgl32.Vec2{(st[0] + 1) / 2, (st[1] + 1) / 2},
		})
	}
	is = append(is, base, base+1, base+2, base, base+2, base+3)
	return vs, is
}

// Cube returns an axis-aligned cube of the given half extent with outward
// normals and counter-clockwise front faces.
func Cube(half float32) ([]Vertex, []uint32) {
	var vs []Vertex
	var is []uint32
	for _, f := range cubeFaces {
		n := f.u.Cross(f.v)
		vs, is = appendFace(vs, is, f, n.Mul(half), half)
	}
	return vs, is
}

// Quad returns a double-sided square in the XY plane spanning [-1, 1],
// so it survives back-face culling from either side.
func Quad() ([]Vertex, []uint32) {
	vs, is := appendFace(nil, nil, face{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}, mgl32.Vec3{}, 1)
	return appendFace(vs, is, face{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}}, mgl32.Vec3{}, 1)
}

// ScreenQuad returns a single-sided square covering normalized device
// coordinates, with texture coordinates spanning [0, 1].
func ScreenQuad() ([]Vertex, []uint32) {
	return appendFace(nil, nil, face{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}, mgl32.Vec3{}, 1)
}
