package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/mesh"
)

// faceNormal returns the unit normal of a counter-clockwise triangle, or
// false for a degenerate one.
func faceNormal(a, b, c mgl32.Vec3) (mgl32.Vec3, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-10 {
		return mgl32.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

// generateNormals fills missing vertex normals with the average of the
// adjacent face normals.
func generateNormals(vertices []mesh.Vertex, indices []uint32, missing []bool) {
	acc := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		n, ok := faceNormal(vertices[ia].Position, vertices[ib].Position, vertices[ic].Position)
		if !ok {
			continue
		}
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}
	for i := range vertices {
		if !missing[i] {
			continue
		}
		if acc[i].Len() > 0 {
			vertices[i].Normal = acc[i].Normalize()
		} else {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}
