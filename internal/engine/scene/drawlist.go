// Package scene holds the draw list shared by the shadow and lighting
// passes, plus placement helpers for the demo scene.
package scene

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// Drawable is anything that can render its geometry into a depth target.
// DrawDepth binds no textures; the caller owns the program and the
// model transform.
type Drawable interface {
	DrawDepth()
}

// Bounded is implemented by drawables that know their object-space bounds.
type Bounded interface {
	Bounds() (lo, hi mgl32.Vec3)
}

// DrawList is an ordered list of (model, world transform) pairs.
// Models[i] is drawn with Transforms[i].
type DrawList struct {
	Models     []Drawable
	Transforms []mgl32.Mat4
}

// Add appends a pair.
func (l *DrawList) Add(d Drawable, transform mgl32.Mat4) {
	l.Models = append(l.Models, d)
	l.Transforms = append(l.Transforms, transform)
}

// Len returns the number of pairs. Only meaningful for a valid list.
func (l DrawList) Len() int {
	return len(l.Models)
}

// Validate checks that every model has exactly one transform.
func (l DrawList) Validate() error {
	if len(l.Models) != len(l.Transforms) {
		return fault.New(fault.ResourceMismatch, "scene.DrawList",
			"%d models but %d transforms", len(l.Models), len(l.Transforms))
	}
	for i, m := range l.Models {
		if m == nil {
			return fault.New(fault.ResourceMismatch, "scene.DrawList", "model %d is nil", i)
		}
	}
	return nil
}

// SortBackToFront returns a copy of the list ordered by decreasing distance
// from eye to each transform's origin. Equal distances keep their order.
func (l DrawList) SortBackToFront(eye mgl32.Vec3) (DrawList, error) {
	if err := l.Validate(); err != nil {
		return DrawList{}, err
	}
	idx := make([]int, len(l.Models))
	dist := make([]float32, len(l.Models))
	for i, m := range l.Transforms {
		idx[i] = i
		dist[i] = m.Col(3).Vec3().Sub(eye).Len()
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(dist[b], dist[a])
	})

	out := DrawList{
		Models:     make([]Drawable, 0, len(idx)),
		Transforms: make([]mgl32.Mat4, 0, len(idx)),
	}
	for _, i := range idx {
		out.Add(l.Models[i], l.Transforms[i])
	}
	return out, nil
}

// Bounds returns the world-space box enclosing every Bounded model.
// ok is false when no model reports bounds.
func (l DrawList) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	for i, m := range l.Models {
		b, isBounded := m.(Bounded)
		if !isBounded || i >= len(l.Transforms) {
			continue
		}
		bmin, bmax := b.Bounds()
		for _, c := range corners(bmin, bmax) {
			p := mgl32.TransformCoordinate(c, l.Transforms[i])
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			for k := 0; k < 3; k++ {
				lo[k] = min(lo[k], p[k])
				hi[k] = max(hi[k], p[k])
			}
		}
	}
	return lo, hi, ok
}

func corners(lo, hi mgl32.Vec3) [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{hi[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{hi[0], hi[1], hi[2]},
	}
}
