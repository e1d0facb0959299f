package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the center point of the AABB.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Mul(0.5).Len()
}

// Fit is a directional light placement covering a bounding box.
type Fit struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Box      OrthoBox
}

// FitDirectional places a directional light travelling along dir so that
// its orthographic volume encloses bounds.
func FitDirectional(dir mgl32.Vec3, bounds AABB) Fit {
	front := dir.Normalize()
	center := bounds.Center()
	radius := bounds.Radius()
	if radius == 0 {
		radius = 1
	}

	// Far enough back that the whole box is in front of the near plane
	distance := radius * 2
	pos := center.Sub(front.Mul(distance))

	// Padding avoids clipping at the box edges
	half := radius * 1.1
	return Fit{
		Position: pos,
		Front:    front,
		Up:       safeUp(front, mgl32.Vec3{0, 1, 0}),
		Box: OrthoBox{
			Left:   -half,
			Right:  half,
			Bottom: -half,
			Top:    half,
			Near:   0.1,
			Far:    distance + half,
		},
	}
}

// LightSpace returns the light-space transform of the fit.
func (f Fit) LightSpace() mgl32.Mat4 {
	view := mgl32.LookAtV(f.Position, f.Position.Add(f.Front), f.Up)
	return f.Box.Projection().Mul4(view)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
