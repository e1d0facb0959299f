package app

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Fixed placement of the demo scene.
var (
	objectOrigin = mgl32.Vec3{0, -5, 0}
	PlanetCenter = mgl32.Vec3{0, 5.5, 0}
	glassPanes   = []mgl32.Vec3{{0, 0, 6}, {-2, 0, 7.5}, {2, 0, 4.5}}
)

// ObjectTransform stands the model on the floor at half size.
func ObjectTransform() mgl32.Mat4 {
	return mgl32.Translate3D(objectOrigin[0], objectOrigin[1], objectOrigin[2]).
		Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
}

// FloorTransform lays the quad flat at the object's feet, ten units
// across, with its first face pointing up.
func FloorTransform() mgl32.Mat4 {
	return mgl32.Translate3D(objectOrigin[0], objectOrigin[1], objectOrigin[2]).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-90))).
		Mul4(mgl32.Scale3D(5, 5, 5))
}

// PlanetTransform spins the planet about its vertical axis.
func PlanetTransform(angle float32) mgl32.Mat4 {
	return mgl32.Translate3D(PlanetCenter[0], PlanetCenter[1], PlanetCenter[2]).
		Mul4(mgl32.HomogRotate3DY(angle)).
		Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
}

// LampTransform places a lamp cube of the given scale at pos.
func LampTransform(pos mgl32.Vec3, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// GlassTransforms returns the model matrices of the glass panes.
func GlassTransforms() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(glassPanes))
	for i, p := range glassPanes {
		out[i] = mgl32.Translate3D(p[0], p[1], p[2])
	}
	return out
}

// NormalMatrix returns the inverse transpose of the model's upper 3x3,
// which keeps normals perpendicular under non-uniform scale.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}
