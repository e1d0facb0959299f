package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Spot is a cone light. The cut-offs are stored as cosines so the shader
// compares them directly against a dot product.
type Spot struct {
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	InnerCutOff float32
	OuterCutOff float32
	Phong
	Attenuation
}

// SetCone sets the inner and outer cone angles in degrees.
func (s *Spot) SetCone(innerDeg, outerDeg float32) {
	s.InnerCutOff = float32(math.Cos(float64(mgl32.DegToRad(innerDeg))))
	s.OuterCutOff = float32(math.Cos(float64(mgl32.DegToRad(outerDeg))))
}

// Follow moves the spot to pos, pointing along dir.
func (s *Spot) Follow(pos, dir mgl32.Vec3) {
	s.Position = pos
	s.Direction = dir
}

// Upload sets the spotLight uniforms.
func (s Spot) Upload(p Program) {
	p.SetVec3("spotLight.position", s.Position)
	p.SetVec3("spotLight.direction", s.Direction)
	p.SetFloat("spotLight.innerCutOff", s.InnerCutOff)
	p.SetFloat("spotLight.outerCutOff", s.OuterCutOff)
	s.Attenuation.upload(p, "spotLight")
	s.Phong.upload(p, "spotLight")
}
