package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Sun is the directional light.
type Sun struct {
	Direction mgl32.Vec3
	Phong
}

// Position places the sun's shadow camera distance units back along
// its direction from the origin.
func (s Sun) Position(distance float32) mgl32.Vec3 {
	return s.Direction.Normalize().Mul(-distance)
}

// Upload sets the dirLight uniforms.
func (s Sun) Upload(p Program) {
	p.SetVec3("dirLight.direction", s.Direction)
	s.Phong.upload(p, "dirLight")
}
