// Package lighting builds the light parameters of the forward pass and
// uploads them to the object shader.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/shader"
)

// MaxPointLights is the size of the point light arrays in the object shader.
const MaxPointLights = config.MaxPointLights

// Program receives light uniforms.
type Program interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// Phong holds the three reflectance terms of a light.
type Phong struct {
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

func (ph Phong) upload(p Program, prefix string) {
	p.SetVec3(prefix+".ambient", ph.Ambient)
	p.SetVec3(prefix+".diffuse", ph.Diffuse)
	p.SetVec3(prefix+".specular", ph.Specular)
}

// Attenuation is the 1 / (c + l*d + q*d*d) falloff of positional lights.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

func (a Attenuation) upload(p Program, prefix string) {
	p.SetFloat(prefix+".constant", a.Constant)
	p.SetFloat(prefix+".linear", a.Linear)
	p.SetFloat(prefix+".quadratic", a.Quadratic)
}

// PointLight is an omnidirectional light. Color is the lamp colour the
// Phong terms were derived from; lamps are drawn in it.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Phong
	Attenuation
}

// PointLightBuffer holds the lights uploaded to the pointLights array.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Len returns the number of lights.
func (b *PointLightBuffer) Len() int {
	return len(b.Lights)
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// Positions returns the light positions in order.
func (b *PointLightBuffer) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(b.Lights))
	for i, l := range b.Lights {
		out[i] = l.Position
	}
	return out
}

// Upload sets pointLights[i] for every light and numPointLights.
func (b *PointLightBuffer) Upload(p Program) {
	for i, l := range b.Lights {
		p.SetVec3(shader.Indexed("pointLights", i, "position"), l.Position)
		l.Attenuation.upload(p, shader.Indexed("pointLights", i, ""))
		l.Phong.upload(p, shader.Indexed("pointLights", i, ""))
	}
	p.SetInt("numPointLights", int32(len(b.Lights)))
}
