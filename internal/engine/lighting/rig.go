package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/config"
)

// Rig is every light of the scene plus the shared material shininess.
type Rig struct {
	Sun       Sun
	Points    *PointLightBuffer
	Spot      Spot
	Shininess float32
}

// NewRig derives the light terms from a base intensity: ambient is a
// tenth of it, diffuse six tenths, and every term is halved so the
// lights do not saturate when summed. Point light terms are tinted by
// the lamp colour. Lights past MaxPointLights are dropped.
func NewRig(cfg config.LightsConfig) *Rig {
	light := vec3(cfg.Color)
	ambient := light.Mul(0.1)
	diffuse := light.Mul(0.6)
	att := Attenuation{Constant: cfg.Constant, Linear: cfg.Linear, Quadratic: cfg.Quadratic}

	r := &Rig{
		Sun: Sun{
			Direction: mgl32.Vec3(cfg.Directional),
			Phong: Phong{
				Diffuse:  diffuse.Mul(0.5),
				Specular: ambient.Mul(0.5),
			},
		},
		Points: NewPointLightBuffer(),
		Spot: Spot{
			Phong: Phong{
				Ambient:  ambient.Mul(0.5),
				Diffuse:  diffuse.Mul(0.5),
				Specular: light.Mul(0.5),
			},
			Attenuation: att,
		},
		Shininess: cfg.Shininess,
	}
	r.Spot.SetCone(cfg.SpotInner, cfg.SpotOuter)

	for _, pc := range cfg.Points {
		lamp := mgl32.Vec3(pc.Color)
		r.Points.AddLight(PointLight{
			Position: mgl32.Vec3(pc.Position),
			Color:    lamp,
			Phong: Phong{
				Ambient:  tint(ambient, lamp).Mul(0.5),
				Diffuse:  tint(diffuse, lamp).Mul(0.5),
				Specular: tint(light, lamp).Mul(0.5),
			},
			Attenuation: att,
		})
	}
	return r
}

// Upload sets every light uniform of the object shader and the
// material shininess.
func (r *Rig) Upload(p Program) {
	r.Sun.Upload(p)
	r.Points.Upload(p)
	r.Spot.Upload(p)
	p.SetFloat("material.shininess", r.Shininess)
}

func vec3(v float32) mgl32.Vec3 {
	return mgl32.Vec3{v, v, v}
}

// tint multiplies component-wise.
func tint(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
