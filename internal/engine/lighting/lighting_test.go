package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/config"
)

// recorder captures uniform uploads by name.
type recorder struct {
	ints   map[string]int32
	floats map[string]float32
	vecs   map[string]mgl32.Vec3
}

func newRecorder() *recorder {
	return &recorder{
		ints:   map[string]int32{},
		floats: map[string]float32{},
		vecs:   map[string]mgl32.Vec3{},
	}
}

func (r *recorder) SetInt(name string, v int32)       { r.ints[name] = v }
func (r *recorder) SetFloat(name string, v float32)   { r.floats[name] = v }
func (r *recorder) SetVec3(name string, v mgl32.Vec3) { r.vecs[name] = v }

func TestNewRigColours(t *testing.T) {
	cfg := config.Default().Lights
	r := NewRig(cfg)

	// base 0.4: ambient 0.04, diffuse 0.24
	if !vecNear(r.Sun.Ambient, mgl32.Vec3{}, 1e-5) {
		t.Errorf("sun ambient = %v, want zero", r.Sun.Ambient)
	}
	if !vecNear(r.Sun.Diffuse, mgl32.Vec3{0.12, 0.12, 0.12}, 1e-5) {
		t.Errorf("sun diffuse = %v", r.Sun.Diffuse)
	}
	if !vecNear(r.Sun.Specular, mgl32.Vec3{0.02, 0.02, 0.02}, 1e-5) {
		t.Errorf("sun specular = %v", r.Sun.Specular)
	}

	if r.Points.Len() != len(cfg.Points) {
		t.Fatalf("got %d point lights, want %d", r.Points.Len(), len(cfg.Points))
	}
	red := r.Points.Lights[0]
	if !vecNear(red.Diffuse, mgl32.Vec3{0.12, 0, 0}, 1e-5) {
		t.Errorf("red diffuse = %v, want tinted [0.12 0 0]", red.Diffuse)
	}
	if !vecNear(red.Specular, mgl32.Vec3{0.2, 0, 0}, 1e-5) {
		t.Errorf("red specular = %v", red.Specular)
	}
	if red.Linear != cfg.Linear {
		t.Errorf("red linear = %v, want %v", red.Linear, cfg.Linear)
	}

	if !vecNear(r.Spot.Specular, mgl32.Vec3{0.2, 0.2, 0.2}, 1e-5) {
		t.Errorf("spot specular = %v", r.Spot.Specular)
	}
	wantInner := float32(math.Cos(7.5 * math.Pi / 180))
	if !floatNear(r.Spot.InnerCutOff, wantInner, 1e-6) {
		t.Errorf("inner cut-off = %v, want %v", r.Spot.InnerCutOff, wantInner)
	}
	if r.Spot.InnerCutOff <= r.Spot.OuterCutOff {
		t.Error("inner cone cosine should exceed outer")
	}
}

func TestRigUpload(t *testing.T) {
	r := NewRig(config.Default().Lights)
	r.Spot.Follow(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})
	rec := newRecorder()
	r.Upload(rec)

	if got := rec.ints["numPointLights"]; got != 3 {
		t.Errorf("numPointLights = %d, want 3", got)
	}
	names := []string{
		"dirLight.direction", "dirLight.ambient", "dirLight.diffuse", "dirLight.specular",
		"pointLights[0].position", "pointLights[2].specular",
		"spotLight.position", "spotLight.direction", "spotLight.ambient",
	}
	for _, n := range names {
		if _, ok := rec.vecs[n]; !ok {
			t.Errorf("%s not uploaded", n)
		}
	}
	for _, n := range []string{"pointLights[1].constant", "spotLight.quadratic", "spotLight.innerCutOff", "material.shininess"} {
		if _, ok := rec.floats[n]; !ok {
			t.Errorf("%s not uploaded", n)
		}
	}
	if got := rec.vecs["spotLight.position"]; got != (mgl32.Vec3{0, 0, 10}) {
		t.Errorf("spot position = %v", got)
	}
	if _, ok := rec.vecs["pointLights[3].position"]; ok {
		t.Error("unconfigured light uploaded")
	}
}

func TestPointLightBufferCapacity(t *testing.T) {
	b := NewPointLightBuffer()
	for i := 0; i < MaxPointLights; i++ {
		if !b.AddLight(PointLight{Position: mgl32.Vec3{float32(i), 0, 0}}) {
			t.Fatalf("AddLight(%d) rejected", i)
		}
	}
	if b.AddLight(PointLight{}) {
		t.Error("AddLight past capacity accepted")
	}
	if b.Len() != MaxPointLights {
		t.Errorf("Len() = %d, want %d", b.Len(), MaxPointLights)
	}
	pos := b.Positions()
	for i, p := range pos {
		if p != (mgl32.Vec3{float32(i), 0, 0}) {
			t.Errorf("Positions()[%d] = %v", i, p)
		}
	}
}

func TestSunPosition(t *testing.T) {
	s := Sun{Direction: mgl32.Vec3{1, -1, 1}}
	p := s.Position(20)
	if !floatNear(p.Len(), 20, 1e-4) {
		t.Errorf("|Position| = %v, want 20", p.Len())
	}
	if p.Dot(s.Direction) >= 0 {
		t.Errorf("Position %v should be opposite the light direction", p)
	}
}

// vecNear reports whether a and b lie within eps of each other.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}
