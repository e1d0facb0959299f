package app

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/mesh"
)

func TestFloorFacesUp(t *testing.T) {
	vs, _ := mesh.Quad()
	n := FloorTransform().Mat3().Mul3x1(vs[0].Normal).Normalize()
	if !vecNear(n, mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("floor normal = %v, want +Y", n)
	}

	corner := FloorTransform().Mul4x1(mgl32.Vec4{1, 1, 0, 1}).Vec3()
	if !floatNear(corner.Y(), objectOrigin.Y(), 1e-5) {
		t.Errorf("floor corner height = %v, want %v", corner.Y(), objectOrigin.Y())
	}
	if !floatNear(abs(corner.X()), 5, 1e-5) {
		t.Errorf("floor half width = %v, want 5", corner.X())
	}
}

func TestObjectTransform(t *testing.T) {
	got := ObjectTransform().Mul4x1(mgl32.Vec4{2, 0, 0, 1}).Vec3()
	want := mgl32.Vec3{1, -5, 0}
	if !vecNear(got, want, 1e-5) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPlanetTransform(t *testing.T) {
	tests := []struct {
		angle float32
		want  mgl32.Vec3
	}{
		{0, mgl32.Vec3{0.5, 5.5, 0}},
		{mgl32.DegToRad(90), mgl32.Vec3{0, 5.5, -0.5}},
	}
	for _, tt := range tests {
		got := PlanetTransform(tt.angle).Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
		if !vecNear(got, tt.want, 1e-5) {
			t.Errorf("angle %v: got %v, want %v", tt.angle, got, tt.want)
		}
	}
}

func TestLampTransform(t *testing.T) {
	got := LampTransform(mgl32.Vec3{1, 2, 3}, 0.2).Mul4x1(mgl32.Vec4{1, 1, 1, 1}).Vec3()
	want := mgl32.Vec3{1.2, 2.2, 3.2}
	if !vecNear(got, want, 1e-5) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGlassTransforms(t *testing.T) {
	ts := GlassTransforms()
	if len(ts) != len(glassPanes) {
		t.Fatalf("got %d panes, want %d", len(ts), len(glassPanes))
	}
	for i, m := range ts {
		if got := m.Col(3).Vec3(); got != glassPanes[i] {
			t.Errorf("pane %d at %v, want %v", i, got, glassPanes[i])
		}
	}
}

func TestNormalMatrix(t *testing.T) {
	model := mgl32.Scale3D(2, 1, 1)
	// a surface tilted 45 degrees in XY keeps a normal perpendicular to it
	tangent := model.Mat3().Mul3x1(mgl32.Vec3{1, -1, 0})
	n := NormalMatrix(model).Mul3x1(mgl32.Vec3{1, 1, 0})
	if d := n.Dot(tangent); !floatNear(d, 0, 1e-5) {
		t.Errorf("normal not perpendicular after scale: dot = %v", d)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// vecNear reports whether a and b lie within eps of each other.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}
