package scene

import (
	gomath "math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// RingOptions places instances on a noisy ring around a center.
type RingOptions struct {
	Count  int
	Seed   int64
	Center mgl32.Vec3
	Radius float32 // default 5
	Offset float32 // maximum displacement per axis, default 1
}

// AsteroidRing returns one model matrix per instance. The same seed always
// yields the same ring.
func AsteroidRing(opts RingOptions) []mgl32.Mat4 {
	if opts.Count <= 0 {
		return nil
	}
	if opts.Radius == 0 {
		opts.Radius = 5
	}
	if opts.Offset == 0 {
		opts.Offset = 1
	}
	if opts.Offset < 0 {
		opts.Offset = -opts.Offset
	}
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), 0x5eed))
	axis := mgl32.Vec3{0.4, 0.6, 0.8}.Normalize()

	// displacement in [-offset, offset) with 0.01 granularity
	span := max(int(2*opts.Offset*100), 1)
	displace := func() float32 {
		return float32(rng.IntN(span))/100 - opts.Offset
	}

	out := make([]mgl32.Mat4, opts.Count)
	for i := range out {
		theta := float64(i) / float64(opts.Count) * 2 * gomath.Pi
		dx, dy, dz := displace(), displace(), displace()
		x := float32(gomath.Sin(theta))*opts.Radius + dx
		y := dy * 0.4
		z := float32(gomath.Cos(theta))*opts.Radius + dz

		angle := mgl32.DegToRad(float32(rng.IntN(360)))
		scale := (float32(rng.IntN(20))/100 + 0.05) * 0.25

		m := mgl32.Translate3D(opts.Center[0], opts.Center[1], opts.Center[2])
		m = m.Mul4(mgl32.Translate3D(x, y, z))
		m = m.Mul4(mgl32.HomogRotate3D(angle, axis))
		m = m.Mul4(mgl32.Scale3D(scale, scale, scale))
		out[i] = m
	}
	return out
}
