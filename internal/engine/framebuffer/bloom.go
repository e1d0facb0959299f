package framebuffer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// Stage is the shader a bloom step runs.
type Stage int

const (
	StageBright Stage = iota // keep pixels brighter than 1
	StageBlur                // one Gaussian direction
	StageBlend               // scene + bloom, tone mapped
)

func (s Stage) String() string {
	switch s {
	case StageBright:
		return "bright"
	case StageBlur:
		return "blur"
	case StageBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// Step is one full-screen pass. Source is the attachment sampled; the
// blend step also samples Bloom. Target is the attachment written.
type Step struct {
	Stage      Stage
	Source     int
	Bloom      int
	Target     int
	Horizontal bool
}

// BloomSchedule returns the passes of the bloom chain and the attachment
// holding the final image. Highlights are extracted into Bright; each
// blur pass runs horizontally into Ping and vertically into Pong, reading
// Bright on the first pass and Pong after that. The blend samples Scene
// and the last blur and writes Bright. With no blur passes the blend
// writes Ping, since Bright is its bloom input.
func BloomSchedule(passes int) (steps []Step, output int) {
	steps = append(steps, Step{Stage: StageBright, Source: Scene, Target: Bright})

	src := Bright
	for i := 0; i < passes; i++ {
		steps = append(steps,
			Step{Stage: StageBlur, Source: src, Target: Ping, Horizontal: true},
			Step{Stage: StageBlur, Source: Ping, Target: Pong},
		)
		src = Pong
	}

	output = Bright
	if passes == 0 {
		output = Ping
	}
	steps = append(steps, Step{Stage: StageBlend, Source: Scene, Bloom: src, Target: output})
	return steps, output
}

// Program is a post-processing shader.
type Program interface {
	Use()
	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetFloat(name string, v float32)
	Err() error
}

// Quad draws a full-screen quad.
type Quad interface {
	DrawDepth()
}

// Bloom runs the bright-pass, blur and blend programs over the HDR target.
type Bloom struct {
	fb                  *Framebuffer
	quad                Quad
	bright, blur, blend Program
}

// NewBloom wires the three post programs to fb.
func NewBloom(fb *Framebuffer, quad Quad, bright, blur, blend Program) *Bloom {
	return &Bloom{fb: fb, quad: quad, bright: bright, blur: blur, blend: blend}
}

// Run executes the chain and returns the texture holding the tone-mapped
// image. The framebuffer must be bound; depth testing is disabled while
// the passes run and the draw buffer is reset to Scene afterwards.
func (b *Bloom) Run(passes int, exposure float32) (uint32, error) {
	if passes < 0 {
		return 0, fault.New(fault.InvalidInput, "framebuffer.Bloom", "negative pass count %d", passes)
	}

	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)
	defer b.fb.DrawTo(Scene)

	steps, output := BloomSchedule(passes)
	for _, s := range steps {
		b.fb.DrawTo(s.Target)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, b.fb.Color(s.Source))

		switch s.Stage {
		case StageBright:
			b.bright.Use()
			b.bright.SetInt("texture1", 0)
		case StageBlur:
			b.blur.Use()
			b.blur.SetInt("texture1", 0)
			b.blur.SetBool("horizontal", s.Horizontal)
		case StageBlend:
			b.blend.Use()
			b.blend.SetInt("scene", 0)
			gl.ActiveTexture(gl.TEXTURE1)
			gl.BindTexture(gl.TEXTURE_2D, b.fb.Color(s.Bloom))
			b.blend.SetInt("bloom", 1)
			b.blend.SetFloat("exposure", exposure)
		}
		b.quad.DrawDepth()
	}

	for _, p := range []Program{b.bright, b.blur, b.blend} {
		if err := p.Err(); err != nil {
			return 0, err
		}
	}
	return b.fb.Color(output), nil
}
