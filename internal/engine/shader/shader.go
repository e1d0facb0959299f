// Package shader provides OpenGL shader compilation and uniform utilities.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/fault"
	"github.com/Faultbox/shadowlab/internal/logger"
)

// Sources holds the GLSL text of each pipeline stage.
// Geometry is optional.
type Sources struct {
	Vertex   string
	Fragment string
	Geometry string
}

// Program is a linked GLSL program with cached uniform locations.
//
// Uniform setters never return errors. The first failed lookup is kept and
// reported by Err, so a frame can set many uniforms and check once.
type Program struct {
	id       uint32
	name     string
	uniforms map[string]int32
	err      error
}

// Compile compiles and links the given stages into a program.
func Compile(name string, src Sources) (*Program, error) {
	stages := []struct {
		kind   uint32
		label  string
		source string
	}{
		{gl.VERTEX_SHADER, "vertex", src.Vertex},
		{gl.FRAGMENT_SHADER, "fragment", src.Fragment},
		{gl.GEOMETRY_SHADER, "geometry", src.Geometry},
	}

	program := gl.CreateProgram()
	for _, st := range stages {
		if st.source == "" {
			if st.kind == gl.GEOMETRY_SHADER {
				continue
			}
			gl.DeleteProgram(program)
			return nil, fault.New(fault.ShaderCompile, "shader.Compile", "%s: missing %s stage", name, st.label)
		}
		s, err := compileShader(st.source, st.kind, st.label)
		if err != nil {
			gl.DeleteProgram(program)
			return nil, fault.Wrap(fault.ShaderCompile, "shader.Compile", fmt.Errorf("%s: %w", name, err))
		}
		gl.AttachShader(program, s)
		// Flagged for deletion; freed once the program is deleted.
		defer gl.DeleteShader(s)
	}

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return nil, fault.New(fault.ShaderLink, "shader.Compile", "%s: %s", name, strings.TrimRight(log, "\x00"))
	}

	logger.Debug("shader program linked",
		zap.String("name", name),
		zap.Uint32("program", program),
		zap.Bool("geometry", src.Geometry != ""),
	)

	return &Program{
		id:       program,
		name:     name,
		uniforms: make(map[string]int32),
	}, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, label string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", label, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Name returns the label the program was compiled with.
func (p *Program) Name() string {
	return p.name
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Err returns the first uniform or block lookup failure, if any.
func (p *Program) Err() error {
	return p.err
}

// location returns the cached location of a uniform.
// Missing uniforms record a sticky error and return -1, which GL ignores.
func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 && p.err == nil {
		p.err = fault.New(fault.UniformLookup, "shader.Program", "%s: cannot find uniform %q", p.name, name)
	}
	p.uniforms[name] = loc
	return loc
}

// SetInt sets an int (or sampler) uniform.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

// SetBool sets a bool uniform.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.location(name), i)
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.location(name), v[0], v[1], v[2])
}

// SetMat3 sets a mat3 uniform.
func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.location(name), 1, false, &m[0])
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

// SetBlock binds a uniform block to a binding point.
func (p *Program) SetBlock(name string, binding uint32) {
	idx := gl.GetUniformBlockIndex(p.id, gl.Str(name+"\x00"))
	if idx == gl.INVALID_INDEX {
		if p.err == nil {
			p.err = fault.New(fault.UniformLookup, "shader.Program", "%s: cannot find uniform block %q", p.name, name)
		}
		return
	}
	gl.UniformBlockBinding(p.id, idx, binding)
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Indexed builds the name of an array element uniform, optionally with a
// struct member: Indexed("pointLights", 2, "position") is "pointLights[2].position".
func Indexed(array string, i int, member string) string {
	if member == "" {
		return fmt.Sprintf("%s[%d]", array, i)
	}
	return fmt.Sprintf("%s[%d].%s", array, i, member)
}
