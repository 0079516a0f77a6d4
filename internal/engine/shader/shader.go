// Package shader provides OpenGL shader program management.
package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the pipeline stage of a shader source.
type Kind uint32

const (
	Vertex   Kind = gl.VERTEX_SHADER
	Fragment Kind = gl.FRAGMENT_SHADER
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return "unknown"
}

// ErrNotLinked is returned when a program is used before Link succeeded.
var ErrNotLinked = errors.New("shader program not linked")

// Program is a caller-owned GL program.
// Lifecycle: New → AddShader... → Link → Use/Set... → Release.
type Program struct {
	id       uint32
	shaders  []uint32
	uniforms map[string]int32
	linked   bool
}

// New creates an empty program object.
func New() *Program {
	return &Program{
		id:       gl.CreateProgram(),
		uniforms: make(map[string]int32),
	}
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	p := New()
	if err := p.AddShader(vertexSrc, Vertex); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.AddShader(fragmentSrc, Fragment); err != nil {
		p.Release()
		return nil, err
	}
	if err := p.Link(); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// AddShader compiles source and attaches it to the program.
func (p *Program) AddShader(source string, kind Kind) error {
	sh, err := compileShader(source, uint32(kind), kind.String())
	if err != nil {
		return err
	}
	gl.AttachShader(p.id, sh)
	p.shaders = append(p.shaders, sh)
	return nil
}

// Link links the attached shaders. Shader objects are deleted afterwards.
func (p *Program) Link() error {
	gl.LinkProgram(p.id)

	var status int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(p.id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(p.id, logLen, nil, &log[0])
		return fmt.Errorf("link: %s", string(log))
	}

	for _, sh := range p.shaders {
		gl.DetachShader(p.id, sh)
		gl.DeleteShader(sh)
	}
	p.shaders = nil
	p.linked = true
	return nil
}

// Use makes the program current. It panics if the program was never linked.
func (p *Program) Use() {
	if !p.linked {
		panic(ErrNotLinked)
	}
	gl.UseProgram(p.id)
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// SetFloat sets a float uniform on the current program.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.location(name), v)
}

// SetInt sets an int (or sampler) uniform on the current program.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.location(name), v)
}

// SetVec3 sets a vec3 uniform on the current program.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.location(name), v[0], v[1], v[2])
}

// SetMat3 sets a mat3 uniform on the current program.
func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.location(name), 1, false, &m[0])
}

// SetMat4 sets a mat4 uniform on the current program.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.location(name), 1, false, &m[0])
}

// Release deletes the program and any shaders still attached. Safe to call twice.
func (p *Program) Release() {
	for _, sh := range p.shaders {
		gl.DeleteShader(sh)
	}
	p.shaders = nil
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
	p.linked = false
	p.uniforms = make(map[string]int32)
}

// location returns the cached uniform location; -1 for inactive uniforms,
// which GL silently ignores.
func (p *Program) location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
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
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
