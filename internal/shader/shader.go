// Package shader builds GPU programs from a vertex and a fragment stage and
// sets their uniforms.
//
// Programs are created against a gl.OpenGL context and are only returned once
// both stages compiled and the program linked; every failure comes back as a
// *CompileError instead of a half-built handle.
//
// The context's current program is shared state. Use installs a program for
// the draws that follow, and the uniform setters write to whichever program is
// current, so callers that switch programs between draws must call Use on the
// program before setting its uniforms. Nothing here is safe for concurrent use;
// all calls belong on the thread that owns the context.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tinyrange/learngl/internal/gl"
)

// MaxInfoLog bounds the diagnostic text read back from the driver.
const MaxInfoLog = 1024

// Stage is a pipeline stage.
type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) glType() uint32 {
	if s == Fragment {
		return gl.FragmentShader
	}
	return gl.VertexShader
}

func (s Stage) compilePhase() Phase {
	if s == Fragment {
		return PhaseFragmentCompile
	}
	return PhaseVertexCompile
}

// Source is the text of one stage.
type Source struct {
	Stage Stage
	// Name is reported in errors; typically the file the text came from.
	Name string
	Text string
}

// State is the lifecycle state of a Program.
type State int

const (
	// Linked programs may be bound and drawn with.
	Linked State = iota + 1
	// Destroyed programs have released their GL object.
	Destroyed
)

func (s State) String() string {
	switch s {
	case Linked:
		return "linked"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Program is a linked vertex+fragment program.
type Program struct {
	gl     gl.OpenGL
	handle gl.Program
	state  State

	// Locations are cached, including gl.NoUniform for unknown names.
	uniforms map[string]gl.UniformLocation
}

// Create compiles and links a program from vertex and fragment text.
func Create(ctx gl.OpenGL, vertex, fragment string) (*Program, error) {
	return CreateFromSources(ctx,
		Source{Stage: Vertex, Text: vertex},
		Source{Stage: Fragment, Text: fragment},
	)
}

// CreateFromSources compiles and links a program from two named sources.
//
// The vertex stage is compiled first; if it fails the fragment stage is never
// compiled and no program object is created. Stage objects are deleted before
// returning on every path, and a program that fails to link is deleted too.
func CreateFromSources(ctx gl.OpenGL, vertex, fragment Source) (*Program, error) {
	if vertex.Stage != Vertex || fragment.Stage != Fragment {
		return nil, fmt.Errorf("shader: want vertex and fragment sources, got %s and %s", vertex.Stage, fragment.Stage)
	}

	vs, err := compileStage(ctx, vertex)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(vs)

	fs, err := compileStage(ctx, fragment)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(fs)

	handle := ctx.CreateProgram()
	if handle == 0 {
		return nil, &CompileError{Phase: PhaseLink, Log: "glCreateProgram returned 0"}
	}
	ctx.AttachShader(handle, vs)
	ctx.AttachShader(handle, fs)
	ctx.LinkProgram(handle)
	ctx.DetachShader(handle, vs)
	ctx.DetachShader(handle, fs)

	if ctx.GetProgramiv(handle, gl.LinkStatus) != gl.True {
		log := ctx.GetProgramInfoLog(handle, MaxInfoLog)
		ctx.DeleteProgram(handle)
		return nil, &CompileError{Phase: PhaseLink, Name: linkName(vertex, fragment), Log: log}
	}

	return &Program{
		gl:       ctx,
		handle:   handle,
		state:    Linked,
		uniforms: map[string]gl.UniformLocation{},
	}, nil
}

func linkName(vertex, fragment Source) string {
	if vertex.Name == "" && fragment.Name == "" {
		return ""
	}
	return vertex.Name + "+" + fragment.Name
}

func compileStage(ctx gl.OpenGL, src Source) (gl.Shader, error) {
	phase := src.Stage.compilePhase()
	if strings.TrimSpace(src.Text) == "" {
		return 0, &CompileError{Phase: phase, Name: src.Name, Log: "empty source"}
	}

	s := ctx.CreateShader(src.Stage.glType())
	if s == 0 {
		return 0, &CompileError{Phase: phase, Name: src.Name, Log: "glCreateShader returned 0"}
	}
	ctx.ShaderSource(s, src.Text)
	ctx.CompileShader(s)

	if ctx.GetShaderiv(s, gl.CompileStatus) != gl.True {
		log := ctx.GetShaderInfoLog(s, MaxInfoLog)
		ctx.DeleteShader(s)
		return 0, &CompileError{Phase: phase, Name: src.Name, Log: log}
	}
	return s, nil
}

// Handle returns the GL program name.
func (p *Program) Handle() gl.Program {
	return p.handle
}

// State reports whether the program is still usable.
func (p *Program) State() State {
	return p.state
}

func (p *Program) mustLive() {
	if p.state != Linked {
		panic("shader: use of destroyed program")
	}
}

// Use installs the program as the context's current program. It replaces
// whatever was current; calling it again with the same program changes nothing.
func (p *Program) Use() {
	p.mustLive()
	p.gl.UseProgram(p.handle)
}

// Location resolves a uniform name, reporting false when the program does not
// declare it (or the driver optimised it away).
func (p *Program) Location(name string) (gl.UniformLocation, bool) {
	p.mustLive()
	loc, ok := p.uniforms[name]
	if !ok {
		loc = p.gl.GetUniformLocation(p.handle, name)
		p.uniforms[name] = loc
	}
	return loc, loc != gl.NoUniform
}

// The setters below write to the context's current program, which should be
// this one (see Use). Unknown names are ignored without error, matching GL's
// treatment of location -1.

// SetBool sets a bool uniform.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform1i(loc, v)
	}
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform1f(loc, v)
	}
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetMat4 sets a mat4 uniform. mgl32 matrices are column-major, as GL expects.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.Location(name); ok {
		p.gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Validate asks the driver whether the program can run in the current
// context state. Core profiles require a vertex array to be bound.
func (p *Program) Validate() error {
	p.mustLive()
	p.gl.ValidateProgram(p.handle)
	if p.gl.GetProgramiv(p.handle, gl.ValidateStatus) == gl.True {
		return nil
	}
	return &CompileError{Phase: PhaseValidate, Log: p.gl.GetProgramInfoLog(p.handle, MaxInfoLog)}
}

// Destroy deletes the program object. Further calls do nothing; any other use
// of the program afterwards panics.
func (p *Program) Destroy() {
	if p.state == Destroyed {
		return
	}
	p.gl.DeleteProgram(p.handle)
	p.state = Destroyed
	p.uniforms = nil
}
