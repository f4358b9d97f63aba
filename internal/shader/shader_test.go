package shader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/learngl/internal/gl/glfake"
)

const (
	vertexSrc = "void main(){ gl_Position = vec4(pos,1.0); }"
	// No output declaration; the stand-in compiler only needs main to assign.
	fragmentSrc = "uniform float percent;\nvoid main(){ out_color = vec4(1,0.5,0.2,1); }"

	colorFragment = `#version 330 core
out vec4 FragColor;
uniform vec4 ourColor;
uniform mat4 transform;
uniform int mode;
uniform bool flip;
void main() {
    FragColor = ourColor;
}
`
)

func TestCreate(t *testing.T) {
	ctx := glfake.New()
	p, err := Create(ctx, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	assert.Equal(t, Linked, p.State())
	assert.NotZero(t, p.Handle())
	assert.True(t, ctx.Linked(p.Handle()))
	assert.Zero(t, ctx.LiveShaders(), "stage objects are released once linked")
	assert.Equal(t, 1, ctx.LivePrograms())

	p.Use()
	p.SetFloat("percent", 0.5)

	loc, ok := p.Location("percent")
	require.True(t, ok)
	var got float32
	ctx.GetUniformfv(p.Handle(), loc, &got)
	assert.Equal(t, float32(0.5), got)
	assert.Empty(t, ctx.Errors())
}

func TestVertexCompileError(t *testing.T) {
	ctx := glfake.New()
	_, err := Create(ctx, "void main(){ gl_Position = vec4(pos,1.0) }", fragmentSrc)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, PhaseVertexCompile, ce.Phase)
	assert.NotEmpty(t, ce.Log)

	assert.Zero(t, ctx.Calls("CreateProgram"))
	assert.Equal(t, 1, ctx.Calls("CreateShader"), "fragment stage is never attempted")
	assert.Zero(t, ctx.LiveShaders())
}

func TestFragmentCompileError(t *testing.T) {
	ctx := glfake.New()
	_, err := Create(ctx, vertexSrc, "#error nope\nvoid main(){ c = vec4(1.0); }")

	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseFragmentCompile, phase)
	assert.Contains(t, err.Error(), "nope")
	assert.Zero(t, ctx.Calls("CreateProgram"))
	assert.Zero(t, ctx.LiveShaders())
}

func TestLinkError(t *testing.T) {
	ctx := glfake.New()
	_, err := CreateFromSources(ctx,
		Source{Stage: Vertex, Name: "a.vert", Text: vertexSrc},
		Source{Stage: Fragment, Name: "a.frag", Text: "void main(){ }"},
	)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, PhaseLink, ce.Phase)
	assert.Equal(t, "a.vert+a.frag", ce.Name)
	assert.Contains(t, ce.Log, "does not write to any output")

	assert.Equal(t, 1, ctx.Calls("CreateProgram"))
	assert.Zero(t, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveShaders())
}

func TestEmptySource(t *testing.T) {
	ctx := glfake.New()
	_, err := Create(ctx, "  \n", fragmentSrc)
	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseVertexCompile, phase)
	assert.Zero(t, ctx.Calls("CreateShader"))
}

func TestWrongStages(t *testing.T) {
	ctx := glfake.New()
	_, err := CreateFromSources(ctx,
		Source{Stage: Fragment, Text: fragmentSrc},
		Source{Stage: Vertex, Text: vertexSrc},
	)
	require.Error(t, err)
	_, ok := PhaseOf(err)
	assert.False(t, ok)
	assert.Zero(t, ctx.Calls("CreateShader"))
}

func TestInfoLogBounded(t *testing.T) {
	ctx := glfake.New()
	huge := "#error " + strings.Repeat("x", 4*MaxInfoLog) + "\nvoid main(){}"
	_, err := Create(ctx, huge, fragmentSrc)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.LessOrEqual(t, len(ce.Log), MaxInfoLog-1)
}

func TestUseIsIdempotent(t *testing.T) {
	ctx := glfake.New()
	a, err := Create(ctx, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	b, err := Create(ctx, vertexSrc, colorFragment)
	require.NoError(t, err)

	a.Use()
	a.Use()
	assert.Equal(t, a.Handle(), ctx.CurrentProgram())

	b.Use()
	assert.Equal(t, b.Handle(), ctx.CurrentProgram(), "Use replaces the current program")
	assert.Empty(t, ctx.Errors())
}

func TestSetters(t *testing.T) {
	ctx := glfake.New()
	p, err := Create(ctx, vertexSrc, colorFragment)
	require.NoError(t, err)
	p.Use()

	p.SetVec4("ourColor", mgl32.Vec4{0.1, 0.2, 0.3, 0.4})
	p.SetInt("mode", 7)
	p.SetBool("flip", true)
	m := mgl32.Translate3D(1, 2, 3)
	p.SetMat4("transform", m)
	require.Empty(t, ctx.Errors())

	var color [4]float32
	loc, _ := p.Location("ourColor")
	ctx.GetUniformfv(p.Handle(), loc, &color[0])
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.4}, color)

	var mode, flip int32
	loc, _ = p.Location("mode")
	ctx.GetUniformiv(p.Handle(), loc, &mode)
	assert.Equal(t, int32(7), mode)
	loc, _ = p.Location("flip")
	ctx.GetUniformiv(p.Handle(), loc, &flip)
	assert.Equal(t, int32(1), flip)

	var got mgl32.Mat4
	loc, _ = p.Location("transform")
	ctx.GetUniformfv(p.Handle(), loc, &got[0])
	assert.Equal(t, m, got)
	assert.Equal(t, float32(1), got[12], "column-major translation")
}

func TestUnknownUniformIsIgnored(t *testing.T) {
	ctx := glfake.New()
	p, err := Create(ctx, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	p.Use()

	p.SetFloat("nope", 1)
	p.SetFloat("nope", 2)
	p.SetMat4("alsoMissing", mgl32.Ident4())

	_, ok := p.Location("nope")
	assert.False(t, ok)
	assert.Empty(t, ctx.Errors())
	assert.Zero(t, ctx.Calls("Uniform1f"))
	assert.Equal(t, 2, ctx.Calls("GetUniformLocation"), "locations are cached, misses included")
}

func TestDestroy(t *testing.T) {
	ctx := glfake.New()
	p, err := Create(ctx, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	p.Use()

	p.Destroy()
	assert.Equal(t, Destroyed, p.State())
	assert.Zero(t, ctx.LivePrograms())

	p.Destroy()
	assert.Equal(t, 1, ctx.Calls("DeleteProgram"))
	assert.Empty(t, ctx.Errors())

	assert.PanicsWithValue(t, "shader: use of destroyed program", p.Use)
	assert.Panics(t, func() { p.SetFloat("percent", 1) })
	assert.Panics(t, func() { _ = p.Validate() })
}

func TestValidate(t *testing.T) {
	ctx := glfake.New()
	p, err := Create(ctx, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	err = p.Validate()
	phase, ok := PhaseOf(err)
	require.True(t, ok)
	assert.Equal(t, PhaseValidate, phase)

	var vao uint32
	ctx.GenVertexArrays(1, &vao)
	ctx.BindVertexArray(vao)
	assert.NoError(t, p.Validate())
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Phase: PhaseLink, Name: "a+b", Log: "error: bad\n"}
	assert.Equal(t, "shader: link failed (a+b): error: bad", err.Error())
	assert.Equal(t, "shader: vertex compile failed", (&CompileError{Phase: PhaseVertexCompile}).Error())
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"s/basic.vert": {Data: []byte(vertexSrc)},
		"s/basic.frag": {Data: []byte(fragmentSrc)},
	}

	ctx := glfake.New()
	p, err := LoadFS(ctx, fsys, "s/basic.vert", "s/basic.frag")
	require.NoError(t, err)
	assert.Equal(t, Linked, p.State())

	_, err = LoadFS(ctx, fsys, "s/basic.vert", "s/missing.frag")
	var re *ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "s/missing.frag", re.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, 1, ctx.LivePrograms())
}

func TestLoadFilesReadsBeforeCompiling(t *testing.T) {
	dir := t.TempDir()
	vp := filepath.Join(dir, "a.vert")
	require.NoError(t, os.WriteFile(vp, []byte(vertexSrc), 0o644))

	ctx := glfake.New()
	_, err := LoadFiles(ctx, vp, filepath.Join(dir, "a.frag"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, ctx.Calls("CreateShader"))
}

func TestLoadFilesNamesSources(t *testing.T) {
	dir := t.TempDir()
	vp := filepath.Join(dir, "a.vert")
	fp := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(vp, []byte(vertexSrc), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte("void main(){ c = vec4(1.0) }"), 0o644))

	_, err := LoadFiles(glfake.New(), vp, fp)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, fp, ce.Name)
}

func TestReloader(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": {Data: []byte(vertexSrc)},
		"a.frag": {Data: []byte("uniform sampler2D tex;\n" + fragmentSrc)},
	}
	ctx := glfake.New()

	loads := 0
	r, err := NewReloader(ctx, fsys, "a.vert", "a.frag", func(p *Program) {
		loads++
		p.SetInt("tex", 3)
	})
	require.NoError(t, err)
	first := r.Program()
	assert.Equal(t, 1, loads)

	require.NoError(t, r.Reload())
	assert.Equal(t, 2, loads)
	assert.Equal(t, Destroyed, first.State())
	assert.Equal(t, 1, ctx.LivePrograms())

	second := r.Program()
	var unit int32
	loc, _ := second.Location("tex")
	ctx.GetUniformiv(second.Handle(), loc, &unit)
	assert.Equal(t, int32(3), unit)

	fsys["a.frag"] = &fstest.MapFile{Data: []byte("void main(){ }")}
	err = r.Reload()
	phase, _ := PhaseOf(err)
	assert.Equal(t, PhaseLink, phase)
	assert.Same(t, second, r.Program(), "a failed reload keeps the working program")
	assert.Equal(t, Linked, second.State())

	vp, fp := r.Paths()
	assert.Equal(t, "a.vert", vp)
	assert.Equal(t, "a.frag", fp)

	r.Destroy()
	assert.Zero(t, ctx.LivePrograms())
}

func TestNewReloaderError(t *testing.T) {
	_, err := NewReloader(glfake.New(), fstest.MapFS{}, "a.vert", "a.frag", nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.frag")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte(fragmentSrc), 0o644))

	w, err := NewWatcher(nil, watched)
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.Changed())

	require.NoError(t, os.WriteFile(other, []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte(fragmentSrc+"\n"), 0o644))
	require.Eventually(t, w.Changed, 5*time.Second, 10*time.Millisecond)

	// Events coalesce; nothing else is pending once drained.
	time.Sleep(50 * time.Millisecond)
	for w.Changed() {
	}
	assert.False(t, w.Changed())
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(nil, filepath.Join(t.TempDir(), "nope", "a.frag"))
	assert.Error(t, err)
}
