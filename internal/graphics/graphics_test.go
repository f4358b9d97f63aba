package graphics

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glpkg "github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/gl/glfake"
	"github.com/tinyrange/learngl/internal/window"
)

// fakeWindow runs for a fixed number of frames. press, when set, is called
// before each frame to inject input.
type fakeWindow struct {
	gl     *glfake.GL
	frames int
	polled int
	swaps  int
	closed bool
	w, h   int
	input  window.Tracker
	press  func(frame int, t *window.Tracker)
}

func (w *fakeWindow) GL() (glpkg.OpenGL, error) { return w.gl, nil }

func (w *fakeWindow) Close() { w.closed = true }

func (w *fakeWindow) Swap() { w.swaps++ }

func (w *fakeWindow) BackingSize() (int, int) { return w.w, w.h }

func (w *fakeWindow) Cursor() (float32, float32) { return 1, 2 }

func (w *fakeWindow) Scale() float32 { return 1 }

func (w *fakeWindow) Time() float64 { return float64(w.polled) / 60 }

func (w *fakeWindow) GetKeyState(key window.Key) window.KeyState {
	return w.input.KeyState(key)
}

func (w *fakeWindow) GetButtonState(button window.Button) window.ButtonState {
	return w.input.ButtonState(button)
}

func (w *fakeWindow) Poll() bool {
	if w.polled >= w.frames {
		return false
	}
	if w.press != nil {
		w.press(w.polled, &w.input)
	}
	w.input.Advance()
	w.polled++
	return true
}

func newTestWindow(t *testing.T, frames int) (*fakeWindow, Window) {
	t.Helper()
	fw := &fakeWindow{gl: glfake.New(), frames: frames, w: 8, h: 6}
	win, err := New(fw)
	require.NoError(t, err)
	return fw, win
}

func TestLoop(t *testing.T) {
	fw, win := newTestWindow(t, 3)
	win.SetClearColor(ColorTeal)

	steps := 0
	err := win.Loop(func(f Frame) error {
		steps++
		w, h := f.WindowSize()
		assert.Equal(t, 8, w)
		assert.Equal(t, 6, h)
		assert.Same(t, fw.gl, f.GL())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, steps)
	assert.Equal(t, 3, fw.swaps)
	assert.False(t, fw.closed, "the caller owns closing")
	assert.Equal(t, [4]int32{0, 0, 8, 6}, fw.gl.ViewportState())
	assert.Equal(t, [4]float32(ColorTeal), fw.gl.FramebufferColor())
	assert.True(t, fw.gl.Enabled(glpkg.Blend))
	assert.Equal(t, uint32(glpkg.Fill), fw.gl.PolygonModeState())
	assert.Empty(t, fw.gl.Errors())

	win.Close()
	assert.True(t, fw.closed)
}

func TestLoopWireframe(t *testing.T) {
	fw, win := newTestWindow(t, 1)
	win.SetWireframe(true)
	require.NoError(t, win.Loop(func(Frame) error { return nil }))
	assert.Equal(t, uint32(glpkg.Line), fw.gl.PolygonModeState())
}

func TestLoopNoClear(t *testing.T) {
	fw, win := newTestWindow(t, 1)
	win.SetClear(false)
	require.NoError(t, win.Loop(func(Frame) error { return nil }))
	assert.Zero(t, fw.gl.Calls("Clear"))
}

func TestLoopEscape(t *testing.T) {
	fw, win := newTestWindow(t, 10)
	fw.press = func(frame int, tr *window.Tracker) {
		if frame == 2 {
			tr.KeyPressed(window.KeyEscape)
		}
	}
	steps := 0
	require.NoError(t, win.Loop(func(Frame) error {
		steps++
		return nil
	}))
	assert.Equal(t, 2, steps)
}

func TestLoopStepError(t *testing.T) {
	fw, win := newTestWindow(t, 5)
	boom := errors.New("boom")
	err := win.Loop(func(Frame) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, fw.swaps)

	_, win = newTestWindow(t, 5)
	assert.NoError(t, win.Loop(func(Frame) error { return ErrStop }))
}

func TestFrameInput(t *testing.T) {
	fw, win := newTestWindow(t, 2)
	fw.press = func(frame int, tr *window.Tracker) {
		if frame == 0 {
			tr.KeyPressed(window.KeyUp)
		}
	}
	var states []window.KeyState
	require.NoError(t, win.Loop(func(f Frame) error {
		states = append(states, f.GetKeyState(window.KeyUp))
		return nil
	}))
	assert.Equal(t, []window.KeyState{window.KeyStatePressed, window.KeyStateDown}, states)
}

func TestScreenshot(t *testing.T) {
	fw, win := newTestWindow(t, 1)
	win.SetClearColor(Color{1, 0, 0, 1})

	var shot image.Image
	require.NoError(t, win.Loop(func(f Frame) error {
		var err error
		shot, err = f.Screenshot()
		return err
	}))
	require.NotNil(t, shot)
	assert.Equal(t, image.Rect(0, 0, 8, 6), shot.Bounds())
	r, g, b, a := shot.At(3, 4).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
	assert.Equal(t, 1, fw.gl.Calls("ReadPixels"))
}

func TestMeshIndexed(t *testing.T) {
	ctx := glfake.New()
	vertices := []float32{
		0.5, 0.5, 0, 1, 1,
		0.5, -0.5, 0, 1, 0,
		-0.5, -0.5, 0, 0, 0,
		-0.5, 0.5, 0, 0, 1,
	}
	indices := []uint32{0, 1, 3, 1, 2, 3}
	m, err := NewMesh(ctx, vertices, indices, []int32{3, 2})
	require.NoError(t, err)
	assert.Equal(t, int32(6), m.count)

	attribs, ebo, ok := ctx.VertexArray(m.vao)
	require.True(t, ok)
	assert.NotZero(t, ebo)
	assert.Equal(t, glfake.Attrib{Size: 3, Type: glpkg.Float, Stride: 20, Offset: 0, Buffer: m.vbo, Enabled: true}, attribs[0])
	assert.Equal(t, glfake.Attrib{Size: 2, Type: glpkg.Float, Stride: 20, Offset: 12, Buffer: m.vbo, Enabled: true}, attribs[1])

	vbo, _ := ctx.BufferContents(m.vbo)
	assert.Len(t, vbo, len(vertices)*4)
	idx, _ := ctx.BufferContents(ebo)
	assert.Equal(t, indices, unsafe.Slice((*uint32)(unsafe.Pointer(&idx[0])), len(indices)))

	m.Delete()
	m.Delete()
	assert.Zero(t, ctx.LiveBuffers())
	assert.Zero(t, ctx.LiveVertexArrays())
	assert.Empty(t, ctx.Errors())
}

func TestMeshDraw(t *testing.T) {
	ctx := glfake.New()
	p := linkedProgram(t, ctx)
	ctx.UseProgram(p)

	tri, err := NewMesh(ctx, []float32{-1, -1, 0, 1, -1, 0, 0, 1, 0}, nil, []int32{3})
	require.NoError(t, err)
	tri.Draw()

	quad, err := NewMesh(ctx, []float32{0, 0, 1, 0, 1, 1, 0, 1}, []uint32{0, 1, 2, 0, 2, 3}, []int32{2})
	require.NoError(t, err)
	quad.Draw()

	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, glfake.DrawCall{Mode: glpkg.Triangles, Count: 3, Program: p, VertexArray: tri.vao, Textures: map[uint32]uint32{}}, draws[0])
	assert.True(t, draws[1].Indexed)
	assert.Equal(t, int32(6), draws[1].Count)
	assert.Empty(t, ctx.Errors())
}

func TestMeshErrors(t *testing.T) {
	ctx := glfake.New()
	tests := []struct {
		name     string
		vertices []float32
		indices  []uint32
		layout   []int32
	}{
		{"empty layout", []float32{1, 2, 3}, nil, nil},
		{"bad component count", []float32{1, 2, 3, 4, 5}, nil, []int32{5}},
		{"partial vertex", []float32{1, 2, 3, 4}, nil, []int32{3}},
		{"no vertices", nil, nil, []int32{3}},
		{"index out of range", []float32{1, 2, 3}, []uint32{1}, []int32{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh(ctx, tt.vertices, tt.indices, tt.layout)
			assert.Error(t, err)
		})
	}
	assert.Zero(t, ctx.Calls("GenVertexArrays"))
}

func TestNewTexture(t *testing.T) {
	ctx := glfake.New()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})

	tex, err := NewTexture(ctx, img, TextureOptions{})
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)

	info, ok := ctx.Texture(tex.ID())
	require.True(t, ok)
	assert.True(t, info.Mipmapped)
	assert.Equal(t, int32(glpkg.Repeat), info.Params[glpkg.TextureWrapS])
	assert.Equal(t, int32(glpkg.LinearMipmapLinear), info.Params[glpkg.TextureMinFilter])
	assert.Equal(t, int32(glpkg.Linear), info.Params[glpkg.TextureMagFilter])
	assert.Equal(t, []byte{255, 0, 0, 255}, info.Pixels[0:4])

	flipped, err := NewTexture(ctx, img, TextureOptions{FlipY: true, Wrap: glpkg.ClampToEdge, MinFilter: glpkg.Nearest})
	require.NoError(t, err)
	info, _ = ctx.Texture(flipped.ID())
	assert.Equal(t, []byte{0, 0, 0, 0}, info.Pixels[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, info.Pixels[8:12], "first row moves to the bottom")
	assert.Equal(t, int32(glpkg.ClampToEdge), info.Params[glpkg.TextureWrapT])
	assert.Equal(t, int32(glpkg.Nearest), info.Params[glpkg.TextureMinFilter])

	flipped.Bind(1)
	assert.Equal(t, flipped.ID(), ctx.BoundTexture(1))

	tex.Delete()
	flipped.Delete()
	flipped.Delete()
	assert.Zero(t, ctx.LiveTextures())
	assert.Empty(t, ctx.Errors())

	_, err = NewTexture(ctx, image.NewNRGBA(image.Rect(0, 0, 0, 0)), TextureOptions{})
	assert.Error(t, err)
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, Checker(4, color.White, color.Black)))
	require.NoError(t, f.Close())

	ctx := glfake.New()
	tex, err := LoadTexture(ctx, path, TextureOptions{})
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)

	_, err = LoadTexture(ctx, filepath.Join(t.TempDir(), "missing.png"), TextureOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChecker(t *testing.T) {
	img := Checker(3, color.White, color.Black)
	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(1, 1))
}

func linkedProgram(t *testing.T, ctx *glfake.GL) glpkg.Program {
	t.Helper()
	vs := ctx.CreateShader(glpkg.VertexShader)
	ctx.ShaderSource(vs, "void main(){ gl_Position = vec4(1.0); }")
	ctx.CompileShader(vs)
	fs := ctx.CreateShader(glpkg.FragmentShader)
	ctx.ShaderSource(fs, "void main(){ c = vec4(1.0); }")
	ctx.CompileShader(fs)
	p := ctx.CreateProgram()
	ctx.AttachShader(p, vs)
	ctx.AttachShader(p, fs)
	ctx.LinkProgram(p)
	require.True(t, ctx.Linked(p))
	return p
}
