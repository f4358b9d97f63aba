// Package desktop implements window.Window with GLFW.
package desktop

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/window"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

// Options configures New.
type Options struct {
	Title         string
	Width, Height int
	// SwapInterval is the number of vblanks per Swap; 0 disables vsync.
	SwapInterval int
}

var keys = map[glfw.Key]window.Key{
	glfw.KeyEscape: window.KeyEscape,
	glfw.KeyUp:     window.KeyUp,
	glfw.KeyDown:   window.KeyDown,
	glfw.KeyLeft:   window.KeyLeft,
	glfw.KeyRight:  window.KeyRight,
	glfw.KeySpace:  window.KeySpace,
	glfw.KeyR:      window.KeyR,
	glfw.KeyW:      window.KeyW,
}

var buttons = map[glfw.MouseButton]window.Button{
	glfw.MouseButtonLeft:   window.ButtonLeft,
	glfw.MouseButtonRight:  window.ButtonRight,
	glfw.MouseButtonMiddle: window.ButtonMiddle,
}

// Window is a GLFW window with a current GL 3.3 core context.
type Window struct {
	glw   *glfw.Window
	input window.Tracker
	gl    gl.OpenGL
}

var _ window.Window = (*Window)(nil)

// New creates a window and makes its context current on the calling thread.
func New(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	glw, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	glw.MakeContextCurrent()
	glfw.SwapInterval(opts.SwapInterval)

	w := &Window{glw: glw}
	glw.SetKeyCallback(w.keyEvent)
	glw.SetMouseButtonCallback(w.mouseButtonEvent)
	return w, nil
}

func (w *Window) keyEvent(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k, ok := keys[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		w.input.KeyPressed(k)
	case glfw.Release:
		w.input.KeyReleased(k)
	case glfw.Repeat:
		w.input.KeyRepeated(k)
	}
}

func (w *Window) mouseButtonEvent(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := buttons[button]
	if !ok {
		return
	}
	if action == glfw.Release {
		w.input.ButtonReleased(b)
	} else {
		w.input.ButtonPressed(b)
	}
}

// GL loads the entry points of the window's context. The result is cached.
func (w *Window) GL() (gl.OpenGL, error) {
	if w.gl != nil {
		return w.gl, nil
	}
	ctx, err := gl.Load(glfw.GetProcAddress)
	if err != nil {
		return nil, err
	}
	w.gl = ctx
	return ctx, nil
}

func (w *Window) Close() {
	w.glw.Destroy()
	glfw.Terminate()
}

func (w *Window) Poll() bool {
	glfw.PollEvents()
	w.input.Advance()
	return !w.glw.ShouldClose()
}

func (w *Window) Swap() {
	w.glw.SwapBuffers()
}

// BackingSize returns the framebuffer size in pixels.
func (w *Window) BackingSize() (int, int) {
	return w.glw.GetFramebufferSize()
}

// Cursor returns the cursor position in framebuffer pixels.
func (w *Window) Cursor() (float32, float32) {
	x, y := w.glw.GetCursorPos()
	s := w.Scale()
	return float32(x) * s, float32(y) * s
}

// Scale is the ratio of framebuffer pixels to window coordinates.
func (w *Window) Scale() float32 {
	fw, _ := w.glw.GetFramebufferSize()
	ww, _ := w.glw.GetSize()
	if ww == 0 {
		return 1
	}
	return float32(fw) / float32(ww)
}

func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) GetKeyState(key window.Key) window.KeyState {
	return w.input.KeyState(key)
}

func (w *Window) GetButtonState(button window.Button) window.ButtonState {
	return w.input.ButtonState(button)
}
