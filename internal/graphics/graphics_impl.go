package graphics

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/anthonynsimon/bild/transform"

	glpkg "github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/window"
)

type glWindow struct {
	platform window.Window
	gl       glpkg.OpenGL

	clearEnabled bool
	clearColor   Color
	wireframe    bool
}

type glFrame struct {
	w *glWindow
}

// Screenshot implements Frame.
func (f glFrame) Screenshot() (image.Image, error) {
	bw, bh := f.w.platform.BackingSize()
	if bw <= 0 || bh <= 0 {
		return nil, fmt.Errorf("screenshot: empty framebuffer %dx%d", bw, bh)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, bw, bh))
	f.w.gl.ReadPixels(0, 0, int32(bw), int32(bh), glpkg.RGBA, glpkg.UnsignedByte, unsafe.Pointer(&rgba.Pix[0]))

	// GL rows start at the bottom.
	return transform.FlipV(rgba), nil
}

// New wraps a platform window whose context is current on this thread.
func New(platform window.Window) (Window, error) {
	gl, err := platform.GL()
	if err != nil {
		return nil, err
	}

	gl.Enable(glpkg.Blend)
	gl.BlendFunc(glpkg.SrcAlpha, glpkg.OneMinusSrcAlpha)

	return &glWindow{
		platform:     platform,
		gl:           gl,
		clearEnabled: true,
		clearColor:   ColorBlack,
	}, nil
}

func (w *glWindow) PlatformWindow() window.Window {
	return w.platform
}

func (w *glWindow) GL() glpkg.OpenGL {
	return w.gl
}

func (w *glWindow) SetClear(enabled bool) {
	w.clearEnabled = enabled
}

func (w *glWindow) SetClearColor(c Color) {
	w.clearColor = c
}

func (w *glWindow) SetWireframe(enabled bool) {
	w.wireframe = enabled
}

func (w *glWindow) Close() {
	w.platform.Close()
}

func (w *glWindow) Loop(step func(f Frame) error) error {
	frame := glFrame{w: w}
	for w.platform.Poll() {
		if w.platform.GetKeyState(window.KeyEscape) == window.KeyStatePressed {
			return nil
		}

		w.prepareFrame()

		if err := step(frame); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}

		w.platform.Swap()
	}
	return nil
}

func (w *glWindow) prepareFrame() {
	bw, bh := w.platform.BackingSize()

	w.gl.Viewport(0, 0, int32(bw), int32(bh))
	if w.wireframe {
		w.gl.PolygonMode(glpkg.FrontAndBack, glpkg.Line)
	} else {
		w.gl.PolygonMode(glpkg.FrontAndBack, glpkg.Fill)
	}

	if w.clearEnabled {
		w.gl.ClearColor(w.clearColor[0], w.clearColor[1], w.clearColor[2], w.clearColor[3])
		w.gl.Clear(glpkg.ColorBufferBit)
	}
}

func (f glFrame) WindowSize() (int, int) {
	return f.w.platform.BackingSize()
}

func (f glFrame) CursorPos() (float32, float32) {
	return f.w.platform.Cursor()
}

func (f glFrame) Time() float64 {
	return f.w.platform.Time()
}

func (f glFrame) GetKeyState(key window.Key) window.KeyState {
	return f.w.platform.GetKeyState(key)
}

func (f glFrame) GetButtonState(button window.Button) window.ButtonState {
	return f.w.platform.GetButtonState(button)
}

func (f glFrame) GL() glpkg.OpenGL {
	return f.w.gl
}
