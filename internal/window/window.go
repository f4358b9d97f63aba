package window

import "github.com/tinyrange/learngl/internal/gl"

// Window is a native window with a current OpenGL 3.3 core context.
type Window interface {
	GL() (gl.OpenGL, error)
	Close()
	// Poll processes pending events and reports whether the window is still open.
	Poll() bool
	Swap()
	BackingSize() (width, height int)
	Cursor() (x, y float32)
	Scale() float32
	// Time returns seconds since the window was created.
	Time() float64
	GetKeyState(key Key) KeyState
	GetButtonState(button Button) ButtonState
}
