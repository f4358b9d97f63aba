package graphics

import (
	"errors"
	"image"

	"github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/window"
)

type Color [4]float32

var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
	// ColorTeal is the clear colour used throughout the lessons.
	ColorTeal = Color{0.2, 0.3, 0.3, 1}
)

// ErrStop may be returned from a Loop step to end the loop without error.
var ErrStop = errors.New("graphics: stop")

type Frame interface {
	WindowSize() (width, height int)
	CursorPos() (x, y float32)
	// Time returns seconds since the window was created.
	Time() float64

	GetKeyState(key window.Key) window.KeyState
	GetButtonState(button window.Button) window.ButtonState

	// Screenshot reads back the framebuffer as drawn so far this frame.
	Screenshot() (image.Image, error)

	GL() gl.OpenGL
}

type Window interface {
	// Return the platform-specific window implementation.
	PlatformWindow() window.Window

	GL() gl.OpenGL

	SetClear(enabled bool)
	SetClearColor(c Color)
	SetWireframe(enabled bool)

	// Call f for each frame until it returns an error, the window is
	// closed, or Escape is pressed.
	Loop(func(f Frame) error) error

	// Close destroys the platform window. GL objects must be released first.
	Close()
}
