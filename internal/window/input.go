package window

import "maps"

// Key represents a keyboard key. Only the keys the lessons react to are
// mapped; everything else reports KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyR
	KeyW
)

// Button represents a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

type KeyState int

const (
	// The key was pressed this frame
	KeyStatePressed KeyState = iota
	// The key is currently down
	KeyStateDown
	// The key was released this frame
	KeyStateReleased
	// The key is currently up
	KeyStateUp
	// The key is being held down (repeated)
	KeyStateRepeated
)

func (ks KeyState) IsDown() bool {
	return ks == KeyStatePressed || ks == KeyStateDown || ks == KeyStateRepeated
}

type ButtonState int

const (
	// The mouse button was pressed this frame
	ButtonStatePressed ButtonState = iota
	// The mouse button is currently down
	ButtonStateDown
	// The mouse button was released this frame
	ButtonStateReleased
	// The mouse button is currently up
	ButtonStateUp
)

type edge uint8

const (
	edgePress edge = 1 << iota
	edgeRelease
	edgeRepeat
)

// inputs tracks one kind of input. Events accumulate in pending and become
// visible when the frame advances, so a state holds for a whole frame.
type inputs[T comparable] struct {
	down    map[T]bool
	pending map[T]edge

	frameDown map[T]bool
	frame     map[T]edge
}

func (in *inputs[T]) event(k T, e edge) {
	if in.down == nil {
		in.down = map[T]bool{}
		in.pending = map[T]edge{}
	}
	switch e {
	case edgePress:
		in.down[k] = true
	case edgeRelease:
		in.down[k] = false
	}
	in.pending[k] |= e
}

func (in *inputs[T]) advance() {
	in.frame = in.pending
	in.frameDown = maps.Clone(in.down)
	in.pending = map[T]edge{}
}

func (in *inputs[T]) state(k T) (e edge, down bool) {
	return in.frame[k], in.frameDown[k]
}

// Tracker turns press, release and repeat events into per-frame key and
// button states. Platform callbacks feed it; Advance is called once per Poll
// after events have been processed.
type Tracker struct {
	keys    inputs[Key]
	buttons inputs[Button]
}

func (t *Tracker) KeyPressed(k Key) { t.keys.event(k, edgePress) }
func (t *Tracker) KeyReleased(k Key) { t.keys.event(k, edgeRelease) }
func (t *Tracker) KeyRepeated(k Key) { t.keys.event(k, edgeRepeat) }

func (t *Tracker) ButtonPressed(b Button) { t.buttons.event(b, edgePress) }
func (t *Tracker) ButtonReleased(b Button) { t.buttons.event(b, edgeRelease) }

// Advance starts a new frame.
func (t *Tracker) Advance() {
	t.keys.advance()
	t.buttons.advance()
}

// KeyState returns the state of k in the current frame. A key pressed and
// released within one frame reports KeyStatePressed for that frame and
// KeyStateUp afterwards.
func (t *Tracker) KeyState(k Key) KeyState {
	e, down := t.keys.state(k)
	switch {
	case e&edgePress != 0:
		return KeyStatePressed
	case e&edgeRelease != 0:
		return KeyStateReleased
	case e&edgeRepeat != 0 && down:
		return KeyStateRepeated
	case down:
		return KeyStateDown
	}
	return KeyStateUp
}

// ButtonState returns the state of b in the current frame.
func (t *Tracker) ButtonState(b Button) ButtonState {
	e, down := t.buttons.state(b)
	switch {
	case e&edgePress != 0:
		return ButtonStatePressed
	case e&edgeRelease != 0:
		return ButtonStateReleased
	case down:
		return ButtonStateDown
	}
	return ButtonStateUp
}
