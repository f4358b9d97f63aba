package shader

import (
	"errors"
	"fmt"
	"strings"
)

// Phase names the step of program assembly that failed.
type Phase int

const (
	PhaseVertexCompile Phase = iota + 1
	PhaseFragmentCompile
	PhaseLink
	PhaseValidate
)

func (p Phase) String() string {
	switch p {
	case PhaseVertexCompile:
		return "vertex compile"
	case PhaseFragmentCompile:
		return "fragment compile"
	case PhaseLink:
		return "link"
	case PhaseValidate:
		return "validate"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// CompileError reports a failed compile, link or validate step together with
// the driver's diagnostic text, bounded by MaxInfoLog.
type CompileError struct {
	Phase Phase
	// Name identifies the source (usually a file path); empty for literals.
	Name string
	Log  string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("shader: ")
	b.WriteString(e.Phase.String())
	b.WriteString(" failed")
	if e.Name != "" {
		fmt.Fprintf(&b, " (%s)", e.Name)
	}
	if log := strings.TrimSpace(e.Log); log != "" {
		b.WriteString(": ")
		b.WriteString(log)
	}
	return b.String()
}

// ReadError reports a shader source file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("shader: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// PhaseOf returns the phase of a CompileError anywhere in err's chain.
func PhaseOf(err error) (Phase, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Phase, true
	}
	return 0, false
}
