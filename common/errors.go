package common

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every package in the gallery. Callers wrap these with fmt.Errorf("...: %w")
// and match them with errors.Is.
var (
	// ErrConfiguration marks malformed dimensions or declarations detected at construction time.
	ErrConfiguration = errors.New("configuration error")

	// ErrLifecycle marks an operation invoked out of order, such as creating a GPU buffer twice.
	ErrLifecycle = errors.New("lifecycle error")

	// ErrNotReady marks use of a GPU resource before it was created.
	ErrNotReady = errors.New("resource not ready")

	// ErrEnvironment marks a missing platform capability (no adapter, no window surface, no MIDI driver).
	ErrEnvironment = errors.New("environment error")
)

// CompilationError describes the first error-level diagnostic produced while compiling a shader.
// It carries the 1-based line and column reported by the compiler and a labeled window of the
// surrounding source lines.
type CompilationError struct {
	// Label identifies the shader module that failed to compile.
	Label string

	// Line is the 1-based source line of the diagnostic, or 0 if the compiler did not report one.
	Line int

	// Column is the 1-based column of the diagnostic, or 0 if the compiler did not report one.
	Column int

	// Message is the compiler's diagnostic text.
	Message string

	// Context is the labeled source window around Line.
	Context string
}

func (e *CompilationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "shader %q failed to compile", e.Label)
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at %d:%d", e.Line, e.Column)
	}
	fmt.Fprintf(&sb, ": %s", e.Message)
	if e.Context != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Context)
	}
	return sb.String()
}
