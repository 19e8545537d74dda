// Package editorerr defines the closed error taxonomy shared by every
// component a RedCall response can surface an error from: buffers, the
// pane tree, file linkage, and the scheduler. It sits at the bottom of the
// dependency graph so buffer, paneset, and redcall can all depend on it
// without creating an import cycle.
package editorerr

import "fmt"

// Kind is one of the closed set of error categories a RedCall response
// can carry.
type Kind string

const (
	InvalidBuffer    Kind = "invalid_buffer"
	InvalidPane      Kind = "invalid_pane"
	InvalidFile      Kind = "invalid_file"
	AlreadyLinked    Kind = "already_linked"
	NotLinked        Kind = "not_linked"
	OutOfBounds      Kind = "out_of_bounds"
	BoundaryViolation Kind = "boundary_violation"
	IoFailure        Kind = "io_failure"
	ScriptFault      Kind = "script_fault"
)

// Error is the concrete error type every RedCall handler returns. It
// implements the standard error interface so it composes with fmt.Errorf
// and errors.Is/As the way the rest of the codebase expects.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New constructs an Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
