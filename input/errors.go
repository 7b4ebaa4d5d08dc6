package input

import (
	"errors"
	"fmt"
)

// ErrFatalInput is matched by every *Error.
var ErrFatalInput = errors.New("fatal input error")

// Error describes an unusable input file or record.
type Error struct {
	Source string
	// Line is the 1-based line number, or 0 when the error concerns the
	// whole source.
	Line   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, msg)
}

// Is reports whether target is ErrFatalInput.
func (e *Error) Is(target error) bool { return target == ErrFatalInput }

func (e *Error) Unwrap() error { return e.Err }

func lineErr(source string, line int, format string, args ...any) *Error {
	return &Error{Source: source, Line: line, Reason: fmt.Sprintf(format, args...)}
}
