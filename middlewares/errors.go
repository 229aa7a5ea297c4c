package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is a panic recovered while serving one request.
type PanicError struct {
	Method string
	Path   string
	Value  any
	// Stack is nil when stack capture is disabled.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic serving %s %s: %v", e.Method, e.Path, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// AsPanicError reports whether err wraps a PanicError.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}
