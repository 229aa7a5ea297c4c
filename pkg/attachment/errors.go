package attachment

import (
	"errors"
	"fmt"
)

var (
	// ErrRead matches every *ReadError.
	ErrRead = errors.New("attachment: failed to read file")

	// ErrTooLarge is wrapped by a *ReadError when a file exceeds the size limit.
	ErrTooLarge = errors.New("attachment: file exceeds size limit")
)

// ReadError reports the file that could not be turned into an attachment.
type ReadError struct {
	Filename string
	Err      error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Filename, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ReadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRead) hold for every ReadError.
func (e *ReadError) Is(target error) bool { return target == ErrRead }
