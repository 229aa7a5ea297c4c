package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEmail   = errors.New("dispatch: invalid email address")
	ErrNoFolders      = errors.New("dispatch: no folders ingested")
	ErrAlreadyRunning = errors.New("dispatch: run already in progress")
	ErrNotRunning     = errors.New("dispatch: no run in progress")
	ErrNotPaused      = errors.New("dispatch: run is not paused")
	ErrStepPanic      = errors.New("dispatch: step panicked")
)

// invalidEmailMessage is the operator-facing banner text for a rejected start.
const invalidEmailMessage = "Por favor, informe um email válido antes de iniciar o processo."

// ValidationError rejects Start when the global email is malformed.
type ValidationError struct {
	Address string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidEmail.Error(), e.Address)
}

// Message returns the text shown to the operator.
func (e *ValidationError) Message() string {
	return invalidEmailMessage
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidEmail }
