package automator

import (
	"errors"
	"fmt"

	"github.com/jspinak/brobot-go/state"
)

// Predefined error types.
var (
	// ErrTickPanic indicates a panic escaped a collaborator during a tick.
	ErrTickPanic = errors.New("panic during automation tick")
)

// DetectorError wraps a failure from the state detector.
type DetectorError struct {
	Err error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("refresh active states: %v", e.Err)
}

func (e *DetectorError) Unwrap() error {
	return e.Err
}

// HandlerError wraps a failure from the state handler with the state that was
// being handled.
type HandlerError struct {
	StateID   state.ID
	StateName string
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handle state %s (%d): %v", e.StateName, e.StateID, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
