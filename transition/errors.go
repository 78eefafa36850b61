package transition

import (
	"errors"
	"fmt"

	"github.com/jspinak/brobot-go/state"
)

// Predefined error types.
var (
	// ErrUnresolvedName indicates that a declared state name could not be
	// resolved to an ID.
	ErrUnresolvedName = errors.New("state name cannot be resolved to an id")
	// ErrSelfActivation indicates that a transition declares its own
	// source state as a target.
	ErrSelfActivation = errors.New("transition activates its own source state")
	// ErrNoStateID indicates that a transition set has no owning state ID.
	ErrNoStateID = errors.New("transition set has no state id")
)

// NameError wraps an error with the state name that caused it.
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	return fmt.Sprintf("state name %q: %v", e.Name, e.Err)
}

func (e *NameError) Unwrap() error {
	return e.Err
}

// WrapNameError wraps an error with state-name context.
func WrapNameError(name string, err error) error {
	return &NameError{Name: name, Err: err}
}

// ConfigError wraps a configuration-time error with the owning state's
// identity. Configuration errors are not recoverable runtime conditions; the
// graph refuses to register a set that carries one.
type ConfigError struct {
	StateID   state.ID
	StateName string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.StateName != "" {
		return fmt.Sprintf("state %s (%d): %v", e.StateName, e.StateID, e.Err)
	}

	return fmt.Sprintf("state %d: %v", e.StateID, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
