// Package state defines the identity of an application screen or mode as seen
// by the navigation core. A State is an opaque, stable identifier plus a
// human-readable name; the navigation core never mutates one, it only keys
// maps by ID.
package state

// ID is the stable identifier of a state. IDs are assigned at registration
// time and never change for the lifetime of a run.
type ID int64

// NoID marks a state that has not been assigned an identifier yet, for example
// a code transition whose activate names have not been resolved.
const NoID ID = 0

// State is an identifiable screen or mode of the automated application.
type State struct {
	ID   ID
	Name string
}

// New creates a State with the given identity.
func New(id ID, name string) *State {
	return &State{ID: id, Name: name}
}

// Service resolves state identity. The navigation core consumes this
// boundary; integrators supply it, typically backed by a Store populated at
// configuration time.
type Service interface {
	// State returns the state for the given ID, or false if no such state
	// is registered.
	State(id ID) (*State, bool)

	// Name returns the registered name for the given ID, or the empty
	// string if unknown.
	Name(id ID) string

	// IDByName resolves a state name to its ID.
	IDByName(name string) (ID, bool)
}
