// Package statemgmt tracks which states the framework currently believes are
// active on screen, and defines the detection boundary the navigation core
// consumes.
package statemgmt

import (
	"sync"

	"github.com/jspinak/brobot-go/state"
)

// StateDetector reports which states are currently visible. Implementations
// wrap screen capture and image matching; the navigation core only consumes
// the result.
//
// A nil or empty slice means "nothing detected" and is valid; detection
// failures are reported through the error.
type StateDetector interface {
	RefreshActiveStates() ([]state.ID, error)
}

// StateMemory is the thread-safe set of states currently considered active.
// The detector writes it, the monitoring service reads it to gate
// state-conditional tasks.
type StateMemory struct {
	mu     sync.RWMutex
	active map[state.ID]struct{}
}

// NewStateMemory creates an empty StateMemory.
func NewStateMemory() *StateMemory {
	return &StateMemory{active: make(map[state.ID]struct{})}
}

// Add marks a state active.
func (m *StateMemory) Add(id state.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[id] = struct{}{}
}

// Remove marks a state no longer active.
func (m *StateMemory) Remove(id state.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.active, id)
}

// Replace swaps the whole active set for the given IDs.
func (m *StateMemory) Replace(ids []state.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = make(map[state.ID]struct{}, len(ids))
	for _, id := range ids {
		m.active[id] = struct{}{}
	}
}

// IsActive reports whether the given state is currently active.
func (m *StateMemory) IsActive(id state.ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.active[id]

	return ok
}

// ActiveStates returns the active IDs as a copy.
func (m *StateMemory) ActiveStates() []state.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]state.ID, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}

	return ids
}

// Clear empties the active set.
func (m *StateMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = make(map[state.ID]struct{})
}
