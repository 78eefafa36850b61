// Package graph holds the registry that maps every state to its outgoing
// transitions, and the reverse reachability index a path search consumes.
//
// The registry is read on every automation tick and written at configuration
// time (or rarely, when the automated application teaches the framework a new
// state mid-run), so access is guarded by a read-write lock: one writer, many
// concurrent tick readers, never a half-updated view.
package graph

import (
	"sync"

	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/transition"
)

// Store maps state IDs to their transition sets. It is the single source of
// truth for "what can I do from here".
type Store struct {
	mu   sync.RWMutex
	repo map[state.ID]*transition.StateTransitions
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{repo: make(map[state.ID]*transition.StateTransitions)}
}

// Register validates the set and adds it to the registry. Registering a
// second set for the same state replaces the prior one; there are no merge
// semantics.
func (s *Store) Register(ts *transition.StateTransitions) error {
	if err := ts.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.repo[ts.StateID] = ts

	return nil
}

// Get returns the transition set registered for the given state.
func (s *Store) Get(id state.ID) (*transition.StateTransitions, bool) {
	if id == state.NoID {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.repo[id]

	return ts, ok
}

// AllStateIDs returns the IDs of every registered state.
func (s *Store) AllStateIDs() []state.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]state.ID, 0, len(s.repo))
	for id := range s.repo {
		ids = append(ids, id)
	}

	return ids
}

// AllTransitions returns every registered transition, including each set's
// arrival-verification transition.
func (s *Store) AllTransitions() []transition.StateTransition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []transition.StateTransition

	for _, ts := range s.repo {
		all = append(all, ts.Transitions()...)

		if finish := ts.TransitionFinish(); finish != nil {
			all = append(all, finish)
		}
	}

	return all
}

// All returns every registered transition set. The slice is a copy; the sets
// themselves are shared.
func (s *Store) All() []*transition.StateTransitions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sets := make([]*transition.StateTransitions, 0, len(s.repo))
	for _, ts := range s.repo {
		sets = append(sets, ts)
	}

	return sets
}

// DeleteAll empties the registry.
func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repo = make(map[state.ID]*transition.StateTransitions)
}
