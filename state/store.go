package state

import (
	"sync"

	"go.uber.org/atomic"
)

// Store is an in-memory Service implementation. Registration happens at
// configuration time; lookups happen on every automation tick, so access is
// guarded by a read-write lock.
type Store struct {
	mu     sync.RWMutex
	byID   map[ID]*State
	byName map[string]ID
	nextID atomic.Int64
}

var _ Service = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[ID]*State),
		byName: make(map[string]ID),
	}
}

// Save registers a state. A state without an ID is assigned the next free one.
// Saving a state whose ID is already registered replaces the prior entry. When
// two states share a name, IDByName keeps resolving to the first one
// registered.
func (s *Store) Save(st *State) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.ID == NoID {
		st.ID = ID(s.nextID.Inc())
	}

	s.byID[st.ID] = st

	if _, taken := s.byName[st.Name]; !taken {
		s.byName[st.Name] = st.ID
	}

	return st.ID
}

// State returns the state for the given ID.
func (s *Store) State(id ID) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[id]

	return st, ok
}

// Name returns the registered name for the given ID, or "" if unknown.
func (s *Store) Name(id ID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[id]
	if !ok {
		return ""
	}

	return st.Name
}

// IDByName resolves a state name to its ID.
func (s *Store) IDByName(name string) (ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]

	return id, ok
}

// All returns every registered state. The slice is a copy; mutating it does
// not affect the store.
func (s *Store) All() []*State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]*State, 0, len(s.byID))
	for _, st := range s.byID {
		states = append(states, st)
	}

	return states
}

// DeleteAll removes every registered state. ID assignment restarts from 1.
func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[ID]*State)
	s.byName = make(map[string]ID)
	s.nextID.Store(0)
}
