package graph

import (
	"sync"

	"github.com/jspinak/brobot-go/state"
)

// JointTable is the reverse reachability index over the registered
// transitions: for every state, which states can reach it (incoming) and
// which states it can reach (outgoing). A multi-hop path search reads this
// index together with each transition's path cost.
type JointTable struct {
	mu       sync.RWMutex
	incoming map[state.ID]map[state.ID]struct{}
	outgoing map[state.ID]map[state.ID]struct{}
}

// NewJointTable creates an empty index.
func NewJointTable() *JointTable {
	return &JointTable{
		incoming: make(map[state.ID]map[state.ID]struct{}),
		outgoing: make(map[state.ID]map[state.ID]struct{}),
	}
}

// Add records that a transition from one state activates another.
func (j *JointTable) Add(to, from state.ID) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.addLocked(to, from)
}

func (j *JointTable) addLocked(to, from state.ID) {
	if j.incoming[to] == nil {
		j.incoming[to] = make(map[state.ID]struct{})
	}

	j.incoming[to][from] = struct{}{}

	if j.outgoing[from] == nil {
		j.outgoing[from] = make(map[state.ID]struct{})
	}

	j.outgoing[from][to] = struct{}{}
}

// PopulateFrom rebuilds the index from every transition set in the store.
// Arrival-verification transitions do not contribute edges; they point at
// their own state by convention.
func (j *JointTable) PopulateFrom(store *Store) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.clearLocked()

	for _, ts := range store.All() {
		for _, t := range ts.Transitions() {
			for _, to := range t.Activate() {
				j.addLocked(to, ts.StateID)
			}
		}
	}
}

// StatesWithTransitionsTo returns every state that has a transition into any
// of the given states.
func (j *JointTable) StatesWithTransitionsTo(ids ...state.ID) []state.ID {
	j.mu.RLock()
	defer j.mu.RUnlock()

	parents := make(map[state.ID]struct{})

	for _, id := range ids {
		for from := range j.incoming[id] {
			parents[from] = struct{}{}
		}
	}

	return collect(parents)
}

// StatesWithTransitionsFrom returns every state reachable in one hop from any
// of the given states.
func (j *JointTable) StatesWithTransitionsFrom(ids ...state.ID) []state.ID {
	j.mu.RLock()
	defer j.mu.RUnlock()

	children := make(map[state.ID]struct{})

	for _, id := range ids {
		for to := range j.outgoing[id] {
			children[to] = struct{}{}
		}
	}

	return collect(children)
}

// IncomingFor returns the states with a transition into the given state.
func (j *JointTable) IncomingFor(id state.ID) []state.ID {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return collect(j.incoming[id])
}

// OutgoingFor returns the states the given state can reach in one hop.
func (j *JointTable) OutgoingFor(id state.ID) []state.ID {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return collect(j.outgoing[id])
}

// Clear empties the index.
func (j *JointTable) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.clearLocked()
}

func (j *JointTable) clearLocked() {
	j.incoming = make(map[state.ID]map[state.ID]struct{})
	j.outgoing = make(map[state.ID]map[state.ID]struct{})
}

func collect(set map[state.ID]struct{}) []state.ID {
	ids := make([]state.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	return ids
}
