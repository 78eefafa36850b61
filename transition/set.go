package transition

import (
	"github.com/jspinak/brobot-go/state"
)

// StateTransitions groups every outgoing transition for one source state,
// plus the distinguished arrival-verification transition used to confirm that
// navigation into the state actually succeeded.
//
// Lookup is a linear scan of the ordered transition list; the first transition
// whose activate set contains the target wins. Callers who need priority
// ordering register transitions in priority order.
type StateTransitions struct {
	StateID   state.ID
	StateName string

	// StaysVisibleAfterTransition is the set-level visibility default,
	// consulted when a member transition's override is StaysVisibleNone.
	StaysVisibleAfterTransition bool

	transitions      []StateTransition
	transitionFinish StateTransition
}

// NewStateTransitions creates an empty transition set for the given state.
func NewStateTransitions(id state.ID, name string) *StateTransitions {
	return &StateTransitions{StateID: id, StateName: name}
}

// Add appends a transition to the ordered list. No de-duplication and no
// cycle validation happen here; Validate covers configuration-time checks.
func (s *StateTransitions) Add(t StateTransition) {
	s.transitions = append(s.transitions, t)
}

// AddFn appends a function transition built from the given predicate and
// activate target names.
func (s *StateTransitions) AddFn(fn func() bool, activateNames ...string) {
	s.Add(NewCodeTransitionBuilder().
		SetFunction(fn).
		AddToActivate(activateNames...).
		Build())
}

// Transitions returns the ordered transition list.
func (s *StateTransitions) Transitions() []StateTransition {
	return s.transitions
}

// TransitionFinish returns the arrival-verification transition, or nil.
func (s *StateTransitions) TransitionFinish() StateTransition {
	return s.transitionFinish
}

// SetTransitionFinish sets the arrival-verification transition.
func (s *StateTransitions) SetTransitionFinish(t StateTransition) {
	s.transitionFinish = t
}

// TransitionForTarget returns the transition that activates the given state.
//
// Arrival verification takes precedence: when the target is the owning state
// itself and a finish transition is present, the finish transition is returned
// regardless of any ordinary transition that happens to target the same
// state. Otherwise the ordered list is scanned and the first match wins.
func (s *StateTransitions) TransitionForTarget(id state.ID) (StateTransition, bool) {
	if id == state.NoID {
		return nil, false
	}

	if id == s.StateID && s.transitionFinish != nil {
		return s.transitionFinish, true
	}

	for _, t := range s.transitions {
		if t.CanActivate(id) {
			return t, true
		}
	}

	return nil, false
}

// TaskSequenceFor returns the declarative step descriptor of the transition
// that activates the given state, when that transition is the declarative
// variant.
func (s *StateTransitions) TaskSequenceFor(id state.ID) (*TaskSequence, bool) {
	t, ok := s.TransitionForTarget(id)
	if !ok {
		return nil, false
	}

	tst, ok := t.(*TaskSequenceTransition)
	if !ok {
		return nil, false
	}

	return tst.TaskSequenceOptional()
}

// StateStaysVisible reports whether the source state remains visible after
// transitioning to the given target. A transition-level override of
// StaysVisibleTrue or StaysVisibleFalse wins; StaysVisibleNone falls back to
// the set-level default. Unknown targets report false.
func (s *StateTransitions) StateStaysVisible(id state.ID) bool {
	t, ok := s.TransitionForTarget(id)
	if !ok {
		return false
	}

	switch t.StaysVisible() {
	case StaysVisibleTrue:
		return true
	case StaysVisibleFalse:
		return false
	default:
		return s.StaysVisibleAfterTransition
	}
}

// Validate checks configuration-time invariants: the set must carry a state
// ID, and no member transition may declare the owning state among its
// resolved activate targets. The arrival-verification transition is exempt;
// it is conventionally modeled as a transition to self.
func (s *StateTransitions) Validate() error {
	if s.StateID == state.NoID {
		return &ConfigError{StateID: s.StateID, StateName: s.StateName, Err: ErrNoStateID}
	}

	for _, t := range s.transitions {
		if t.CanActivate(s.StateID) {
			return &ConfigError{StateID: s.StateID, StateName: s.StateName, Err: ErrSelfActivation}
		}
	}

	return nil
}

// Builder assembles a StateTransitions fluently, mirroring how integrators
// declare a state's outgoing transitions in setup code.
type Builder struct {
	set *StateTransitions
}

// NewBuilder creates a builder for the named state. The state ID is assigned
// later, when the owning state is registered; until then the set is not
// routable. The arrival-verification transition defaults to one that always
// reports success.
func NewBuilder(stateName string) *Builder {
	set := NewStateTransitions(state.NoID, stateName)
	set.SetTransitionFinish(NewCodeTransition(func() bool { return true }))

	return &Builder{set: set}
}

// AddTransition appends a prepared transition.
func (b *Builder) AddTransition(t StateTransition) *Builder {
	b.set.Add(t)

	return b
}

// AddTransitionFn appends a function transition from a predicate and
// activate target names.
func (b *Builder) AddTransitionFn(fn func() bool, activateNames ...string) *Builder {
	b.set.AddFn(fn, activateNames...)

	return b
}

// SetTransitionFinish replaces the arrival-verification transition.
func (b *Builder) SetTransitionFinish(t StateTransition) *Builder {
	b.set.SetTransitionFinish(t)

	return b
}

// SetTransitionFinishFn replaces the arrival-verification transition with a
// function transition around the given predicate.
func (b *Builder) SetTransitionFinishFn(fn func() bool) *Builder {
	b.set.SetTransitionFinish(NewCodeTransition(fn))

	return b
}

// SetStaysVisibleAfterTransition sets the set-level visibility default.
func (b *Builder) SetStaysVisibleAfterTransition(stays bool) *Builder {
	b.set.StaysVisibleAfterTransition = stays

	return b
}

// Build returns the assembled set.
func (b *Builder) Build() *StateTransitions {
	return b.set
}
