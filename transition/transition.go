// Package transition models the edges of the navigation graph: the units of
// work that move the automated application from one state toward others.
//
// Two variants implement StateTransition. TaskSequenceTransition wraps an
// ordered, declarative step sequence whose execution is delegated to an
// external runner. CodeTransition wraps an arbitrary boolean function supplied
// by the integrator. Both variants are grouped per source state in a
// StateTransitions container.
package transition

import (
	"context"

	"go.uber.org/atomic"

	"github.com/jspinak/brobot-go/state"
)

// StaysVisible controls whether the source state remains visible after a
// transition succeeds. StaysVisibleNone defers to the owning
// StateTransitions' default.
type StaysVisible int

const (
	StaysVisibleNone StaysVisible = iota
	StaysVisibleTrue
	StaysVisibleFalse
)

// String returns the enum name.
func (v StaysVisible) String() string {
	switch v {
	case StaysVisibleTrue:
		return "TRUE"
	case StaysVisibleFalse:
		return "FALSE"
	default:
		return "NONE"
	}
}

// StateTransition is one potential move in the state graph.
//
// Transitions are compared by reference identity; two transitions with
// identical fields are distinct edges.
type StateTransition interface {
	// Execute attempts the transition and reports whether it succeeded.
	// The function variant invokes its stored predicate and returns the
	// result verbatim; a panic inside the predicate propagates to the
	// caller. The declarative variant does not run its steps here; an
	// external step runner owns that.
	Execute(ctx context.Context) (bool, error)

	// Activate returns the IDs of states that become active after this
	// transition succeeds.
	Activate() []state.ID

	// Exit returns the IDs of states to consider no longer active after
	// this transition succeeds.
	Exit() []state.ID

	// CanActivate reports whether the given state is among this
	// transition's resolved activate targets.
	CanActivate(id state.ID) bool

	// StaysVisible returns the per-transition visibility override.
	StaysVisible() StaysVisible
	SetStaysVisible(v StaysVisible)

	// PathCost is the relative weight a path search uses to prefer cheaper
	// transitions; lower is better.
	PathCost() int
	SetPathCost(cost int)

	// TimesSuccessful counts successful executions. The counter is
	// incremented by the caller, never internally.
	TimesSuccessful() int64
	IncrementTimesSuccessful()
}

// base carries the fields shared by both transition variants.
type base struct {
	activate        map[state.ID]struct{}
	exit            map[state.ID]struct{}
	staysVisible    StaysVisible
	pathCost        int
	timesSuccessful atomic.Int64
}

func newBase() base {
	return base{
		activate: make(map[state.ID]struct{}),
		exit:     make(map[state.ID]struct{}),
		pathCost: 1,
	}
}

func (b *base) Activate() []state.ID {
	return idsOf(b.activate)
}

func (b *base) Exit() []state.ID {
	return idsOf(b.exit)
}

func (b *base) CanActivate(id state.ID) bool {
	_, ok := b.activate[id]

	return ok
}

func (b *base) SetActivate(ids ...state.ID) {
	b.activate = make(map[state.ID]struct{}, len(ids))
	for _, id := range ids {
		b.activate[id] = struct{}{}
	}
}

func (b *base) SetExit(ids ...state.ID) {
	b.exit = make(map[state.ID]struct{}, len(ids))
	for _, id := range ids {
		b.exit[id] = struct{}{}
	}
}

func (b *base) StaysVisible() StaysVisible {
	return b.staysVisible
}

func (b *base) SetStaysVisible(v StaysVisible) {
	b.staysVisible = v
}

func (b *base) PathCost() int {
	return b.pathCost
}

func (b *base) SetPathCost(cost int) {
	b.pathCost = cost
}

func (b *base) TimesSuccessful() int64 {
	return b.timesSuccessful.Load()
}

func (b *base) IncrementTimesSuccessful() {
	b.timesSuccessful.Inc()
}

func idsOf(set map[state.ID]struct{}) []state.ID {
	ids := make([]state.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	return ids
}
