package transition

import (
	"context"

	"github.com/jspinak/brobot-go/state"
)

// NameResolver resolves state names to IDs. state.Service satisfies it.
type NameResolver interface {
	IDByName(name string) (state.ID, bool)
}

// CodeTransition is the function transition variant: arbitrary executable
// logic supplied by the integrator as a boolean predicate.
//
// Activate and exit targets are declared by state *name* at construction time
// and must be resolved to IDs via ResolveNames before the transition is
// routable by the graph.
type CodeTransition struct {
	base
	fn            func() bool
	activateNames []string
	exitNames     []string
}

var _ StateTransition = (*CodeTransition)(nil)

// NewCodeTransition creates a function transition around the given predicate.
// A nil predicate executes as a failed transition.
func NewCodeTransition(fn func() bool) *CodeTransition {
	return &CodeTransition{
		base: newBase(),
		fn:   fn,
	}
}

// Execute invokes the stored predicate and returns its result verbatim. A
// panic inside the predicate propagates to the caller; this layer does not
// swallow it.
func (t *CodeTransition) Execute(_ context.Context) (bool, error) {
	if t.fn == nil {
		return false, nil
	}

	return t.fn(), nil
}

// ActivateNames returns the declared activate target names.
func (t *CodeTransition) ActivateNames() []string {
	return t.activateNames
}

// ExitNames returns the declared exit target names.
func (t *CodeTransition) ExitNames() []string {
	return t.exitNames
}

// ResolveNames converts the declared activate and exit names to IDs using the
// given resolver. Names the resolver does not know stay unresolved and are
// reported via ErrUnresolvedName; the transition keeps whatever IDs did
// resolve.
func (t *CodeTransition) ResolveNames(resolver NameResolver) error {
	var firstErr error

	activate := make([]state.ID, 0, len(t.activateNames))

	for _, name := range t.activateNames {
		id, ok := resolver.IDByName(name)
		if !ok {
			if firstErr == nil {
				firstErr = WrapNameError(name, ErrUnresolvedName)
			}

			continue
		}

		activate = append(activate, id)
	}

	exit := make([]state.ID, 0, len(t.exitNames))

	for _, name := range t.exitNames {
		id, ok := resolver.IDByName(name)
		if !ok {
			if firstErr == nil {
				firstErr = WrapNameError(name, ErrUnresolvedName)
			}

			continue
		}

		exit = append(exit, id)
	}

	t.SetActivate(activate...)
	t.SetExit(exit...)

	return firstErr
}

// CodeTransitionBuilder assembles a CodeTransition fluently.
type CodeTransitionBuilder struct {
	transition *CodeTransition
}

// NewCodeTransitionBuilder creates a builder with a predicate that always
// fails, path cost 1, and no targets.
func NewCodeTransitionBuilder() *CodeTransitionBuilder {
	return &CodeTransitionBuilder{transition: NewCodeTransition(nil)}
}

// SetFunction sets the transition predicate.
func (b *CodeTransitionBuilder) SetFunction(fn func() bool) *CodeTransitionBuilder {
	b.transition.fn = fn

	return b
}

// AddToActivate declares activate targets by state name.
func (b *CodeTransitionBuilder) AddToActivate(names ...string) *CodeTransitionBuilder {
	b.transition.activateNames = append(b.transition.activateNames, names...)

	return b
}

// AddToExit declares exit targets by state name.
func (b *CodeTransitionBuilder) AddToExit(names ...string) *CodeTransitionBuilder {
	b.transition.exitNames = append(b.transition.exitNames, names...)

	return b
}

// SetStaysVisible sets the per-transition visibility override.
func (b *CodeTransitionBuilder) SetStaysVisible(v StaysVisible) *CodeTransitionBuilder {
	b.transition.SetStaysVisible(v)

	return b
}

// SetPathCost sets the relative path-finding cost.
func (b *CodeTransitionBuilder) SetPathCost(cost int) *CodeTransitionBuilder {
	b.transition.SetPathCost(cost)

	return b
}

// Build returns the assembled transition.
func (b *CodeTransitionBuilder) Build() *CodeTransition {
	return b.transition
}
