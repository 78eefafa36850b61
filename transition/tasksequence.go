package transition

import "context"

// ActionStep is one primitive action in a declarative transition, opaque to
// the navigation core. Action names and targets are interpreted by an
// external step runner.
type ActionStep struct {
	Action string
	Target string
	Params map[string]any
}

// TaskSequence is an ordered list of primitive actions describing a
// declarative transition. The navigation core stores and returns the
// descriptor; it never executes the steps itself.
type TaskSequence struct {
	Steps []ActionStep
}

// NewTaskSequence creates a TaskSequence from the given steps.
func NewTaskSequence(steps ...ActionStep) *TaskSequence {
	return &TaskSequence{Steps: steps}
}

// AddStep appends a step to the sequence.
func (t *TaskSequence) AddStep(step ActionStep) {
	t.Steps = append(t.Steps, step)
}

// TaskSequenceTransition is the declarative transition variant: it wraps a
// TaskSequence whose execution belongs to an external runner.
type TaskSequenceTransition struct {
	base
	sequence *TaskSequence
}

var _ StateTransition = (*TaskSequenceTransition)(nil)

// NewTaskSequenceTransition creates a declarative transition around the given
// sequence. A nil sequence is allowed; it yields a transition with no
// retrievable descriptor.
func NewTaskSequenceTransition(sequence *TaskSequence) *TaskSequenceTransition {
	return &TaskSequenceTransition{
		base:     newBase(),
		sequence: sequence,
	}
}

// Execute reports success without running any steps. Step execution is
// delegated wholesale to the external step runner, which receives the
// descriptor via TaskSequenceOptional.
func (t *TaskSequenceTransition) Execute(_ context.Context) (bool, error) {
	return true, nil
}

// TaskSequenceOptional returns the wrapped step descriptor, or false when the
// transition was created without one.
func (t *TaskSequenceTransition) TaskSequenceOptional() (*TaskSequence, bool) {
	if t.sequence == nil {
		return nil, false
	}

	return t.sequence, true
}
