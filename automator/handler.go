package automator

import (
	"context"
	"log/slog"

	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/transition"
)

// StateHandler decides what to do with an active state and its transition
// set. The boolean result of HandleState is informational only; returning
// false does not stop the automation loop. Only an error (or a panic) escaping
// the handler is fatal to the run.
type StateHandler interface {
	HandleState(ctx context.Context, st *state.State, transitions *transition.StateTransitions) (bool, error)

	// OnNoTransitionFound is called when an active state has no entry in
	// the transition graph. Expected and non-fatal; the loop keeps polling.
	OnNoTransitionFound()
}

// DefaultStateHandler executes the first registered transition of the set and
// increments its success counter when execution reports true.
type DefaultStateHandler struct {
	logger *slog.Logger
}

var _ StateHandler = (*DefaultStateHandler)(nil)

// NewDefaultStateHandler creates a handler. A nil logger defaults to
// slog.Default().
func NewDefaultStateHandler(logger *slog.Logger) *DefaultStateHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultStateHandler{logger: logger}
}

// HandleState executes the first transition of the set. A set with no
// transitions reports false without error.
func (h *DefaultStateHandler) HandleState(
	ctx context.Context,
	st *state.State,
	transitions *transition.StateTransitions,
) (bool, error) {
	all := transitions.Transitions()
	if len(all) == 0 {
		h.logger.Debug("no transitions registered for state", "state", st.Name)

		return false, nil
	}

	t := all[0]

	ok, err := t.Execute(ctx)
	if err != nil {
		return false, err
	}

	if ok {
		t.IncrementTimesSuccessful()
	}

	return ok, nil
}

// OnNoTransitionFound logs the miss and moves on.
func (h *DefaultStateHandler) OnNoTransitionFound() {
	h.logger.Debug("active state has no transition set")
}

// loggingStateHandler wraps a StateHandler with logging around delegation. It
// never changes control flow: results and errors pass through untouched.
type loggingStateHandler struct {
	inner  StateHandler
	logger *slog.Logger
}

// NewLoggingStateHandler decorates a handler with structured logging.
// Integrators compose it around their own handler instead of relying on any
// cross-cutting interception mechanism.
func NewLoggingStateHandler(inner StateHandler, logger *slog.Logger) StateHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &loggingStateHandler{inner: inner, logger: logger}
}

func (h *loggingStateHandler) HandleState(
	ctx context.Context,
	st *state.State,
	transitions *transition.StateTransitions,
) (bool, error) {
	h.logger.Info("handling state", "state", st.Name, "state_id", int64(st.ID))

	ok, err := h.inner.HandleState(ctx, st, transitions)

	if err != nil {
		h.logger.Error("state handler failed", "state", st.Name, "error", err)
	} else {
		h.logger.Info("state handled", "state", st.Name, "success", ok)
	}

	return ok, err
}

func (h *loggingStateHandler) OnNoTransitionFound() {
	h.logger.Info("no transition found for active state")

	h.inner.OnNoTransitionFound()
}
