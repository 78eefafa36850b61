// Package control implements the lifecycle state machine guarding an
// automation run: Idle, Running, Paused, Stopped. The lifecycle is mutated
// from caller threads while ticks run on the scheduler's goroutine, so the
// state lives in a single atomic field and every move goes through a
// compare-and-swap against a legality table.
package control

import (
	"go.uber.org/atomic"
)

// ExecutionState is the lifecycle state of an automation run.
type ExecutionState int32

const (
	Idle ExecutionState = iota
	Running
	Paused
	Stopped
)

// String returns the state name.
func (s ExecutionState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Paused:
		return "PAUSED"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// legal lists the allowed lifecycle moves. Reset is handled separately; it
// forces Idle from any state.
var legal = map[ExecutionState]map[ExecutionState]bool{
	Idle:    {Running: true},
	Running: {Paused: true, Stopped: true},
	Paused:  {Running: true, Stopped: true},
	Stopped: {Running: true},
}

// ExecutionController owns the lifecycle state of one automation run. All
// methods are safe for concurrent use.
type ExecutionController struct {
	state atomic.Int32
}

// NewExecutionController creates a controller in the Idle state.
func NewExecutionController() *ExecutionController {
	return &ExecutionController{}
}

// State returns the current lifecycle state.
func (c *ExecutionController) State() ExecutionState {
	return ExecutionState(c.state.Load())
}

// IsRunning reports whether the lifecycle is in Running. It is false while
// Paused; pausing is a logical gate, not a scheduler-level suspension.
func (c *ExecutionController) IsRunning() bool {
	return c.State() == Running
}

// IsPaused reports whether the lifecycle is in Paused.
func (c *ExecutionController) IsPaused() bool {
	return c.State() == Paused
}

// Start moves Idle or Stopped to Running. It returns true only for the caller
// that actually performed the move, so racing Start calls agree on a single
// winner and at most one scheduler registration happens.
func (c *ExecutionController) Start() bool {
	return c.transition(Running, Idle, Stopped)
}

// Stop moves Running or Paused to Stopped. Stopping an already stopped or
// idle controller is a no-op.
func (c *ExecutionController) Stop() bool {
	return c.transition(Stopped, Running, Paused)
}

// Pause moves Running to Paused.
func (c *ExecutionController) Pause() bool {
	return c.transition(Paused, Running)
}

// Resume moves Paused back to Running.
func (c *ExecutionController) Resume() bool {
	return c.transition(Running, Paused)
}

// Reset forces the lifecycle to Idle regardless of the current state. Callers
// conventionally Stop first; Reset itself does not touch the scheduler.
func (c *ExecutionController) Reset() {
	c.state.Store(int32(Idle))
}

// transition CAS-loops the state from any of the given sources to the target.
// It returns false when the current state is not among the sources.
func (c *ExecutionController) transition(to ExecutionState, from ...ExecutionState) bool {
	for {
		current := ExecutionState(c.state.Load())

		allowed := false

		for _, f := range from {
			if current == f && legal[f][to] {
				allowed = true

				break
			}
		}

		if !allowed {
			return false
		}

		if c.state.CompareAndSwap(int32(current), int32(to)) {
			return true
		}
	}
}
