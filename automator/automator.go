// Package automator drives the reactive automation loop: on every tick it
// asks the detector which states are visible, looks each one up in the
// transition graph, and hands the result to the state handler. It owns the
// run's lifecycle and converts any tick failure into a clean stop.
package automator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"

	"github.com/jspinak/brobot-go/control"
	"github.com/jspinak/brobot-go/graph"
	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/statemgmt"
)

const defaultPollInterval = time.Second

// Scheduler repeatedly invokes a task at a fixed interval while a condition
// holds. monitoring.MonitoringService satisfies it.
type Scheduler interface {
	StartContinuousTask(task func(), continueFn func() bool, interval time.Duration) bool
	Stop()
}

// Option configures a ReactiveAutomator.
type Option func(*ReactiveAutomator)

// WithPollInterval sets the tick interval. Defaults to one second.
func WithPollInterval(d time.Duration) Option {
	return func(a *ReactiveAutomator) {
		if d > 0 {
			a.pollInterval = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *ReactiveAutomator) {
		a.logger = logger
	}
}

// ReactiveAutomator is the automation control loop.
//
// Ticks are strictly sequential: the scheduler samples the continuation
// predicate only at tick boundaries and never overlaps executions, so the
// automator performs no internal concurrency and failure attribution stays
// unambiguous. Lifecycle methods may be called from any goroutine while a
// tick is in flight.
type ReactiveAutomator struct {
	detector  statemgmt.StateDetector
	store     *graph.Store
	states    state.Service
	handler   StateHandler
	scheduler Scheduler

	controller   *control.ExecutionController
	pollInterval time.Duration
	logger       *slog.Logger
	runID        atomic.String
}

// New wires a ReactiveAutomator from its collaborators.
func New(
	detector statemgmt.StateDetector,
	store *graph.Store,
	states state.Service,
	handler StateHandler,
	scheduler Scheduler,
	opts ...Option,
) *ReactiveAutomator {
	a := &ReactiveAutomator{
		detector:     detector,
		store:        store,
		states:       states,
		handler:      handler,
		scheduler:    scheduler,
		controller:   control.NewExecutionController(),
		pollInterval: defaultPollInterval,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start begins the automation loop. A no-op while already running; under a
// racing pair of Start calls only one scheduler registration happens, because
// the lifecycle move to Running is atomic and only its winner registers.
func (a *ReactiveAutomator) Start() {
	if !a.controller.Start() {
		a.logger.Debug("automation already running, start ignored")

		return
	}

	a.runID.Store(uuid.NewString())
	a.logger.Info("starting automation", "run_id", a.runID.Load(),
		"poll_interval", a.pollInterval)

	a.scheduler.StartContinuousTask(a.tick, a.notStopped, a.pollInterval)
}

// notStopped is the scheduler's continuation predicate. It stays true while
// paused: the task registration must survive a pause so Resume does not need
// to re-register, and the tick's own IsRunning guard skips the work. Only
// Stop makes the predicate go false and lets the scheduler tear down.
func (a *ReactiveAutomator) notStopped() bool {
	return a.controller.State() != control.Stopped
}

// Stop moves the lifecycle to Stopped and halts the scheduler. Idempotent. A
// tick already in flight runs to completion; the scheduler simply never
// starts another one.
func (a *ReactiveAutomator) Stop() {
	a.controller.Stop()
	a.scheduler.Stop()
	a.logger.Info("automation stopped", "run_id", a.runID.Load())
}

// Pause gates the loop off without touching the scheduled task: while paused,
// IsRunning is false and the tick's own guard skips the work, while the
// scheduler keeps the registration alive.
func (a *ReactiveAutomator) Pause() {
	if a.controller.Pause() {
		a.logger.Info("automation paused", "run_id", a.runID.Load())
	}
}

// Resume reopens the gate closed by Pause. No re-registration with the
// scheduler is needed.
func (a *ReactiveAutomator) Resume() {
	if a.controller.Resume() {
		a.logger.Info("automation resumed", "run_id", a.runID.Load())
	}
}

// Reset forces the lifecycle back to Idle so a subsequent Start can register
// a fresh run. By convention Stop is called first; Reset does not touch the
// scheduler.
func (a *ReactiveAutomator) Reset() {
	a.controller.Reset()
}

// IsRunning reports whether the loop is actively ticking (not paused, not
// stopped).
func (a *ReactiveAutomator) IsRunning() bool {
	return a.controller.IsRunning()
}

// IsPaused reports whether the loop is paused.
func (a *ReactiveAutomator) IsPaused() bool {
	return a.controller.IsPaused()
}

// State returns the lifecycle state.
func (a *ReactiveAutomator) State() control.ExecutionState {
	return a.controller.State()
}

// tick runs one iteration of the automation loop. Any error or panic from a
// collaborator is fatal to the run: it is caught here, at the tick boundary,
// converted into Stop, and never rethrown past the scheduler.
func (a *ReactiveAutomator) tick() {
	if !a.controller.IsRunning() {
		return
	}

	ctx, span := startTickSpan(context.Background(), a.runID.Load())
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrTickPanic, r)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			a.stopOnError(err)
		}
	}()

	tickStart := time.Now()

	err := a.runTick(ctx)

	tickDuration.Observe(time.Since(tickStart).Seconds())

	if err != nil {
		ticksTotal.WithLabelValues(outcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.stopOnError(err)

		return
	}

	ticksTotal.WithLabelValues(outcomeSuccess).Inc()
	span.SetStatus(codes.Ok, "completed")
}

func (a *ReactiveAutomator) runTick(ctx context.Context) error {
	active, err := a.detector.RefreshActiveStates()
	if err != nil {
		return &DetectorError{Err: err}
	}

	// A nil slice means the same as an empty one: nothing detected, the
	// loop keeps polling.
	for _, id := range active {
		transitions, ok := a.store.Get(id)
		if !ok {
			noTransitionTotal.Inc()
			a.handler.OnNoTransitionFound()

			continue
		}

		st, ok := a.states.State(id)
		if !ok {
			// The state disappeared between detection and lookup.
			// Stale data, not an error; skip without signaling.
			continue
		}

		stateCtx, stateSpan := startStateSpan(ctx, st)

		handled, err := a.handler.HandleState(stateCtx, st, transitions)

		if err != nil {
			stateSpan.RecordError(err)
			stateSpan.SetStatus(codes.Error, err.Error())
			stateSpan.End()

			return &HandlerError{StateID: st.ID, StateName: st.Name, Err: err}
		}

		stateSpan.SetStatus(codes.Ok, "completed")
		stateSpan.End()

		statesHandledTotal.WithLabelValues(handledResult(handled)).Inc()

		if !handled {
			a.logger.Debug("state handler declined state", "state", st.Name)
		}
	}

	return nil
}

// stopOnError halts the run after a fatal tick error. From the outside this
// looks identical to a deliberate Stop: IsRunning turns false and the
// scheduled task is cancelled, so callers can detect the halt by polling the
// lifecycle even without the error itself.
func (a *ReactiveAutomator) stopOnError(err error) {
	a.logger.Error("stopping automation after tick error",
		"run_id", a.runID.Load(), "error", err)
	fatalStopsTotal.Inc()
	a.Stop()
}
