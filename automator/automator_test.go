package automator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspinak/brobot-go/control"
	"github.com/jspinak/brobot-go/graph"
	"github.com/jspinak/brobot-go/monitoring"
	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/transition"
)

const waitTimeout = 2 * time.Second

// fakeScheduler captures the task and continuation predicate so tests can
// drive ticks by hand, the way the real scheduler would.
type fakeScheduler struct {
	mu         sync.Mutex
	startCalls int
	stopCalls  int
	task       func()
	continueFn func() bool
	interval   time.Duration
}

func (s *fakeScheduler) StartContinuousTask(task func(), continueFn func() bool, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startCalls++
	s.task = task
	s.continueFn = continueFn
	s.interval = interval

	return true
}

func (s *fakeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopCalls++
}

func (s *fakeScheduler) runTick() {
	s.mu.Lock()
	task := s.task
	s.mu.Unlock()

	task()
}

func (s *fakeScheduler) counts() (started, stopped int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.startCalls, s.stopCalls
}

// fakeDetector returns a scripted active-state result.
type fakeDetector struct {
	mu      sync.Mutex
	refresh func() ([]state.ID, error)
	calls   int
}

func (d *fakeDetector) RefreshActiveStates() ([]state.ID, error) {
	d.mu.Lock()
	d.calls++
	refresh := d.refresh
	d.mu.Unlock()

	return refresh()
}

func (d *fakeDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.calls
}

func detectorReturning(ids ...state.ID) *fakeDetector {
	return &fakeDetector{refresh: func() ([]state.ID, error) { return ids, nil }}
}

// fakeHandler records every callback.
type fakeHandler struct {
	mu            sync.Mutex
	handled       []state.ID
	noTransitions int
	result        bool
	err           error
	panicWith     any
}

func (h *fakeHandler) HandleState(_ context.Context, st *state.State, _ *transition.StateTransitions) (bool, error) {
	h.mu.Lock()
	h.handled = append(h.handled, st.ID)
	h.mu.Unlock()

	if h.panicWith != nil {
		panic(h.panicWith)
	}

	return h.result, h.err
}

func (h *fakeHandler) OnNoTransitionFound() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.noTransitions++
}

func (h *fakeHandler) handledIDs() []state.ID {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]state.ID(nil), h.handled...)
}

func (h *fakeHandler) noTransitionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.noTransitions
}

type fixture struct {
	automator *ReactiveAutomator
	scheduler *fakeScheduler
	detector  *fakeDetector
	handler   *fakeHandler
	states    *state.Store
	graph     *graph.Store
}

func newFixture(t *testing.T, detector *fakeDetector) *fixture {
	t.Helper()

	f := &fixture{
		scheduler: &fakeScheduler{},
		detector:  detector,
		handler:   &fakeHandler{result: true},
		states:    state.NewStore(),
		graph:     graph.NewStore(),
	}

	f.automator = New(
		f.detector, f.graph, f.states, f.handler, f.scheduler,
		WithLogger(slogt.New(t)),
	)

	return f
}

// registerState adds a state and a transition set whose single transition
// activates the given target.
func (f *fixture) registerState(t *testing.T, id state.ID, name string, target state.ID) {
	t.Helper()

	f.states.Save(state.New(id, name))

	tr := transition.NewCodeTransition(func() bool { return true })
	tr.SetActivate(target)

	set := transition.NewStateTransitions(id, name)
	set.Add(tr)

	require.NoError(t, f.graph.Register(set))
}

func TestStartRegistersContinuousTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())

	f.automator.Start()

	started, _ := f.scheduler.counts()
	assert.Equal(t, 1, started)
	assert.Equal(t, time.Second, f.scheduler.interval)
	assert.NotNil(t, f.scheduler.task)
	assert.NotNil(t, f.scheduler.continueFn)
	assert.True(t, f.scheduler.continueFn())
	assert.True(t, f.automator.IsRunning())
}

func TestStartIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())

	f.automator.Start()
	f.automator.Start()

	started, _ := f.scheduler.counts()
	assert.Equal(t, 1, started)
}

func TestWithPollInterval(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())
	f.automator = New(
		f.detector, f.graph, f.states, f.handler, f.scheduler,
		WithLogger(slogt.New(t)), WithPollInterval(250*time.Millisecond),
	)

	f.automator.Start()

	assert.Equal(t, 250*time.Millisecond, f.scheduler.interval)
}

func TestStopHaltsSchedulerAndLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())

	f.automator.Start()
	f.automator.Stop()

	_, stopped := f.scheduler.counts()
	assert.Equal(t, 1, stopped)
	assert.False(t, f.automator.IsRunning())
	assert.False(t, f.scheduler.continueFn())
}

func TestTickAfterStopDoesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))

	f.automator.Start()
	f.automator.Stop()

	// The scheduler may still fire a tick it had already queued; the tick
	// must notice the lifecycle gate and touch nothing.
	f.scheduler.runTick()

	assert.Zero(t, f.detector.callCount())
	assert.Empty(t, f.handler.handledIDs())
}

func TestResetThenRestart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())

	f.automator.Start()
	f.automator.Stop()
	f.automator.Reset()
	assert.Equal(t, control.Idle, f.automator.State())

	f.automator.Start()

	started, _ := f.scheduler.counts()
	assert.Equal(t, 2, started)
	assert.True(t, f.automator.IsRunning())
}

func TestPauseAndResume(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))

	f.automator.Start()

	f.automator.Pause()
	assert.True(t, f.automator.IsPaused())
	assert.False(t, f.automator.IsRunning())

	// The registration survives the pause: the continuation predicate stays
	// true and the tick's own guard skips the work.
	assert.True(t, f.scheduler.continueFn())
	f.scheduler.runTick()
	assert.Zero(t, f.detector.callCount())

	f.automator.Resume()
	assert.False(t, f.automator.IsPaused())
	assert.True(t, f.automator.IsRunning())

	// Resume did not re-register with the scheduler.
	started, _ := f.scheduler.counts()
	assert.Equal(t, 1, started)
}

func TestTickHandlesActiveState(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))
	f.registerState(t, 1, "Home", 2)

	f.automator.Start()
	f.scheduler.runTick()

	assert.Equal(t, []state.ID{1}, f.handler.handledIDs())
	assert.Zero(t, f.handler.noTransitionCount())
	assert.True(t, f.automator.IsRunning())
}

func TestTickSignalsNoTransition(t *testing.T) {
	t.Parallel()

	// One active state with no entry in the graph.
	f := newFixture(t, detectorReturning(1))

	f.automator.Start()
	f.scheduler.runTick()

	assert.Equal(t, 1, f.handler.noTransitionCount())
	assert.Empty(t, f.handler.handledIDs())
	assert.True(t, f.automator.IsRunning())
}

func TestTickHandlesMultipleActiveStates(t *testing.T) {
	t.Parallel()

	// States 1 and 2 resolve to transitions, 3 does not.
	f := newFixture(t, detectorReturning(1, 2, 3))
	f.registerState(t, 1, "Home", 4)
	f.registerState(t, 2, "Sidebar", 5)

	f.automator.Start()
	f.scheduler.runTick()

	assert.ElementsMatch(t, []state.ID{1, 2}, f.handler.handledIDs())
	assert.Equal(t, 1, f.handler.noTransitionCount())
}

func TestTickSkipsStaleState(t *testing.T) {
	t.Parallel()

	// The graph knows state 1 but the state service does not: the state
	// disappeared between detection and lookup. Neither callback fires.
	f := newFixture(t, detectorReturning(1))

	set := transition.NewStateTransitions(1, "Ghost")
	tr := transition.NewCodeTransition(func() bool { return true })
	tr.SetActivate(2)
	set.Add(tr)
	require.NoError(t, f.graph.Register(set))

	f.automator.Start()
	f.scheduler.runTick()

	assert.Empty(t, f.handler.handledIDs())
	assert.Zero(t, f.handler.noTransitionCount())
	assert.True(t, f.automator.IsRunning())
}

func TestHandlerFalseIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))
	f.registerState(t, 1, "Home", 2)
	f.handler.result = false

	f.automator.Start()
	f.scheduler.runTick()

	assert.Equal(t, []state.ID{1}, f.handler.handledIDs())
	assert.True(t, f.automator.IsRunning())

	_, stopped := f.scheduler.counts()
	assert.Zero(t, stopped)
}

func TestDetectorErrorStopsRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeDetector{
		refresh: func() ([]state.ID, error) { return nil, assert.AnError },
	})

	f.automator.Start()
	require.True(t, f.automator.IsRunning())

	f.scheduler.runTick()

	assert.False(t, f.automator.IsRunning())
	assert.Equal(t, control.Stopped, f.automator.State())

	_, stopped := f.scheduler.counts()
	assert.Equal(t, 1, stopped)
}

func TestNilActiveStatesIsANoOpTick(t *testing.T) {
	t.Parallel()

	// A detector that found nothing idiomatically returns a nil slice; the
	// loop keeps polling.
	f := newFixture(t, &fakeDetector{
		refresh: func() ([]state.ID, error) { return nil, nil },
	})

	f.automator.Start()
	f.scheduler.runTick()

	assert.True(t, f.automator.IsRunning())
	assert.Empty(t, f.handler.handledIDs())
	assert.Zero(t, f.handler.noTransitionCount())

	_, stopped := f.scheduler.counts()
	assert.Zero(t, stopped)
}

func TestHandlerErrorStopsRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))
	f.registerState(t, 1, "Home", 2)
	f.handler.err = assert.AnError

	f.automator.Start()
	f.scheduler.runTick()

	assert.False(t, f.automator.IsRunning())

	_, stopped := f.scheduler.counts()
	assert.Equal(t, 1, stopped)
}

func TestHandlerPanicStopsRunCleanly(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning(1))
	f.registerState(t, 1, "Home", 2)
	f.handler.panicWith = "handler blew up"

	f.automator.Start()

	// The panic must not escape past the tick boundary.
	assert.NotPanics(t, f.scheduler.runTick)

	assert.False(t, f.automator.IsRunning())

	_, stopped := f.scheduler.counts()
	assert.Equal(t, 1, stopped)
}

func TestEmptyActiveStatesIsANoOpTick(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeDetector{
		refresh: func() ([]state.ID, error) { return []state.ID{}, nil },
	})

	f.automator.Start()
	f.scheduler.runTick()

	assert.True(t, f.automator.IsRunning())
	assert.Empty(t, f.handler.handledIDs())
	assert.Zero(t, f.handler.noTransitionCount())
}

func TestPauseResumeOnMonitoringService(t *testing.T) {
	t.Parallel()

	detector := detectorReturning()

	svc := monitoring.NewMonitoringService(nil, monitoring.WithLogger(slogt.New(t)))
	t.Cleanup(svc.Shutdown)

	a := New(
		detector, graph.NewStore(), state.NewStore(), &fakeHandler{result: true}, svc,
		WithLogger(slogt.New(t)), WithPollInterval(5*time.Millisecond),
	)

	a.Start()
	require.Eventually(t, func() bool {
		return detector.callCount() > 0
	}, waitTimeout, time.Millisecond)

	a.Pause()

	// Let a few intervals pass while paused; the scheduled task must stay
	// registered the whole time.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, svc.IsRunning())

	beforeResume := detector.callCount()

	a.Resume()
	require.Eventually(t, func() bool {
		return detector.callCount() > beforeResume
	}, waitTimeout, time.Millisecond)

	a.Stop()
	assert.False(t, svc.IsRunning())
}

func TestMultipleStartStopCycles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, detectorReturning())

	for range 3 {
		f.automator.Start()
		assert.True(t, f.automator.IsRunning())

		f.automator.Stop()
		assert.False(t, f.automator.IsRunning())

		f.automator.Reset()
	}

	started, stopped := f.scheduler.counts()
	assert.Equal(t, 3, started)
	assert.Equal(t, 3, stopped)
}
