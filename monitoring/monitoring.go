// Package monitoring runs the repeated background task that drives an
// automation loop: execute a closure at a fixed interval for as long as a
// continuation predicate holds.
//
// One task at a time. Executions are serialized on a single-worker pool, so a
// slow task simply stretches the effective interval and Shutdown can drain an
// in-flight execution instead of abandoning it. A panicking task does not kill
// the scheduler; panics are recovered, counted, and only a run of consecutive
// failures stops the service.
package monitoring

import (
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/atomic"

	"github.com/jspinak/brobot-go/state"
	"github.com/jspinak/brobot-go/statemgmt"
)

const (
	defaultDelay                  = time.Second
	defaultMaxConsecutiveFailures = 5
)

// Option configures a MonitoringService.
type Option func(*MonitoringService)

// WithDefaultDelay sets the interval used when StartContinuousTask receives a
// non-positive one.
func WithDefaultDelay(d time.Duration) Option {
	return func(s *MonitoringService) {
		if d > 0 {
			s.defaultDelay = d
		}
	}
}

// WithMaxConsecutiveFailures sets how many consecutive panicking executions
// stop the service.
func WithMaxConsecutiveFailures(n int) Option {
	return func(s *MonitoringService) {
		if n > 0 {
			s.maxConsecutiveFailures = int32(n)
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *MonitoringService) {
		s.logger = logger
	}
}

// MonitoringService schedules one continuous background task.
type MonitoringService struct {
	memory *statemgmt.StateMemory
	logger *slog.Logger
	pool   pond.Pool

	defaultDelay           time.Duration
	maxConsecutiveFailures int32
	consecutiveFailures    atomic.Int32

	mu      sync.Mutex
	running bool
	cancel  chan struct{}
}

// NewMonitoringService creates a service. The state memory is consulted by
// MonitorStateAndExecute; it may be shared with the detector that maintains
// it.
func NewMonitoringService(memory *statemgmt.StateMemory, opts ...Option) *MonitoringService {
	s := &MonitoringService{
		memory:                 memory,
		logger:                 slog.Default(),
		pool:                   pond.NewPool(1),
		defaultDelay:           defaultDelay,
		maxConsecutiveFailures: defaultMaxConsecutiveFailures,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// StartContinuousTask begins executing task every interval for as long as
// continueFn reports true. The predicate is re-evaluated before every
// execution, so a caller-side stop takes effect on the next scheduling
// boundary without interrupting an in-flight execution.
//
// It returns false, without registering anything, when a task is already
// running. A non-positive interval uses the default delay.
func (s *MonitoringService) StartContinuousTask(task func(), continueFn func() bool, interval time.Duration) bool {
	if interval <= 0 {
		interval = s.defaultDelay
	}

	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		s.logger.Debug("monitoring task already running, ignoring new task")

		return false
	}

	s.running = true
	s.cancel = make(chan struct{})
	cancel := s.cancel
	s.consecutiveFailures.Store(0)
	s.mu.Unlock()

	go s.loop(task, continueFn, interval, cancel)

	return true
}

// MonitorStateAndExecute executes task every interval, but only while the
// target state is in the active-state memory. Monitoring itself continues
// indefinitely until Stop is called; the state merely gates each execution.
func (s *MonitoringService) MonitorStateAndExecute(target *state.State, task func(), interval time.Duration) bool {
	gated := func() {
		if s.memory != nil && s.memory.IsActive(target.ID) {
			task()
		}
	}

	return s.StartContinuousTask(gated, func() bool { return true }, interval)
}

// Stop halts scheduling. Idempotent; an in-flight execution runs to
// completion.
func (s *MonitoringService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	close(s.cancel)
}

// Shutdown stops scheduling and drains the worker pool. The service cannot be
// restarted afterward.
func (s *MonitoringService) Shutdown() {
	s.Stop()
	s.pool.StopAndWait()
}

// IsRunning reports whether a continuous task is currently scheduled.
func (s *MonitoringService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

func (s *MonitoringService) loop(task func(), continueFn func() bool, interval time.Duration, cancel chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !continueFn() {
				s.Stop()

				return
			}

			if !s.execute(task) {
				failures := s.consecutiveFailures.Inc()
				if failures >= s.maxConsecutiveFailures {
					s.logger.Error("stopping monitoring after consecutive task failures",
						"failures", failures)
					s.Stop()

					return
				}
			} else {
				s.consecutiveFailures.Store(0)
			}
		}
	}
}

// execute runs the task on the worker pool and reports whether it completed
// without panicking.
func (s *MonitoringService) execute(task func()) bool {
	ok := true

	s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				ok = false

				s.logger.Error("monitoring task panicked", "panic", r)
				taskFailuresTotal.Inc()
			}
		}()

		task()
		taskExecutionsTotal.Inc()
	}).Wait() //nolint:errcheck // Task outcome is tracked via the recover above.

	return ok
}
