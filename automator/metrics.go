package automator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metric definitions.
var (
	// ticksTotal counts automation ticks by outcome.
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brobot_automator_ticks_total",
		Help: "Total number of automation ticks by outcome (success or error)",
	}, []string{"outcome"})

	// tickDuration tracks per-tick wall time.
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brobot_automator_tick_duration_seconds",
		Help:    "Duration of one automation tick",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})

	// statesHandledTotal counts HandleState calls by handler result.
	statesHandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brobot_automator_states_handled_total",
		Help: "Total number of active states passed to the state handler, by result",
	}, []string{"result"})

	// noTransitionTotal counts active states that had no transition set.
	noTransitionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brobot_automator_no_transition_total",
		Help: "Total number of active states with no entry in the transition graph",
	})

	// fatalStopsTotal counts runs halted by a tick error.
	fatalStopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brobot_automator_fatal_stops_total",
		Help: "Total number of automation runs stopped by a fatal tick error",
	})
)

func handledResult(ok bool) string {
	if ok {
		return outcomeSuccess
	}

	return "declined"
}
