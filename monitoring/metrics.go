package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions.
var (
	// taskExecutionsTotal counts task executions that completed normally.
	taskExecutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brobot_monitoring_task_executions_total",
		Help: "Total number of monitoring task executions that completed without panicking",
	})

	// taskFailuresTotal counts task executions that panicked.
	taskFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brobot_monitoring_task_failures_total",
		Help: "Total number of monitoring task executions that panicked",
	})
)
