// Package metrics registers prometheus counters and histograms for engine outcomes
// (§11): operations scheduled and conflicts detected (counters), work centers affected
// per run and invocation latency (histograms), and failed invocations by error kind.
// Grounded on the general github.com/prometheus/client_golang registration idiom (NewCounterVec/NewHistogram + MustRegister) the retrieved corpus
// depends on via nmxmxh-inos_v1/kernel.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes the engine's prometheus instrumentation. A nil *Recorder is valid
// and every method is a no-op, so the engine never requires metrics to be wired.
type Recorder struct {
	operationsScheduled prometheus.Counter
	conflictsDetected   prometheus.Counter
	workCentersAffected prometheus.Histogram
	invocationSeconds   prometheus.Histogram
	invocationErrors    *prometheus.CounterVec
}

// NewRecorder creates and registers the engine's metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid polluting the default registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		operationsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scheduler",
			Name:      "operations_scheduled_total",
			Help:      "Total number of operations scheduled across all engine invocations.",
		}),
		conflictsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scheduler",
			Name:      "conflicts_detected_total",
			Help:      "Total number of scheduling conflicts detected.",
		}),
		workCentersAffected: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Name:      "work_centers_affected",
			Help:      "Distinct work centers touched per engine invocation.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		invocationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Name:      "invocation_duration_seconds",
			Help:      "Wall-clock duration of an engine invocation.",
			Buckets:   prometheus.DefBuckets,
		}),
		invocationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Name:      "invocation_errors_total",
			Help:      "Engine invocations that failed, labeled by error kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(r.operationsScheduled, r.conflictsDetected, r.workCentersAffected, r.invocationSeconds, r.invocationErrors)
	return r
}

// ObserveResult records a successful invocation's counts.
func (r *Recorder) ObserveResult(operationsScheduled, conflictsDetected, workCentersAffected int) {
	if r == nil {
		return
	}
	r.operationsScheduled.Add(float64(operationsScheduled))
	r.conflictsDetected.Add(float64(conflictsDetected))
	r.workCentersAffected.Observe(float64(workCentersAffected))
}

// ObserveError records a failed invocation, labeled by error kind.
func (r *Recorder) ObserveError(kind string) {
	if r == nil {
		return
	}
	r.invocationErrors.WithLabelValues(kind).Inc()
}

// Timer starts a latency observation; call the returned func when the invocation
// completes.
func (r *Recorder) Timer() func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.invocationSeconds.Observe(time.Since(start).Seconds())
	}
}
