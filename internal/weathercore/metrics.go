package weathercore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instrumentation for the pipeline orchestrator.
// It mirrors the recorder shape the rest of the codebase uses elsewhere
// (operation/status counters plus duration histograms) but talks directly
// to client_golang rather than through an indirection layer, since this
// package owns its own registration.
type Metrics struct {
	observations     *prometheus.CounterVec
	observeDuration  *prometheus.HistogramVec
	conditionTotal   *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	fogScore         prometheus.Histogram
	cloudCoverPct    prometheus.Histogram
	stormProbability prometheus.Histogram
	warningsTotal    *prometheus.CounterVec
}

// NewMetrics constructs a Metrics instance and registers its collectors
// with reg. Passing a fresh prometheus.NewRegistry() in tests avoids
// colliding with the global default registerer across packages.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "observations_total",
			Help:      "Total Observe calls, partitioned by outcome.",
		}, []string{"status"}),
		observeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "observe_duration_seconds",
			Help:      "Wall-clock time spent inside Observe.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		conditionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "condition_total",
			Help:      "Count of final conditions emitted by the classifier, after hysteresis.",
		}, []string{"condition"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "condition_transitions_total",
			Help:      "Count of condition changes accepted by the hysteresis filter, by previous and new condition.",
		}, []string{"from", "to"}),
		fogScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "fog_score",
			Help:      "Distribution of the 0-100 fog score computed per observation.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		cloudCoverPct: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "cloud_cover_percent",
			Help:      "Distribution of the resolved cloud cover percentage.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		stormProbability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "storm_probability",
			Help:      "Distribution of the computed storm probability (0-100).",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		warningsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wxcore",
			Subsystem: "pipeline",
			Name:      "warnings_total",
			Help:      "Count of degraded-input warnings emitted by Observe, by warning code.",
		}, []string{"code"}),
	}

	collectors := []prometheus.Collector{
		m.observations, m.observeDuration, m.conditionTotal, m.transitions,
		m.fogScore, m.cloudCoverPct, m.stormProbability, m.warningsTotal,
	}
	for _, c := range collectors {
		if reg != nil {
			reg.MustRegister(c)
		}
	}
	return m
}

// RecordObservation records the outcome and latency of a single Observe
// call. Callers measure duration themselves (weathercore never reads the
// wall clock) and pass it in alongside the result.
func (m *Metrics) RecordObservation(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.observations.WithLabelValues(status).Inc()
	m.observeDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordInference records the derived signals of a successful observation.
func (m *Metrics) RecordInference(inf Inference, previous Condition, transitioned bool) {
	if m == nil {
		return
	}
	m.conditionTotal.WithLabelValues(string(inf.Condition)).Inc()
	if transitioned {
		m.transitions.WithLabelValues(string(previous), string(inf.Condition)).Inc()
	}
	m.fogScore.Observe(float64(inf.FogScore))
	m.cloudCoverPct.Observe(inf.CloudCoverPct)
	m.stormProbability.Observe(inf.StormProbability)
	for _, w := range inf.Warnings {
		m.warningsTotal.WithLabelValues(string(w.Code)).Inc()
	}
}
