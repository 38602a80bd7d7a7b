package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysisTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheTotal    *prometheus.CounterVec
}

// New creates a recorder registered with the default registerer.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		analysisTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hurstlab_analysis_total",
				Help: "Total number of completed analysis runs",
			},
			[]string{"kind", "signal"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hurstlab_analysis_errors_total",
				Help: "Total number of failed analysis runs by error kind",
			},
			[]string{"kind", "error"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hurstlab_analysis_duration_seconds",
				Help:    "Duration of analysis runs in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind", "signal"},
		),
		cacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hurstlab_quote_cache_total",
				Help: "Quote cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordAnalysis records a completed run and its duration in seconds.
func (r *Recorder) RecordAnalysis(kind, signal string, seconds float64) {
	r.analysisTotal.WithLabelValues(kind, signal).Inc()
	r.duration.WithLabelValues(kind, signal).Observe(seconds)
}

// RecordError records a failed run.
func (r *Recorder) RecordError(kind, errKind string) {
	r.errorsTotal.WithLabelValues(kind, errKind).Inc()
}

// RecordCache records a quote cache lookup: hit, miss, or wait.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}
