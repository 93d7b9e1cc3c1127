package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptrouter"

var (
	initOnce sync.Once

	completionsTotal     *prometheus.CounterVec
	classificationsTotal *prometheus.CounterVec
	fallbacksTotal       prometheus.Counter
	breakerState         *prometheus.GaugeVec
	completionLatency    *prometheus.HistogramVec
)

func ensureMetrics() {
	initOnce.Do(func() {
		completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completions attempted per model, labelled by outcome.",
		}, []string{"model", "outcome"})

		classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Prompt classifications by category and source.",
		}, []string{"category", "source"})

		fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Completions served by a model other than the first ranked candidate.",
		})

		breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Circuit breaker state per model: 0 closed, 1 half-open, 2 open.",
		}, []string{"model"})

		completionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_latency_seconds",
			Help:      "Provider completion latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"model"})
	})
}

// RecordCompletion counts one completion attempt for a model; outcome is
// "success" or "failure".
func RecordCompletion(model, outcome string) {
	ensureMetrics()
	completionsTotal.WithLabelValues(model, outcome).Inc()
}

// RecordClassification counts one prompt classification.
func RecordClassification(category, source string) {
	ensureMetrics()
	classificationsTotal.WithLabelValues(category, source).Inc()
}

// RecordFallback counts a completion served by a non-primary candidate.
func RecordFallback() {
	ensureMetrics()
	fallbacksTotal.Inc()
}

// SetBreakerState publishes a breaker transition.
func SetBreakerState(model, state string) {
	ensureMetrics()
	var v float64
	switch state {
	case "half_open":
		v = 1
	case "open":
		v = 2
	}
	breakerState.WithLabelValues(model).Set(v)
}

// ObserveCompletionLatency records one completion round trip.
func ObserveCompletionLatency(model string, seconds float64) {
	ensureMetrics()
	completionLatency.WithLabelValues(model).Observe(seconds)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	ensureMetrics()
	return promhttp.Handler()
}
