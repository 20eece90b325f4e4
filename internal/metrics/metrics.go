package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalogcalc"

// Metrics holds the solver and challenge collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	problems          *prometheus.CounterVec
	attempts          *prometheus.CounterVec
	operationFailures *prometheus.CounterVec
	solveDuration     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		problems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problems_total",
				Help:      "Problems handled, by result.",
			},
			[]string{"result"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Solve attempts, by result.",
			},
			[]string{"result"},
		),
		operationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_failures_total",
				Help:      "Failed chain operations, by failure kind.",
			},
			[]string{"kind"},
		),
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Wall time of a full solve including retries.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.problems, m.attempts, m.operationFailures, m.solveDuration)
	return m
}

func (m *Metrics) ProblemHandled(result string) {
	if m == nil {
		return
	}
	m.problems.WithLabelValues(result).Inc()
}

func (m *Metrics) Attempt(ok bool) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(resultLabel(ok)).Inc()
}

func (m *Metrics) OperationFailed(kind string) {
	if m == nil {
		return
	}
	m.operationFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveSolve(d time.Duration) {
	if m == nil {
		return
	}
	m.solveDuration.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
