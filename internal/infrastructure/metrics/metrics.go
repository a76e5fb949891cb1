package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "langpack"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the formula execution collectors
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cells       *prometheus.CounterVec
}

// New creates and registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formula_invocations_total",
			Help:      "Number of formula invocations by formula and outcome.",
		}, []string{"formula", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "formula_duration_seconds",
			Help:      "Formula execution latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"formula"}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "column_format_cells_total",
			Help:      "Number of cells evaluated by column formats.",
		}, []string{"column_format"}),
	}

	reg.MustRegister(m.invocations, m.duration, m.cells)
	return m
}

// ObserveInvocation records one formula invocation
func (m *Metrics) ObserveInvocation(formula string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.invocations.WithLabelValues(formula, outcome).Inc()
	m.duration.WithLabelValues(formula).Observe(elapsed.Seconds())
}

// ObserveCells records cells evaluated by a column format
func (m *Metrics) ObserveCells(columnFormat string, count int) {
	if m == nil {
		return
	}
	m.cells.WithLabelValues(columnFormat).Add(float64(count))
}
