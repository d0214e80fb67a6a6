package conic

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by Solve.
type Metrics struct {
	solves   *prometheus.CounterVec
	errors   prometheus.Counter
	duration prometheus.Histogram
	nonzeros prometheus.Gauge
	coneRows prometheus.Gauge
}

// NewMetrics creates the solve collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goconic",
				Name:      "solve_total",
				Help:      "Total number of completed solves by termination status",
			},
			[]string{"termination"},
		),
		errors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "goconic",
				Name:      "solve_errors_total",
				Help:      "Total number of solves that returned an error",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "goconic",
				Name:      "solve_duration_seconds",
				Help:      "Duration of the external solve call in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		nonzeros: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "goconic",
				Name:      "problem_nonzeros",
				Help:      "Nonzeros of the constraint matrix of the last solved problem",
			},
		),
		coneRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "goconic",
				Name:      "problem_cone_rows",
				Help:      "Cone dimension of the last solved problem",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.solves, m.errors, m.duration, m.nonzeros, m.coneRows)
	}
	return m
}

func (m *Metrics) observeProblem(p *Problem) {
	if m == nil {
		return
	}
	m.nonzeros.Set(float64(p.A.NNZ()))
	m.coneRows.Set(float64(p.A.Cols))
}

func (m *Metrics) observeSolve(term TerminationStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(term.String()).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) observeError() {
	if m == nil {
		return
	}
	m.errors.Inc()
}
