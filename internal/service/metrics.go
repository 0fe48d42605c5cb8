package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts compliance computations. A nil *Metrics records nothing.
type Metrics struct {
	computations     *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	workersEvaluated prometheus.Counter
}

// NewMetrics creates the compliance collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compliance_computations_total",
				Help: "Total number of compliance computations by scope and outcome.",
			},
			[]string{"scope", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compliance_computation_duration_seconds",
				Help:    "Wall time of a compliance computation, fetches included.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		workersEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compliance_workers_evaluated_total",
			Help: "Total number of worker summaries computed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.computations, m.duration, m.workersEvaluated} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(scope string, started time.Time, workers int, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.computations.WithLabelValues(scope, outcome).Inc()
	m.duration.WithLabelValues(scope).Observe(time.Since(started).Seconds())
	if err == nil {
		m.workersEvaluated.Add(float64(workers))
	}
}
