// Package metrics provides Prometheus instrumentation for maintenance
// contracts and the expiry sweep.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ContractsCreated prometheus.Counter
	ContractsRenewed prometheus.Counter
	ContractsExpired prometheus.Counter
	VisitsCompleted  prometheus.Counter
	VisitsMissed     prometheus.Counter
	SweepDuration    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ContractsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_contracts_created_total",
			Help: "Total number of maintenance contracts created",
		}),
		ContractsRenewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_contracts_renewed_total",
			Help: "Total number of maintenance contract renewals",
		}),
		ContractsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_contracts_expired_total",
			Help: "Total number of contracts expired by the sweep",
		}),
		VisitsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_visits_completed_total",
			Help: "Total number of maintenance visits completed",
		}),
		VisitsMissed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_visits_missed_total",
			Help: "Total number of scheduled visits marked missed",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldpos_maintenance_sweep_duration_seconds",
			Help:    "Duration of expiry sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveSweep(expired, missed int, took time.Duration) {
	m.ContractsExpired.Add(float64(expired))
	m.VisitsMissed.Add(float64(missed))
	m.SweepDuration.Observe(took.Seconds())
}
