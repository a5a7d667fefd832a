// Package metrics provides Prometheus instrumentation for the register.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SalesCompleted prometheus.Counter
	SalesVoided    prometheus.Counter
	SaleTotal      prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		SalesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_sales_completed_total",
			Help: "Total number of completed sales",
		}),
		SalesVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_sales_voided_total",
			Help: "Total number of voided sales",
		}),
		SaleTotal: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "fieldpos_sale_total_amount",
			Help: "Distribution of sale totals in tenant currency",
			// Register tickets run from pocket change to big-appliance
			// installs.
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

func (m *Metrics) ObserveSale(total float64) {
	m.SalesCompleted.Inc()
	m.SaleTotal.Observe(total)
}

func (m *Metrics) IncrementSalesVoided() {
	m.SalesVoided.Inc()
}
