// Package metrics provides Prometheus counters for catalog operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProductsCreated  prometheus.Counter
	StockAdjustments prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ProductsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_products_created_total",
			Help: "Total number of products created",
		}),
		StockAdjustments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_stock_adjustments_total",
			Help: "Total number of manual stock adjustments",
		}),
	}
}

func (m *Metrics) IncrementProductsCreated() {
	m.ProductsCreated.Inc()
}

func (m *Metrics) IncrementStockAdjustments() {
	m.StockAdjustments.Inc()
}
