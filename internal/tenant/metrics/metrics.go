package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TenantsCreated    prometheus.Counter
	BranchesCreated   prometheus.Counter
	GateCheckDuration prometheus.Histogram
	GateCacheHits     prometheus.Counter
	GateCacheMisses   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TenantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_tenants_created_total",
			Help: "Total number of tenants onboarded",
		}),
		BranchesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_branches_created_total",
			Help: "Total number of branches created",
		}),
		GateCheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldpos_tenant_gate_check_duration_seconds",
			Help:    "Duration of tenant status checks (request hot path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_tenant_gate_cache_hits_total",
			Help: "Tenant status checks answered from cache",
		}),
		GateCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_tenant_gate_cache_misses_total",
			Help: "Tenant status checks that fell through to the store",
		}),
	}
}

func (m *Metrics) IncrementTenantsCreated() {
	m.TenantsCreated.Inc()
}

func (m *Metrics) IncrementBranchesCreated() {
	m.BranchesCreated.Inc()
}

func (m *Metrics) ObserveGateCheck(start time.Time) {
	m.GateCheckDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementGateCacheHit() {
	m.GateCacheHits.Inc()
}

func (m *Metrics) IncrementGateCacheMiss() {
	m.GateCacheMisses.Inc()
}
