// Package metrics provides Prometheus instrumentation for report
// generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	ReportDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_report_cache_hits_total",
			Help: "Total number of sales summaries served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_report_cache_misses_total",
			Help: "Total number of sales summaries recomputed from the stores",
		}),
		ReportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fieldpos_report_duration_seconds",
			Help:    "Time spent assembling reports, by report kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"report"}),
	}
}

func (m *Metrics) ObserveReport(report string, start time.Time) {
	m.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	m.CacheMisses.Inc()
}
