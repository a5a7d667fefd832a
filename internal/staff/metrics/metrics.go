package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	StaffCreated  prometheus.Counter
	LoginSuccess  prometheus.Counter
	LoginFailures prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		StaffCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_staff_created_total",
			Help: "Total number of staff accounts created",
		}),
		LoginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_login_success_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fieldpos_login_failures_total",
			Help: "Total number of rejected logins (bad credentials or disabled account)",
		}),
	}
}

func (m *Metrics) IncrementStaffCreated() {
	m.StaffCreated.Inc()
}

func (m *Metrics) IncrementLoginSuccess() {
	m.LoginSuccess.Inc()
}

func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailures.Inc()
}
