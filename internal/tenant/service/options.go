package service

import (
	"log/slog"

	"fieldpos/internal/events"
	tenantmetrics "fieldpos/internal/tenant/metrics"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger       *slog.Logger
	publisher    events.Publisher
	metrics      *tenantmetrics.Metrics
	tx           StoreTx
	staffCounter StaffCounter
	owners       OwnerProvisioner
	gate         *Gate
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithEventPublisher(publisher events.Publisher) Option {
	return func(c *serviceConfig) {
		c.publisher = publisher
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithStoreTx runs mutations inside the given transactional boundary.
// Defaults to an in-memory mutex when unset.
func WithStoreTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

func WithStaffCounter(counter StaffCounter) Option {
	return func(c *serviceConfig) {
		c.staffCounter = counter
	}
}

func WithOwnerProvisioner(owners OwnerProvisioner) Option {
	return func(c *serviceConfig) {
		c.owners = owners
	}
}

// WithGate lets status transitions invalidate the gate's cached entry so a
// suspension takes effect without waiting for the cache TTL.
func WithGate(gate *Gate) Option {
	return func(c *serviceConfig) {
		c.gate = gate
	}
}
