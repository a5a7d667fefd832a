package service

import (
	"log/slog"

	"fieldpos/internal/events"
	salemetrics "fieldpos/internal/sale/metrics"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *salemetrics.Metrics
	tx        StoreTx
	customers CustomerDirectory
	branches  BranchDirectory
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

func WithMetrics(m *salemetrics.Metrics) Option {
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

// WithCustomerDirectory enables customer-reference validation on sale
// creation. Without it, customer references are stored unchecked.
func WithCustomerDirectory(customers CustomerDirectory) Option {
	return func(c *serviceConfig) {
		c.customers = customers
	}
}

// WithBranchDirectory enables branch-reference validation on sale creation.
func WithBranchDirectory(branches BranchDirectory) Option {
	return func(c *serviceConfig) {
		c.branches = branches
	}
}
