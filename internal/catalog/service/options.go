package service

import (
	"log/slog"

	catalogmetrics "fieldpos/internal/catalog/metrics"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger  *slog.Logger
	metrics *catalogmetrics.Metrics
	tx      StoreTx
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *catalogmetrics.Metrics) Option {
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
