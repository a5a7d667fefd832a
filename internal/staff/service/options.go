package service

import (
	"log/slog"

	staffmetrics "fieldpos/internal/staff/metrics"
)

// serviceConfig holds optional dependencies for the staff service.
type serviceConfig struct {
	logger   *slog.Logger
	metrics  *staffmetrics.Metrics
	tx       StoreTx
	branches BranchDirectory
}

// Option configures the staff service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *staffmetrics.Metrics) Option {
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

// WithBranchDirectory enables branch-reference validation on staff
// assignment. Without it, branch IDs are accepted unchecked.
func WithBranchDirectory(branches BranchDirectory) Option {
	return func(c *serviceConfig) {
		c.branches = branches
	}
}
