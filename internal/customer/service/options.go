package service

import (
	"log/slog"
)

// serviceConfig holds optional dependencies for the service.
type serviceConfig struct {
	logger *slog.Logger
	tx     StoreTx
}

// Option configures the service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

// WithStoreTx runs mutations inside the given transactional boundary.
// Defaults to an in-memory mutex when unset.
func WithStoreTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}
