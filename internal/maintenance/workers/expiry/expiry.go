// Package expiry drives the maintenance sweep on a ticker. The sweep
// itself lives in the maintenance service; this worker owns only the
// schedule and failure logging.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fieldpos/internal/maintenance/service"
)

// Sweeper runs one maintenance sweep pass.
type Sweeper interface {
	Run(ctx context.Context) (*service.SweepResult, error)
}

// Service periodically expires ended contracts and marks overdue visits
// missed.
type Service struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *slog.Logger
}

// Option configures Service.
type Option func(*Service)

// WithInterval overrides the sweep interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger overrides the logger used for sweep errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs the worker with the required sweeper and options applied.
func New(sweeper Sweeper, opts ...Option) (*Service, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper is required")
	}
	svc := &Service{
		sweeper:  sweeper,
		interval: time.Hour,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs the sweep periodically until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "maintenance sweep failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep. The admin trigger and tests drive the
// same path the ticker does.
func (s *Service) RunOnce(ctx context.Context) (*service.SweepResult, error) {
	return s.sweeper.Run(ctx)
}
