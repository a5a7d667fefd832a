package service

import (
	"log/slog"

	"fieldpos/internal/events"
	maintmetrics "fieldpos/internal/maintenance/metrics"
	"fieldpos/internal/notify"
	"fieldpos/internal/tracer"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *maintmetrics.Metrics
	tracer    tracer.Tracer
	tx        StoreTx
	customers CustomerDirectory
	branches  BranchDirectory
	sales     SaleDirectory
	staff     StaffDirectory
	notifier  notify.Notifier
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

func WithMetrics(m *maintmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithTracer traces contract operations and sweep runs. Defaults to a noop
// tracer when unset.
func WithTracer(t tracer.Tracer) Option {
	return func(c *serviceConfig) {
		c.tracer = t
	}
}

// WithStoreTx runs mutations inside the given transactional boundary.
// Defaults to an in-memory mutex when unset.
func WithStoreTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}

// WithCustomerDirectory enables customer-reference validation on contract
// creation. Without it, customer references are stored unchecked.
func WithCustomerDirectory(customers CustomerDirectory) Option {
	return func(c *serviceConfig) {
		c.customers = customers
	}
}

// WithBranchDirectory enables branch-reference validation on contract
// creation.
func WithBranchDirectory(branches BranchDirectory) Option {
	return func(c *serviceConfig) {
		c.branches = branches
	}
}

// WithSaleDirectory enables validation of the optional sale link on
// contract creation.
func WithSaleDirectory(sales SaleDirectory) Option {
	return func(c *serviceConfig) {
		c.sales = sales
	}
}

// WithStaffDirectory enables technician validation on contract creation and
// visit assignment.
func WithStaffDirectory(staff StaffDirectory) Option {
	return func(c *serviceConfig) {
		c.staff = staff
	}
}

// WithNotifier delivers expiry notifications from the sweep. Without it the
// sweep still expires contracts, silently.
func WithNotifier(n notify.Notifier) Option {
	return func(c *serviceConfig) {
		c.notifier = n
	}
}
