// Package tracer provides a lightweight tracing abstraction shared by the
// service layer.
//
// Contract creation, the expiry sweep, and report generation fan out over
// several stores and side channels (notifications, events, caches), which
// makes them the operations worth tracing end to end. The interface here
// keeps the service code free of direct OpenTelemetry imports.
//
// Implementations:
//   - NoopTracer: for tests and unwired deployments (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span. Spans track one operation and can
// record errors and events.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes. The
	// returned context carries the span for child operations; the span
	// must be ended by calling Span.End().
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names instrumented by the services.
const (
	SpanContractCreate    = "maintenance.contract.create"
	SpanContractRenew     = "maintenance.contract.renew"
	SpanContractCancel    = "maintenance.contract.cancel"
	SpanSweep             = "maintenance.sweep"
	SpanSalesReport       = "report.sales"
	SpanMaintenanceReport = "report.maintenance"
	SpanSalesExport       = "report.sales.export"
)

// Attribute keys shared across spans.
const (
	AttrTenantID         = "tenant_id"
	AttrContractID       = "contract_id"
	AttrFrequency        = "frequency"
	AttrTotalVisits      = "total_visits"
	AttrRenewalCount     = "renewal_count"
	AttrCancelledVisits  = "cancelled_visits"
	AttrExpiredContracts = "expired_contracts"
	AttrMissedVisits     = "missed_visits"
	AttrFrom             = "from"
	AttrTo               = "to"
	AttrBranchID         = "branch_id"
	AttrCacheHit         = "cache_hit"
	AttrRowCount         = "row_count"
)

// Event names recorded inside spans.
const (
	EventContractExpired = "contract.expired"
)
