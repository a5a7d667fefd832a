// Package events publishes domain events to Kafka so downstream consumers
// (notification dispatch, reporting) react to state changes without coupling
// to the services that produce them.
package events

import (
	"context"
	"time"
)

// Aggregate types with event streams.
const (
	AggregateTenant   = "tenant"
	AggregateSale     = "sale"
	AggregateContract = "contract"
	AggregateVisit    = "visit"
)

// TopicPrefix namespaces event topics. The aggregate type is appended, so
// contract events land on "fieldpos.events.contract".
const TopicPrefix = "fieldpos.events"

// Topic returns the Kafka topic an aggregate's events are published on.
func Topic(aggregateType string) string {
	return TopicPrefix + "." + aggregateType
}

// Event is the envelope every domain event travels in. Payload carries the
// event-specific fields and must marshal to JSON.
type Event struct {
	Type          string    `json:"type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	TenantID      string    `json:"tenant_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	Payload       any       `json:"payload,omitempty"`
}

// Publisher delivers domain events to the event stream.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
