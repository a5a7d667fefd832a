package events

import (
	"context"
	"encoding/json"
	"fmt"

	"fieldpos/internal/platform/kafka/producer"
	"fieldpos/pkg/requestcontext"
)

// kafkaProducer is the slice of the platform producer the publisher needs.
type kafkaProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaPublisher publishes events through the shared Kafka producer.
// Records are keyed by tenant so per-tenant ordering is preserved.
type KafkaPublisher struct {
	producer kafkaProducer
}

func NewKafkaPublisher(p kafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: p}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = requestcontext.Now(ctx)
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	// Events without a tenant (platform-level) key on the aggregate instead.
	key := []byte(event.TenantID)
	if len(key) == 0 {
		key = []byte(event.AggregateID)
	}

	msg := &producer.Message{
		Topic: Topic(event.AggregateType),
		Key:   key,
		Value: value,
		Headers: map[string]string{
			"event_type":     event.Type,
			"aggregate_type": event.AggregateType,
		},
	}

	if err := k.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}
