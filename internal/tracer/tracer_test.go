package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopTracer(t *testing.T) {
	tr := NewNoop()
	ctx := context.Background()

	spanCtx, span := tr.Start(ctx, SpanSweep, String(AttrTenantID, "t1"))
	assert.Equal(t, ctx, spanCtx, "a noop span does not alter the context")

	// The span swallows everything without blowing up.
	span.SetAttributes(Int(AttrTotalVisits, 4))
	span.AddEvent(EventContractExpired, Int(AttrCancelledVisits, 2))
	span.End(errors.New("recorded nowhere"))
	span.End(nil)
}

func TestAttributeConstructors(t *testing.T) {
	assert.Equal(t, Attribute{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Attribute{Key: "k", Value: true}, Bool("k", true))
	assert.Equal(t, Attribute{Key: "k", Value: 7}, Int("k", 7))
	assert.Equal(t, Attribute{Key: "k", Value: int64(7)}, Int64("k", 7))
	assert.Equal(t, Attribute{Key: "k", Value: int64(1500)}, Duration("k", 1500*time.Millisecond),
		"durations are recorded in milliseconds")
}

func TestToOTelAttributes(t *testing.T) {
	got := toOTelAttributes([]Attribute{
		String(AttrTenantID, "t1"),
		Bool("partial", true),
		Int(AttrTotalVisits, 4),
		Int64("took_ms", 250),
		{Key: "ratio", Value: 0.5},
		{Key: "dropped", Value: struct{}{}}, // unsupported types are skipped
	})

	want := []attribute.KeyValue{
		attribute.String(AttrTenantID, "t1"),
		attribute.Bool("partial", true),
		attribute.Int64(AttrTotalVisits, 4),
		attribute.Int64("took_ms", 250),
		attribute.Float64("ratio", 0.5),
	}
	assert.Equal(t, want, got)

	assert.Nil(t, toOTelAttributes(nil))
}

func TestOTelTracer_DefaultProvider(t *testing.T) {
	// Without a configured provider the global tracer hands out
	// non-recording spans; the adapter must still be safe end to end.
	tr := NewOTel()
	ctx, span := tr.Start(context.Background(), SpanContractCreate, String(AttrContractID, "c1"))
	assert.NotNil(t, ctx)

	span.SetAttributes(Int(AttrTotalVisits, 4))
	span.AddEvent(EventContractExpired)
	span.End(errors.New("backend down"))
}
