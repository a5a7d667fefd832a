// Command events-tail follows the fieldpos event topics and prints every
// event as it arrives. It is a debugging aid for inspecting what
// downstream consumers see; point it at a dev broker, not production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fieldpos/internal/events"
	"fieldpos/internal/platform/kafka/consumer"
)

func main() {
	var (
		brokers    = flag.String("brokers", envOr("FIELDPOS_KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka broker addresses")
		group      = flag.String("group", "fieldpos-events-tail", "consumer group ID")
		aggregates = flag.String("aggregates", "", "comma-separated aggregate types to follow: tenant, sale, contract, visit (default all)")
		raw        = flag.Bool("raw", false, "print raw event JSON instead of one summary line per event")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	topics := topicsFor(*aggregates)
	if len(topics) == 0 {
		fmt.Fprintln(os.Stderr, "events-tail: no aggregates selected")
		os.Exit(1)
	}

	tail, err := consumer.New(consumer.Config{
		Brokers: *brokers,
		GroupID: *group,
		Topics:  topics,
	}, &printer{raw: *raw}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "events-tail: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("following %s on %s, Ctrl+C to stop\n", strings.Join(topics, ", "), *brokers)
	tail.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tail.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "events-tail: stop: %v\n", err)
		os.Exit(1)
	}
}

// topicsFor maps aggregate names to event topics. An empty list selects
// every aggregate with an event stream.
func topicsFor(list string) []string {
	names := []string{events.AggregateTenant, events.AggregateSale, events.AggregateContract, events.AggregateVisit}
	if strings.TrimSpace(list) != "" {
		names = strings.Split(list, ",")
	}
	topics := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			topics = append(topics, events.Topic(name))
		}
	}
	return topics
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printer writes one line per consumed event. It never returns an error:
// a tail should keep moving past records it cannot decode rather than
// hold the offset and see them again.
type printer struct {
	raw bool
}

func (p *printer) Handle(_ context.Context, msg *consumer.Message) error {
	if p.raw {
		fmt.Printf("%s\n", msg.Value)
		return nil
	}

	var event events.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		fmt.Printf("%s %s@%d undecodable: %v\n", time.Now().UTC().Format(time.RFC3339), msg.Topic, msg.Offset, err)
		return nil
	}

	line := fmt.Sprintf("%s %-30s %-24s aggregate=%s",
		event.OccurredAt.Format(time.RFC3339), msg.Topic, event.Type, event.AggregateID)
	if event.TenantID != "" {
		line += " tenant=" + event.TenantID
	}
	fmt.Println(line)
	return nil
}
