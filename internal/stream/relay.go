package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/weblarek/storefront/internal/config"
	"github.com/weblarek/storefront/internal/events"
)

// Relay is a wildcard broker subscriber that forwards every domain event
// to a Kafka topic for analytics. Writes are asynchronous so a slow
// broker never stalls the synchronous event delivery.
type Relay struct {
	logger *slog.Logger
	broker *events.Broker
	writer *kafka.Writer
	sub    events.Subscription
}

type envelope struct {
	Kind    events.Kind `json:"kind"`
	At      time.Time   `json:"at"`
	Payload any         `json:"payload"`
}

func NewRelay(logger *slog.Logger, cfg config.Kafka, broker *events.Broker) *Relay {
	r := &Relay{
		logger: logger.With(slog.String("component", "relay")),
		broker: broker,
	}
	r.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				r.logger.Error("failed to write events", slog.Int("count", len(messages)), slog.Any("error", err))
			}
		},
	}
	r.sub = broker.SubscribeAll(r.handle)
	return r
}

func (r *Relay) handle(e events.Event) {
	value, err := json.Marshal(envelope{
		Kind:    e.Kind(),
		At:      time.Now().UTC(),
		Payload: e,
	})
	if err != nil {
		r.logger.Error("failed to marshal event", slog.String("kind", string(e.Kind())), slog.Any("error", err))
		return
	}

	// Async writer: this only enqueues.
	if err := r.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(e.Kind()),
		Value: value,
	}); err != nil {
		r.logger.Error("failed to enqueue event", slog.String("kind", string(e.Kind())), slog.Any("error", err))
	}
}

func (r *Relay) Close() error {
	r.broker.Unsubscribe(r.sub)
	if err := r.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
