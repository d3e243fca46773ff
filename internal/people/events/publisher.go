// Package events publishes committed person changes to Kafka.
//
// The publisher is registered as a post-commit hook on the people service.
// Records are buffered and delivered in the background, so a broker outage is
// logged and never fails or delays the write that triggered it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"persona/internal/people/service"
)

// HeaderEventType carries the change op so consumers can route without decoding.
const HeaderEventType = "event-type"

// Producer is the slice of *kgo.Client the publisher needs. TryProduce fails
// the record at once instead of blocking when the client buffer is full.
type Producer interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Event is the wire payload of a person change.
type Event struct {
	Type       string    `json:"type"`
	PersonID   string    `json:"person_id"`
	Entity     string    `json:"entity"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a publisher writing to topic.
func New(producer Producer, topic string, opts ...Option) (*Publisher, error) {
	if producer == nil {
		return nil, errors.New("producer is required")
	}
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	p := &Publisher{producer: producer, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish enqueues one record for change, keyed by person ID so a person's
// changes stay ordered within a partition. It matches service.Hook and returns
// without waiting for delivery; delivery failures are logged by the promise.
func (p *Publisher) Publish(ctx context.Context, change service.Change) error {
	value, err := json.Marshal(Event{
		Type:       string(change.Op),
		PersonID:   change.PersonID.String(),
		Entity:     string(change.Entity),
		OccurredAt: change.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode person event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(change.PersonID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderEventType, Value: []byte(change.Op)},
		},
	}
	// The record outlives the hook call; a cancelled context would fail it.
	p.producer.TryProduce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		attrs := []any{
			"topic", r.Topic,
			"type", change.Op,
			"entity", change.Entity,
			"person_id", change.PersonID,
		}
		if err != nil {
			p.logger.WarnContext(ctx, "person event not delivered", append(attrs, "error", err)...)
			return
		}
		p.logger.DebugContext(ctx, "person event published", attrs...)
	})
	return nil
}
