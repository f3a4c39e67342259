// Package kafka publishes committed order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventMessage is the JSON value of every published message.
type EventMessage struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher implements ports.EventPublisher. Messages are keyed by order id so the events
// of one order land on one partition in the order they were raised.
//
// The writer runs asynchronously: Publish only enqueues, and delivery failures reported by
// the broker are logged from the completion callback. A committing request never waits on
// the broker.
type Publisher struct {
	w   messageWriter
	log logger.Logger
}

// NewPublisher connects to a comma-separated broker list.
func NewPublisher(brokers, topic string, log logger.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
	}
	p := newPublisher(w, log)
	w.Completion = p.completed
	return p
}

func newPublisher(w messageWriter, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{w: w, log: log}
}

// completed receives the outcome of every asynchronous batch.
func (p *Publisher) completed(msgs []kafka.Message, err error) {
	if err == nil {
		p.log.Debug("order events delivered", logger.Int("count", len(msgs)))
		return
	}
	for _, m := range msgs {
		p.log.Error("order event not delivered",
			logger.String("orderID", string(m.Key)),
			logger.String("topic", m.Topic),
			logger.Error(err),
		)
	}
}

func (p *Publisher) Publish(ctx context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(EventMessage{
			Type:       string(e.Type),
			OrderID:    e.OrderID.String(),
			OccurredAt: e.OccurredAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("encode %s event: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.OrderID.String()),
			Value: value,
			Headers: []kafka.Header{
				{Key: "content-type", Value: []byte("application/json")},
				{Key: "event-type", Value: []byte(e.Type)},
			},
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	p.log.Debug("order events queued", logger.Int("count", len(msgs)))
	return nil
}

// Close flushes queued messages and waits for their completion.
func (p *Publisher) Close() error {
	return p.w.Close()
}

func splitBrokers(brokers string) []string {
	var result []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			result = append(result, b)
		}
	}
	return result
}
