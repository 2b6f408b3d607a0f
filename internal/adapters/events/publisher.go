package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sales_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/sales_ledger/internal/core/ports/services"
	"github.com/SscSPs/sales_ledger/internal/middleware"
	"github.com/segmentio/kafka-go"
)

// Event types written to the topic.
const (
	TypeTransactionPosted = "transaction.posted"
	TypeRatesUpdated      = "rates.updated"
)

// Envelope is the JSON value of every published message.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes ledger events to a single Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

var _ portssvc.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

// PublishTransactionPosted writes the posted transaction keyed by its number.
func (k *KafkaPublisher) PublishTransactionPosted(ctx context.Context, txn *domain.Transaction) error {
	return k.publish(ctx, txn.TransactionNumber, TypeTransactionPosted, txn)
}

// PublishRatesUpdated writes a rate run summary keyed by the base currency.
func (k *KafkaPublisher) PublishRatesUpdated(ctx context.Context, summary *domain.RateUpdateSummary) error {
	return k.publish(ctx, summary.BaseCurrency, TypeRatesUpdated, summary)
}

func (k *KafkaPublisher) publish(ctx context.Context, key, eventType string, payload any) error {
	now := k.now()
	v, err := json.Marshal(Envelope{Type: eventType, OccurredAt: now.UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: v,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// LogPublisher is used when no broker is configured; it only logs the events.
type LogPublisher struct{}

var _ portssvc.EventPublisher = LogPublisher{}

func (LogPublisher) PublishTransactionPosted(ctx context.Context, txn *domain.Transaction) error {
	middleware.GetLoggerFromCtx(ctx).Debug("Event not published, no broker configured",
		slog.String("event_type", TypeTransactionPosted),
		slog.String("transaction_number", txn.TransactionNumber))
	return nil
}

func (LogPublisher) PublishRatesUpdated(ctx context.Context, summary *domain.RateUpdateSummary) error {
	middleware.GetLoggerFromCtx(ctx).Debug("Event not published, no broker configured",
		slog.String("event_type", TypeRatesUpdated),
		slog.Int("updated_count", summary.UpdatedCount))
	return nil
}

func (LogPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when brokers are configured, otherwise a LogPublisher.
func NewPublisher(brokers []string, topic string) portssvc.EventPublisher {
	if len(brokers) == 0 {
		return LogPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
