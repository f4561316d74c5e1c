package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Lifecycle event types
const (
	BriefCreated        = "brief.created"
	ApplicationCreated  = "application.created"
	ApplicationAccepted = "application.accepted"
	ApplicationRejected = "application.rejected"
	SubscriptionChanged = "subscription.changed"
)

// Publisher delivers an encoded event under a partition key
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}

// Envelope is the wire shape of every event
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Emit wraps data in an envelope and publishes it. Failures are logged, not returned.
func Emit(ctx context.Context, logger *slog.Logger, pub Publisher, eventType, key string, data interface{}) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		logger.Error("encode event", "type", eventType, "error", err)
		return
	}
	if err := pub.Publish(ctx, eventType, payload, key); err != nil {
		logger.Error("publish event", "type", eventType, "key", key, "error", err)
	}
}

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topic: topic,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topic,
		Key:     []byte(partitionKey),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
		Time:    time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher records events in the log when no broker is configured
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.logger.Info("event", "type", eventType, "key", partitionKey, "payload", json.RawMessage(payload))
	return nil
}
