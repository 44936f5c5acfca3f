// Package events publishes job portal domain events. Application status
// changes go to Kafka when brokers are configured and to the log otherwise.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TypeApplicationStatusChanged is the event-type header of status change messages.
const TypeApplicationStatusChanged = "application.status_changed"

// StatusChanged is emitted after an employer moves an application to a new status.
type StatusChanged struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployerID    uuid.UUID `json:"employer_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// Publisher delivers domain events.
type Publisher interface {
	ApplicationStatusChanged(ctx context.Context, ev StatusChanged) error
	Close() error
}

// MessageWriter defines the part of kafka.Writer the publisher uses.
// This allows for easy mocking in unit tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic, keyed by application so all
// changes to one application land on the same partition in order.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

// ApplicationStatusChanged publishes ev.
func (p *KafkaPublisher) ApplicationStatusChanged(ctx context.Context, ev StatusChanged) error {
	msg, err := statusMessage(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	log.Printf("[events] published %s for application %s (%s -> %s)",
		TypeApplicationStatusChanged, ev.ApplicationID, ev.OldStatus, ev.NewStatus)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func statusMessage(ev StatusChanged) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.ApplicationID.String()),
		Value: value,
		Time:  ev.ChangedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(TypeApplicationStatusChanged)},
		},
	}, nil
}

// LogPublisher only logs events. It is used when no brokers are configured.
type LogPublisher struct{}

// ApplicationStatusChanged logs ev.
func (LogPublisher) ApplicationStatusChanged(_ context.Context, ev StatusChanged) error {
	log.Printf("[events] %s application=%s job=%s %s -> %s (no broker configured)",
		TypeApplicationStatusChanged, ev.ApplicationID, ev.JobID, ev.OldStatus, ev.NewStatus)
	return nil
}

// Close does nothing.
func (LogPublisher) Close() error { return nil }

// New returns a Kafka publisher when brokers are given, a LogPublisher otherwise.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 || topic == "" {
		return LogPublisher{}
	}
	log.Printf("[events] publishing to topic %s on %v", topic, brokers)
	return NewKafkaPublisher(brokers, topic)
}
