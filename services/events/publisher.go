package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"reserva/models"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes reservation lifecycle events to a Kafka topic.
// Messages are keyed by professional id so every event for one professional
// lands on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	closed bool
	mu     sync.RWMutex
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	addrs := strings.Split(brokers, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}
	if len(addrs) == 0 || addrs[0] == "" {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash by key for per-professional ordering
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaPublisher{writer: writer}, nil
}

// Publish sends one reservation event.
func (p *KafkaPublisher) Publish(ctx context.Context, event models.ReservationEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("kafka publisher is closed")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode reservation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ProfessionalID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte("reserva")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish reservation event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the underlying writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
