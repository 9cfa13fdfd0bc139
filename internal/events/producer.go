package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const userEventsTopic = "user_events"

// Producer publishes user lifecycle events. A nil *Producer is a no-op so
// the service runs without a broker configured.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(address string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(address),
			Topic:        userEventsTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

type envelope struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	UserID  uint   `json:"user_id"`
	Email   string `json:"email,omitempty"`
}

func (p *Producer) PublishUserEvent(ctx context.Context, eventType string, userID uint, email string) error {
	if p == nil || p.writer == nil {
		return nil
	}
	data, err := json.Marshal(envelope{
		EventID: uuid.NewString(),
		Type:    eventType,
		UserID:  userID,
		Email:   email,
	})
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprint(userID)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
