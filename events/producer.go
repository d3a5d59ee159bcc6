// Package events publishes order lifecycle events to Kafka. Publication is
// best-effort everywhere: a broker failure is logged and never fails the
// originating request.
package events

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the wire shape for order lifecycle notifications.
type OrderEvent struct {
	Event       string  `json:"event"`
	OrderID     string  `json:"order_id"`
	UserID      string  `json:"user_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Timestamp   int64   `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
