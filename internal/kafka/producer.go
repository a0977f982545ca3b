package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer is a thin wrapper around segmentio/kafka-go Writer bound to one topic.
type Producer struct {
	w *kafka.Writer
}

// NewProducer hashes on the message key so one order's events stay on one partition.
// maxAttempts <= 0 keeps a single attempt; writes sit on the request path.
func NewProducer(brokers []string, topic string, maxAttempts int) *Producer {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Producer{w: &kafka.Writer{
		Addr:            kafka.TCP(brokers...),
		Topic:           topic,
		Balancer:        &kafka.Hash{},
		RequiredAcks:    kafka.RequireOne,
		MaxAttempts:     maxAttempts,
		WriteBackoffMin: 20 * time.Millisecond,
		WriteBackoffMax: 100 * time.Millisecond,
		BatchTimeout:    10 * time.Millisecond,
		WriteTimeout:    2 * time.Second,
	}}
}

func (p *Producer) Write(ctx context.Context, key, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (p *Producer) Close() error { return p.w.Close() }
