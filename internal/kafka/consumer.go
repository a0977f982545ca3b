package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s
	MaxWait        time.Duration // default 50ms
}

// ReaderConfig validates c and fills the defaults.
func (c Config) ReaderConfig() (kafka.ReaderConfig, error) {
	switch {
	case len(c.Brokers) == 0:
		return kafka.ReaderConfig{}, errors.New("kafka: no brokers configured")
	case c.Topic == "":
		return kafka.ReaderConfig{}, errors.New("kafka: empty topic")
	case c.GroupID == "":
		return kafka.ReaderConfig{}, errors.New("kafka: empty consumer group")
	}

	return kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       orDefault(c.MinBytes, 1<<10),
		MaxBytes:       orDefault(c.MaxBytes, 10<<20),
		CommitInterval: orDefault(c.CommitInterval, time.Second),
		MaxWait:        orDefault(c.MaxWait, 50*time.Millisecond),
	}, nil
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

// Consumer is a group reader over a single topic.
type Consumer struct {
	r *kafka.Reader
}

func NewConsumer(c Config) (*Consumer, error) {
	rc, err := c.ReaderConfig()
	if err != nil {
		return nil, err
	}
	return &Consumer{r: kafka.NewReader(rc)}, nil
}

type Message = kafka.Message

// Fetch blocks for the next message without committing it.
func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }
