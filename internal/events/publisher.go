package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jmehdipour/order-service/internal/model"
)

// Publisher ships order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev model.OrderEvent) error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, model.OrderEvent) error { return nil }

// Writer is the slice of kafka.Producer the publisher needs.
type Writer interface {
	Write(ctx context.Context, key, value []byte) error
}

// DefaultPublishTimeout bounds a single Publish when none is configured.
const DefaultPublishTimeout = 500 * time.Millisecond

// KafkaPublisher encodes events as JSON keyed by order id. Each write is
// cut off after timeout.
type KafkaPublisher struct {
	w       Writer
	timeout time.Duration
}

func NewKafkaPublisher(w Writer, timeout time.Duration) *KafkaPublisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &KafkaPublisher{w: w, timeout: timeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev model.OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	key := []byte(strconv.FormatInt(ev.OrderID, 10))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.w.Write(ctx, key, payload); err != nil {
		return fmt.Errorf("kafka write %s: %w", ev.Type, err)
	}
	return nil
}
