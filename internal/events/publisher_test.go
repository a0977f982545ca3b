package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	key, value []byte
	err        error
}

func (w *captureWriter) Write(_ context.Context, key, value []byte) error {
	w.key, w.value = key, value
	return w.err
}

func TestKafkaPublisherEncodesEnvelope(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaPublisher(w, 0)

	ev := model.OrderEvent{
		ID:         "01HV0000000000000000000000",
		Type:       model.EventOrderProductAdded,
		OrderID:    5,
		ProductID:  7,
		OccurredAt: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))

	assert.Equal(t, "5", string(w.key))
	assert.JSONEq(t, `{
		"id":"01HV0000000000000000000000",
		"type":"order.product_added",
		"order_id":5,
		"product_id":7,
		"occurred_at":"2024-03-09T12:00:00Z"
	}`, string(w.value))
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	p := NewKafkaPublisher(&captureWriter{err: errors.New("broker down")}, 0)

	err := p.Publish(context.Background(), model.OrderEvent{Type: model.EventOrderCreated, OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.created")
	assert.Contains(t, err.Error(), "broker down")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), model.OrderEvent{}))
}

// stallWriter behaves like a writer whose broker never answers.
type stallWriter struct{}

func (stallWriter) Write(ctx context.Context, _, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestKafkaPublisherGivesUpAfterTimeout(t *testing.T) {
	p := NewKafkaPublisher(stallWriter{}, 20*time.Millisecond)

	start := time.Now()
	err := p.Publish(context.Background(), model.OrderEvent{Type: model.EventOrderCreated, OrderID: 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
