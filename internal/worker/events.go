package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/order-service/internal/kafka"
	"github.com/jmehdipour/order-service/internal/logger"
	"github.com/jmehdipour/order-service/internal/metrics"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/repository"
	"go.uber.org/zap"
)

// Consumer is the part of kafka.Consumer the sink uses.
type Consumer interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// EventSink copies order events from Kafka into ClickHouse:
// - messages are handled strictly in fetch order,
// - an offset is committed only after its event is stored (or found undecodable),
// - a failing insert is retried until it succeeds or ctx ends.
type EventSink struct {
	Consumer Consumer
	Events   repository.CHEventsRepository

	FetchBackoff time.Duration // pause after a fetch error
	RetryWait    time.Duration // pause between insert attempts
}

func NewEventSink(consumer Consumer, eventsRepo repository.CHEventsRepository) *EventSink {
	return &EventSink{
		Consumer:     consumer,
		Events:       eventsRepo,
		FetchBackoff: 200 * time.Millisecond,
		RetryWait:    time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (w *EventSink) Run(ctx context.Context) error {
	if w.Consumer == nil || w.Events == nil {
		return errors.New("event sink: consumer and events repository are required")
	}
	if w.FetchBackoff <= 0 {
		w.FetchBackoff = 200 * time.Millisecond
	}
	if w.RetryWait <= 0 {
		w.RetryWait = time.Second
	}

	for {
		m, err := w.Consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Warn("event sink: kafka fetch failed", zap.Error(err))
			if !sleep(ctx, w.FetchBackoff) {
				return nil
			}
			continue
		}
		if !w.handle(ctx, m) {
			return nil
		}
	}
}

// handle returns false when ctx ended before m could be stored.
func (w *EventSink) handle(ctx context.Context, m kafka.Message) bool {
	ev, err := decodeEvent(m.Value)
	if err != nil {
		metrics.EventsTotal.WithLabelValues("skipped").Inc()
		logger.Log.Warn("event sink: undecodable message skipped",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		w.commit(ctx, m)
		return true
	}

	for {
		err := w.Events.Insert(ctx, ev)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return false
		}
		metrics.EventsTotal.WithLabelValues("sink_failed").Inc()
		logger.Log.Error("event sink: clickhouse insert failed",
			zap.String("event_id", ev.ID),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		if !sleep(ctx, w.RetryWait) {
			return false
		}
	}

	metrics.EventsTotal.WithLabelValues("consumed").Inc()
	w.commit(ctx, m)
	return true
}

func (w *EventSink) commit(ctx context.Context, m kafka.Message) {
	if err := w.Consumer.Commit(ctx, m); err != nil {
		// the event is stored; redelivery is collapsed by the ReplacingMergeTree on id
		logger.Log.Warn("event sink: commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

func decodeEvent(payload []byte) (model.OrderEvent, error) {
	var ev model.OrderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, err
	}
	switch {
	case ev.ID == "":
		return ev, errors.New("missing id")
	case !ev.Type.Valid():
		return ev, fmt.Errorf("unknown event type %q", ev.Type)
	case ev.OrderID <= 0:
		return ev, errors.New("missing order_id")
	}
	return ev, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
