package repository

import (
	"context"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// CHEventsRepository stores order events in ClickHouse for reporting.
type CHEventsRepository interface {
	Insert(ctx context.Context, ev model.OrderEvent) error
}

type chEventsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHEventsRepository(ch *sqlx.DB) CHEventsRepository {
	return &chEventsRepository{ch: ch}
}

func (r *chEventsRepository) Insert(ctx context.Context, ev model.OrderEvent) error {
	_, err := r.ch.ExecContext(ctx, `
		INSERT INTO order_events (id, type, order_id, customer_id, product_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Type.String(), ev.OrderID, ev.CustomerID, ev.ProductID, ev.OccurredAt.UTC())
	return err
}
