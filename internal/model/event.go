package model

import "time"

type EventType string

const (
	EventOrderCreated        EventType = "order.created"
	EventOrderUpdated        EventType = "order.updated"
	EventOrderDeleted        EventType = "order.deleted"
	EventOrderProductAdded   EventType = "order.product_added"
	EventOrderProductRemoved EventType = "order.product_removed"
)

func (t EventType) String() string { return string(t) }

func (t EventType) Valid() bool {
	switch t {
	case EventOrderCreated, EventOrderUpdated, EventOrderDeleted,
		EventOrderProductAdded, EventOrderProductRemoved:
		return true
	}
	return false
}

// OrderEvent is the envelope published to Kafka after an order mutation and
// the row shape stored in ClickHouse `order_events`.
type OrderEvent struct {
	ID         string    `json:"id" db:"id"` // ULID
	Type       EventType `json:"type" db:"type"`
	OrderID    int64     `json:"order_id" db:"order_id"`
	CustomerID int64     `json:"customer_id,omitempty" db:"customer_id"`
	ProductID  int64     `json:"product_id,omitempty" db:"product_id"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
}
