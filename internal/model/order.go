package model

// Order is the DB entity persisted in the `orders` table.
// Its products live in `Order_Products` and are loaded separately.
type Order struct {
	ID         int64 `db:"id" json:"id"`
	OrderDate  Date  `db:"order_date" json:"order_date"`
	CustomerID int64 `db:"customer_id" json:"customer_id"`
}
