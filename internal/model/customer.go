package model

// Customer is the DB entity persisted in the `Customer` table.
type Customer struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Email   *string `db:"email" json:"email"`     // nullable
	Address *string `db:"address" json:"address"` // nullable
}
