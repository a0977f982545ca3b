package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// OrdersRepository covers the orders table and its Order_Products association.
type OrdersRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, o model.Order) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)

	Products(ctx context.Context, orderID int64) ([]model.Product, error)
	HasProduct(ctx context.Context, orderID, productID int64) (bool, error)
	AddProduct(ctx context.Context, orderID, productID int64) error
	RemoveProduct(ctx context.Context, orderID, productID int64) (bool, error)
}

type OrdersRepositoryImpl struct {
	db *sqlx.DB
}

func NewOrdersRepository(db *sqlx.DB) *OrdersRepositoryImpl {
	return &OrdersRepositoryImpl{db: db}
}

var _ OrdersRepository = (*OrdersRepositoryImpl)(nil)

func (r *OrdersRepositoryImpl) List(ctx context.Context) ([]model.Order, error) {
	rows := []model.Order{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, order_date, customer_id
		  FROM orders
		 ORDER BY id
	`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrdersRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := r.db.GetContext(ctx, &o, `
		SELECT id, order_date, customer_id
		  FROM orders
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts o without checking the customer; the foreign key rejects orphans.
func (r *OrdersRepositoryImpl) Create(ctx context.Context, o *model.Order) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (order_date, customer_id)
		VALUES (?, ?)
	`, o.OrderDate, o.CustomerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = id
	return nil
}

func (r *OrdersRepositoryImpl) Update(ctx context.Context, o model.Order) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders
		   SET order_date = ?, customer_id = ?
		 WHERE id = ?
	`, o.OrderDate, o.CustomerID, o.ID)
	return err
}

func (r *OrdersRepositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *OrdersRepositoryImpl) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	rows := []model.Order{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, order_date, customer_id
		  FROM orders
		 WHERE customer_id = ?
		 ORDER BY id
	`, customerID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrdersRepositoryImpl) Products(ctx context.Context, orderID int64) ([]model.Product, error) {
	rows := []model.Product{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id, p.product_name, p.price
		  FROM products p
		  JOIN Order_Products op ON op.product_id = p.id
		 WHERE op.order_id = ?
		 ORDER BY p.id
	`, orderID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrdersRepositoryImpl) HasProduct(ctx context.Context, orderID, productID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowxContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM Order_Products
			 WHERE order_id = ? AND product_id = ?
		)
	`, orderID, productID).Scan(&exists)
	return exists, err
}

// AddProduct appends an association row. Callers check HasProduct first;
// the table itself accepts duplicates.
func (r *OrdersRepositoryImpl) AddProduct(ctx context.Context, orderID, productID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO Order_Products (order_id, product_id)
		VALUES (?, ?)
	`, orderID, productID)
	return err
}

func (r *OrdersRepositoryImpl) RemoveProduct(ctx context.Context, orderID, productID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM Order_Products
		 WHERE order_id = ? AND product_id = ?
	`, orderID, productID)
	if err != nil {
		return false, err
	}
	return affected(res)
}
