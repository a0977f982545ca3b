package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type CustomersRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c model.Customer) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

func (r *CustomersRepositoryImpl) List(ctx context.Context) ([]model.Customer, error) {
	rows := []model.Customer{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, email, address
		  FROM Customer
		 ORDER BY id
	`); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns (nil, nil) when no customer has the id.
func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, email, address
		  FROM Customer
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts c and sets c.ID to the assigned key.
func (r *CustomersRepositoryImpl) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO Customer (name, email, address)
		VALUES (?, ?, ?)
	`, c.Name, c.Email, c.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *CustomersRepositoryImpl) Update(ctx context.Context, c model.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE Customer
		   SET name = ?, email = ?, address = ?
		 WHERE id = ?
	`, c.Name, c.Email, c.Address, c.ID)
	return err
}

// Delete reports whether a row was removed.
func (r *CustomersRepositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Customer WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
