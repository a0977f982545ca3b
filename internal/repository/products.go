package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type ProductsRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type ProductsRepositoryImpl struct {
	db *sqlx.DB
}

func NewProductsRepository(db *sqlx.DB) *ProductsRepositoryImpl {
	return &ProductsRepositoryImpl{db: db}
}

var _ ProductsRepository = (*ProductsRepositoryImpl)(nil)

func (r *ProductsRepositoryImpl) List(ctx context.Context) ([]model.Product, error) {
	rows := []model.Product{}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, product_name, price
		  FROM products
		 ORDER BY id
	`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProductsRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.GetContext(ctx, &p, `
		SELECT id, product_name, price
		  FROM products
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductsRepositoryImpl) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products (product_name, price)
		VALUES (?, ?)
	`, p.ProductName, p.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *ProductsRepositoryImpl) Update(ctx context.Context, p model.Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		   SET product_name = ?, price = ?
		 WHERE id = ?
	`, p.ProductName, p.Price, p.ID)
	return err
}

// Delete removes the product; its Order_Products rows go with it (ON DELETE CASCADE).
func (r *ProductsRepositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
