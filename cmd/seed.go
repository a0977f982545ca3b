package cmd

import (
	"fmt"
	"log"

	"github.com/jmehdipour/order-service/internal/config"
	"github.com/jmehdipour/order-service/internal/db"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers and products",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := connectMySQL(cfg)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := db.EnsureSchema(cmd.Context(), sqlDB); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		log.Println(">> Seeding demo catalogue...")

		if err := seedCustomers(sqlDB); err != nil {
			return err
		}
		if err := seedProducts(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

// seedCustomers inserts the demo customers that are not present yet (matched by name).
func seedCustomers(dbx *sqlx.DB) error {
	customers := []model.Customer{
		{Name: "Acme Corp", Email: strptr("orders@acme.test"), Address: strptr("1 Industrial Way")},
		{Name: "Foobar LLC", Email: strptr("buy@foobar.test")},
		{Name: "Walk-in Customer"},
	}

	const q = `
INSERT INTO Customer (name, email, address)
SELECT ?, ?, ? FROM DUAL
WHERE NOT EXISTS (SELECT 1 FROM Customer WHERE name = ?)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range customers {
		if _, err := tx.Exec(q, c.Name, c.Email, c.Address, c.Name); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers: %w", err)
	}
	return nil
}

// seedProducts does the same for the demo products.
func seedProducts(dbx *sqlx.DB) error {
	products := []model.Product{
		{ProductName: "Widget", Price: 9.5},
		{ProductName: "Gadget", Price: 24.99},
		{ProductName: "Gift card", Price: 0},
	}

	const q = `
INSERT INTO products (product_name, price)
SELECT ?, ? FROM DUAL
WHERE NOT EXISTS (SELECT 1 FROM products WHERE product_name = ?)
`
	for _, p := range products {
		if _, err := dbx.Exec(q, p.ProductName, p.Price, p.ProductName); err != nil {
			return fmt.Errorf("insert product %q: %w", p.ProductName, err)
		}
	}
	return nil
}

func strptr(s string) *string { return &s }
