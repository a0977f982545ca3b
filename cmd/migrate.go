package cmd

import (
	"fmt"

	"github.com/jmehdipour/order-service/internal/config"
	"github.com/jmehdipour/order-service/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables (MySQL, and ClickHouse with --clickhouse)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := connectMySQL(cfg)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := db.EnsureSchema(cmd.Context(), sqlDB); err != nil {
			return fmt.Errorf("mysql schema: %w", err)
		}

		if withClickHouse, _ := cmd.Flags().GetBool("clickhouse"); withClickHouse {
			chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
				DSN:          cfg.ClickHouse.DSN,
				MaxOpenConns: cfg.ClickHouse.MaxOpenConns,
				MaxIdleConns: cfg.ClickHouse.MaxIdleConns,
				PingTimeout:  cfg.ClickHouse.PingTimeout,
			})
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()

			if err := db.EnsureClickHouseSchema(cmd.Context(), chDB); err != nil {
				return fmt.Errorf("clickhouse schema: %w", err)
			}
		}

		fmt.Println(">> Migration complete")
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("clickhouse", false, "also create the order_events table in ClickHouse")
}
