package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var mysqlSchema string

//go:embed clickhouse_schema.sql
var clickhouseSchema string

// Statements splits a DDL script on ';' and drops empty chunks. The scripts
// here carry no string literals containing ';'.
func Statements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EnsureSchema creates the relational tables that are missing. Existing
// tables are left untouched.
func EnsureSchema(ctx context.Context, dbx *sqlx.DB) error {
	return execScript(ctx, dbx, mysqlSchema)
}

// EnsureClickHouseSchema creates the order_events table if it is missing.
func EnsureClickHouseSchema(ctx context.Context, ch *sqlx.DB) error {
	return execScript(ctx, ch, clickhouseSchema)
}

func execScript(ctx context.Context, dbx *sqlx.DB, script string) error {
	for i, stmt := range Statements(script) {
		if _, err := dbx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
