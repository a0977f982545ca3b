package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	stmts := Statements("CREATE TABLE a (x INT);\n\n  CREATE TABLE b (y INT) ;\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, stmts)
}

func TestEmbeddedSchemaIsIdempotent(t *testing.T) {
	stmts := Statements(mysqlSchema)
	require.Len(t, stmts, 4)
	for _, s := range stmts {
		assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS")
	}
	assert.Contains(t, stmts[3], "`Order_Products`")
}

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	dbx := sqlx.NewDb(raw, "mysql")
	defer dbx.Close()

	for range Statements(mysqlSchema) {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, EnsureSchema(context.Background(), dbx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	dbx := sqlx.NewDb(raw, "mysql")
	defer dbx.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(errors.New("boom"))

	err = EnsureSchema(context.Background(), dbx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMySQLError(t *testing.T) {
	fk := &mysql.MySQLError{Number: ErrNumNoReferencedRow, Message: "fk"}
	wrapped := fmt.Errorf("insert order: %w", fk)

	assert.True(t, IsMySQLError(wrapped, ErrNumNoReferencedRow))
	assert.False(t, IsMySQLError(wrapped, ErrNumRowIsReferenced))
	assert.False(t, IsMySQLError(errors.New("plain"), ErrNumNoReferencedRow))
}

func TestNewRedisClientDisabled(t *testing.T) {
	rdb, err := NewRedisClient(RedisOpts{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewMySQLConnectionRejectsEmptyDSN(t *testing.T) {
	_, err := NewMySQLConnection("", MySQLOpts{})
	assert.Error(t, err)
}

func TestClickHouseOptionsDefaults(t *testing.T) {
	o, err := clickHouseOptions(ClickHouseOpts{
		DSN:          "clickhouse://default:@127.0.0.1:9000/ordersvc",
		MaxOpenConns: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"127.0.0.1:9000"}, o.Addr)
	assert.Equal(t, "ordersvc", o.Auth.Database)
	assert.Equal(t, 5*time.Second, o.DialTimeout)
	require.NotNil(t, o.Compression)
	assert.Equal(t, clickhouse.CompressionLZ4, o.Compression.Method)
	assert.Equal(t, 4, o.MaxOpenConns)
	require.Len(t, o.ClientInfo.Products, 1)
	assert.Equal(t, "order-service", o.ClientInfo.Products[0].Name)
}

func TestClickHouseOptionsKeepDSNSettings(t *testing.T) {
	o, err := clickHouseOptions(ClickHouseOpts{
		DSN: "clickhouse://default:@127.0.0.1:9000/ordersvc?dial_timeout=2s&compress=false",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, o.DialTimeout)
	assert.Nil(t, o.Compression)
}

func TestClickHouseOptionsBadDSN(t *testing.T) {
	_, err := clickHouseOptions(ClickHouseOpts{DSN: "clickhouse://%zz"})
	assert.Error(t, err)
}
