package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tradepilot/tradepilot/internal/service"
)

func TestQueryReturnsColumnOrderAndRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	query := "SELECT ticker, profit FROM trading_all LIMIT 2"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("ticker").OfType("VARCHAR", nil),
			sqlmock.NewColumn("profit").OfType("DECIMAL", nil),
		).
			AddRow("NIFTY", []byte("100.50")).
			AddRow("BANKNIFTY", []byte("-20.00")))

	conn, err := service.NewTradingDBFromDB(db).Conn(context.Background())
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer conn.Close()

	columns, rows, err := service.Query(context.Background(), conn, query)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(columns) != 2 || columns[0].Name != "ticker" || columns[1].Name != "profit" {
		t.Errorf("columns = %v, want [ticker profit]", columns)
	}
	if columns[0].DatabaseType != "VARCHAR" || columns[1].DatabaseType != "DECIMAL" {
		t.Errorf("column types = %v, want driver type names captured", columns)
	}
	if names := service.ColumnNames(columns); len(names) != 2 || names[0] != "ticker" {
		t.Errorf("ColumnNames = %v", names)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["ticker"] != "NIFTY" {
		t.Errorf("rows[0][ticker] = %v", rows[0]["ticker"])
	}
	if _, ok := rows[1]["profit"].([]byte); !ok {
		t.Errorf("profit should arrive raw, got %T", rows[1]["profit"])
	}
}

func TestQueryEmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	query := "SELECT ticker FROM trading_today"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"ticker"}))

	conn, err := service.NewTradingDBFromDB(db).Conn(context.Background())
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer conn.Close()

	columns, rows, err := service.Query(context.Background(), conn, query)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(columns) != 1 {
		t.Errorf("columns = %v", columns)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func TestQueryPropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	query := "SELECT nope FROM trading_all"
	dbErr := errors.New("Unknown column 'nope' in 'field list'")
	mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(dbErr)

	conn, err := service.NewTradingDBFromDB(db).Conn(context.Background())
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer conn.Close()

	if _, _, err := service.Query(context.Background(), conn, query); !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want the driver error", err)
	}
}
