package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// DBConfig holds MariaDB/MySQL connection settings.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// TradingDB hands out database connections for the query pipeline. Every
// pipeline invocation gets its own connection via Conn and idle connections
// are never pooled: MariaDB VIRTUAL columns can leave a session in a corrupt
// state, so a connection is used for one invocation and then discarded.
type TradingDB struct {
	db *sql.DB
}

func NewTradingDB(cfg DBConfig) (*TradingDB, error) {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxIdleConns(0)

	return &TradingDB{db: db}, nil
}

// NewTradingDBFromDB wraps an already-open handle. Used by tests with a mock
// driver behind it.
func NewTradingDBFromDB(db *sql.DB) *TradingDB {
	return &TradingDB{db: db}
}

// Conn returns an independent, ready-to-use connection. The caller owns it
// for the duration of one pipeline invocation and must Close it.
func (d *TradingDB) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// TestConnection verifies database connectivity.
func (d *TradingDB) TestConnection(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close releases the underlying handle.
func (d *TradingDB) Close() error {
	return d.db.Close()
}

// Column describes one result column: its name plus the database type name
// the driver reports (DECIMAL, VARCHAR, DATE, ...). The normalizer keys its
// conversions off the type, so numeric-looking text columns stay text.
type Column struct {
	Name         string
	DatabaseType string
}

// ColumnNames projects the ordered column names.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Query runs one statement on the provided connection and returns the result
// as column-name-keyed rows plus the ordered column metadata, which maps lose.
func Query(ctx context.Context, conn *sql.Conn, query string) ([]Column, []map[string]any, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}
	columns := make([]Column, len(types))
	for i, ct := range types {
		columns[i] = Column{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, out, nil
}
