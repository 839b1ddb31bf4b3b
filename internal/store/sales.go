// Package store owns the local SQLite sales database. One fixed table
// (`sales`) is loaded wholesale from a CSV export before the assistant is
// usable; at request time the store only runs read statements the safety
// gate has already passed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// TableName is the single table every generated statement targets.
const TableName = "sales"

// ResultSet holds the rows of one executed statement in the store's native
// order. No ordering beyond what the SQL itself specifies.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// SalesStore wraps the local SQLite file. It is opened once per process;
// the single-connection limit matches the request-at-a-time execution
// model.
type SalesStore struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the SQLite database at the given path.
func Open(path string) (*SalesStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	return &SalesStore{db: db, dbPath: path}, nil
}

// Query executes one statement and returns all rows. The transaction is
// committed even though the statement should be a read; the original
// system did the same as a defensive habit and the behavior is kept.
func (s *SalesStore) Query(ctx context.Context, query string) (*ResultSet, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	result := &ResultSet{Columns: columns}
	for rows.Next() {
		values, err := scanRow(rows, len(columns))
		if err != nil {
			rows.Close()
			return nil, err
		}
		result.Rows = append(result.Rows, normalizeRow(values))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}

// RowCount returns the number of rows in the sales table, or an error if
// the table has not been ingested yet.
func (s *SalesStore) RowCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", TableName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// Path returns the database file path.
func (s *SalesStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SalesStore) Close() error {
	return s.db.Close()
}

func scanRow(rows *sql.Rows, numCols int) ([]any, error) {
	values := make([]any, numCols)
	ptrs := make([]any, numCols)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return values, nil
}

func normalizeRow(values []any) []any {
	row := make([]any, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case []byte:
			row[i] = string(val)
		default:
			row[i] = val
		}
	}
	return row
}
