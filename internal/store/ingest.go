package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// typeSniffRows caps how many data rows the type sniffer inspects before
// settling on a column affinity.
const typeSniffRows = 1000

// IngestStats summarizes one CSV load.
type IngestStats struct {
	Columns int
	Rows    int64
}

// IngestCSV replaces the sales table wholesale with the contents of the
// CSV file at path. Column names come verbatim from the header row;
// column affinities (INTEGER, REAL, TEXT) are sniffed from the data. This
// runs outside the request path — it must complete before the assistant
// can answer anything.
func (s *SalesStore) IngestCSV(ctx context.Context, path string) (*IngestStats, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	types := sniffColumnTypes(header, records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", TableName)); err != nil {
		return nil, fmt.Errorf("failed to drop existing table: %w", err)
	}

	cols := make([]string, len(header))
	placeholders := make([]string, len(header))
	for i, name := range header {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(name), types[i])
		placeholders[i] = "?"
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, createStmt); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	insertStmt := fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, record := range records {
		args := make([]any, len(header))
		for i := range header {
			var field string
			if i < len(record) {
				field = record[i]
			}
			args[i] = convertField(field, types[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, fmt.Errorf("failed to insert row %d: %w", inserted+1, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ingest: %w", err)
	}

	return &IngestStats{Columns: len(header), Rows: inserted}, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Sales exports have ragged trailing columns; accept them.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		records = append(records, record)
	}
	return header, records, nil
}

// sniffColumnTypes picks an affinity per column: INTEGER if every sampled
// non-empty value parses as an integer, REAL if every one parses as a
// float, TEXT otherwise. Columns with no sampled values stay TEXT.
func sniffColumnTypes(header []string, records [][]string) []string {
	types := make([]string, len(header))
	for col := range header {
		isInt, isReal, seen := true, true, false
		for r := 0; r < len(records) && r < typeSniffRows; r++ {
			if col >= len(records[r]) {
				continue
			}
			field := strings.TrimSpace(records[r][col])
			if field == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseInt(field, 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(field, 64); err != nil {
				isReal = false
			}
			if !isInt && !isReal {
				break
			}
		}
		switch {
		case seen && isInt:
			types[col] = "INTEGER"
		case seen && isReal:
			types[col] = "REAL"
		default:
			types[col] = "TEXT"
		}
	}
	return types
}

func convertField(field, affinity string) any {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return nil
	}
	switch affinity {
	case "INTEGER":
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v
		}
	case "REAL":
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v
		}
	}
	return field
}

// quoteIdent quotes a column name so headers like "Order ID", "ship-city"
// and "Unnamed: 22" survive as identifiers.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
