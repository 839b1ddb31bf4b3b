package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `index,Order ID,Date,Status,Fulfilment,Qty,Amount,ship-city,ship-state
0,405-8078784-5731545,04-30-22,Cancelled,Merchant,0,647.62,MUMBAI,MAHARASHTRA
1,171-9198151-1101146,04-30-22,Shipped,Amazon,1,406.00,BENGALURU,KARNATAKA
2,404-0687676-7273146,04-30-22,Shipped,Amazon,1,329.00,NAVI MUMBAI,MAHARASHTRA
`

func openTestStore(t *testing.T) *SalesStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sales.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ingestSample(t *testing.T, s *SalesStore) *IngestStats {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0644))
	stats, err := s.IngestCSV(context.Background(), csvPath)
	require.NoError(t, err)
	return stats
}

func TestIngestCSV(t *testing.T) {
	s := openTestStore(t)
	stats := ingestSample(t, s)

	assert.Equal(t, 9, stats.Columns)
	assert.Equal(t, int64(3), stats.Rows)

	count, err := s.RowCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestIngestReplacesTable(t *testing.T) {
	s := openTestStore(t)
	ingestSample(t, s)
	// Second ingest must replace, not append.
	ingestSample(t, s)

	count, err := s.RowCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestQueryAggregates(t *testing.T) {
	s := openTestStore(t)
	ingestSample(t, s)

	rs, err := s.Query(context.Background(), `SELECT "ship-state", SUM(Amount) AS revenue FROM sales GROUP BY "ship-state" ORDER BY revenue DESC`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ship-state", "revenue"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "MAHARASHTRA", rs.Rows[0][0])
	assert.InDelta(t, 976.62, rs.Rows[0][1].(float64), 0.01)
}

func TestQueryCount(t *testing.T) {
	s := openTestStore(t)
	ingestSample(t, s)

	rs, err := s.Query(context.Background(), "SELECT COUNT(*) FROM sales")
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, int64(3), rs.Rows[0][0])
}

func TestQueryMissingTable(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Query(context.Background(), "SELECT * FROM sales")
	assert.Error(t, err)
}

func TestSniffColumnTypes(t *testing.T) {
	header := []string{"id", "amount", "city", "empty"}
	records := [][]string{
		{"1", "647.62", "MUMBAI", ""},
		{"2", "406", "BENGALURU", ""},
	}
	types := sniffColumnTypes(header, records)
	assert.Equal(t, []string{"INTEGER", "REAL", "TEXT", "TEXT"}, types)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"Order ID"`, quoteIdent("Order ID"))
	assert.Equal(t, `"Unnamed: 22"`, quoteIdent("Unnamed: 22"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
