package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatement(t *testing.T) {
	cases := []struct {
		stmt string
		want StatementKind
	}{
		{"INSERT INTO books (barcode) VALUES (?)", StatementWrite},
		{"insert into cart values (?,?,?)", StatementWrite},
		{"  UPDATE orders SET status=? WHERE transaction_id=?", StatementWrite},
		{"\n\tdelete from books where barcode=?", StatementWrite},
		{"SELECT * FROM books", StatementRead},
		{"select 1", StatementRead},
		{"SHOW TABLES", StatementRead},
		{"WITH t AS (SELECT 1) SELECT * FROM t", StatementRead},
		{"", StatementRead},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyStatement(tc.stmt), "stmt=%q", tc.stmt)
	}
}

func TestResultMapRows(t *testing.T) {
	res := Result{
		Columns: []string{"barcode", "name", "price"},
		Rows: [][]any{
			{"42", "The Go Programming Language", 39.99},
			{"43", "Designing Data-Intensive Applications", 44.50},
		},
	}
	maps, err := res.MapRows()
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "42", maps[0]["barcode"])
	assert.Equal(t, 44.50, maps[1]["price"])
	// every row carries exactly the column set
	for _, m := range maps {
		assert.Len(t, m, len(res.Columns))
	}
}

func TestResultMapRowsLengthMismatch(t *testing.T) {
	res := Result{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{1, 2}, {1}},
	}
	_, err := res.MapRows()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestStatementHead(t *testing.T) {
	assert.Equal(t, "SELECT *", statementHead("SELECT * FROM books WHERE barcode=?"))
	assert.Equal(t, "DELETE FROM", statementHead("  DELETE FROM cart"))
	assert.Equal(t, "COMMIT", statementHead("COMMIT"))
	assert.Equal(t, "", statementHead("   "))
}
