package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// StatementKind tells the executor whether a statement mutates data.
// Callers name the kind explicitly instead of the executor sniffing
// the SQL text; ClassifyStatement exists for the one caller that
// assembles statements dynamically.
type StatementKind int

const (
	StatementRead StatementKind = iota
	StatementWrite
)

// Result is the uniform shape returned by the executor. Writes carry
// only RowsAffected; reads carry Columns plus Rows, where every row
// has exactly len(Columns) values.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}

// Executor runs individual parameterized statements against the pool.
// Each call checks a connection out of the pool for exactly one
// statement; multi-statement atomicity belongs to the repositories,
// which open explicit transactions.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor { return &Executor{db: db} }

// ClassifyStatement reports the kind of a SQL statement by its leading
// keyword, case-insensitively and ignoring surrounding whitespace.
// INSERT, UPDATE and DELETE are writes; everything else is a read.
func ClassifyStatement(stmt string) StatementKind {
	head := stmt
	if i := strings.IndexAny(strings.TrimSpace(stmt), " \t\r\n("); i > 0 {
		head = strings.TrimSpace(stmt)[:i]
	} else {
		head = strings.TrimSpace(stmt)
	}
	switch strings.ToUpper(head) {
	case "INSERT", "UPDATE", "DELETE":
		return StatementWrite
	}
	return StatementRead
}

// Exec runs stmt with the given positional args. Write statements go
// through ExecContext (database/sql autocommits each one); reads fetch
// all rows together with the column names. Driver errors are logged
// with the statement head and returned unchanged.
func (e *Executor) Exec(ctx context.Context, kind StatementKind, stmt string, args ...any) (Result, error) {
	if kind == StatementWrite {
		res, err := e.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			log.Printf("executor: write failed (%s): %v", statementHead(stmt), err)
			return Result{}, err
		}
		affected, _ := res.RowsAffected()
		return Result{RowsAffected: affected}, nil
	}

	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Printf("executor: read failed (%s): %v", statementHead(stmt), err)
		return Result{}, err
	}
	defer rows.Close()
	return collectRows(rows)
}

// collectRows scans every row into a []any of the column count. Each
// value is scanned through *any; []byte values are converted to string
// so callers receive JSON-friendly data.
func collectRows(rows *sql.Rows) (Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}
	out := Result{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}
	return out, nil
}

// MapRows zips column names with each row. It fails when a row's
// length disagrees with the column list, which would otherwise produce
// silently misaligned responses.
func (r Result) MapRows() ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(r.Columns))
		}
		m := make(map[string]any, len(r.Columns))
		for j, col := range r.Columns {
			m[col] = row[j]
		}
		out = append(out, m)
	}
	return out, nil
}

func statementHead(stmt string) string {
	s := strings.Fields(strings.TrimSpace(stmt))
	if len(s) == 0 {
		return ""
	}
	if len(s) == 1 {
		return s[0]
	}
	return s[0] + " " + s[1]
}
