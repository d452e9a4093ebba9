package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Table is an ordered result set. Columns keeps the order reported by the
// driver so callers can render headers even when Rows is empty.
type Table struct {
	Columns []string
	Rows    []Row
}

// Result is what a write statement reports back.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Query runs a row-returning statement and materializes every row.
// []byte values are converted to strings.
func Query(ctx context.Context, db DBTX, query string, args ...any) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	t := &Table{Columns: cols, Rows: []Row{}}
	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return t, nil
}

// Get returns the first row of the statement, or nil when there is none.
func Get(ctx context.Context, db DBTX, query string, args ...any) (Row, error) {
	t, err := Query(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		return nil, nil
	}
	return t.Rows[0], nil
}

// Run executes a write statement. LastInsertID stays zero for drivers that
// do not report it (pgx); use Dialect.InsertID there.
func Run(ctx context.Context, db DBTX, query string, args ...any) (Result, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to run statement: %w", err)
	}

	var out Result
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	out.RowsAffected = n

	return out, nil
}

func scanRow(rows *sql.Rows, cols []string) (Row, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	r := make(Row, len(cols))
	for i, c := range cols {
		if b, ok := values[i].([]byte); ok {
			r[c] = string(b)
			continue
		}
		r[c] = values[i]
	}
	return r, nil
}

// StringPtr converts a scanned nullable string.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Int64Ptr converts a scanned nullable integer.
func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
