package dbx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Dialect names one of the supported SQL backends. Repositories write their
// statements with '?' placeholders and let the dialect adapt them.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", name)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	}
	return "sqlite"
}

// GooseDialect is the dialect name understood by goose.SetDialect.
func (d Dialect) GooseDialect() string {
	switch d {
	case Postgres:
		return "pgx"
	case MySQL:
		return "mysql"
	}
	return "sqlite3"
}

// Rebind rewrites '?' placeholders into '$1..$n' for postgres. Placeholders
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, ch := range query {
		switch {
		case ch == '\'':
			quoted = !quoted
			b.WriteRune(ch)
		case ch == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// InsertID runs an INSERT and returns the generated id column.
func (d Dialect) InsertID(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	if d == Postgres {
		var id int64
		if err := db.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// QuoteIdents rewrites double-quoted identifiers in query for the dialect.
// MySQL without ANSI_QUOTES reads "x" as a string literal, so it gets
// backticks; the other dialects take the query unchanged.
func (d Dialect) QuoteIdents(query string) string {
	if d != MySQL {
		return query
	}
	return strings.ReplaceAll(query, `"`, "`")
}
