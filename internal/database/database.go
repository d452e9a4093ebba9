// Package database opens the configured store and brings its schema up to
// date.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/go-sql-driver/mysql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects with the driver named in driver, runs the migrations of
// its dialect and returns the handle plus a manager bound to that dialect.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	d, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, nil, err
	}

	dsn, err = prepareDSN(d, dsn)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlOpen(d.DriverName(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", d, err)
	}
	if d == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to connect to %s database: %w", d, err)
	}

	m := repomanager.NewRepositoryManager(d)
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, m, nil
}

// prepareDSN adds the options each driver needs: SQLite pragmas, and
// clientFoundRows for MySQL so an UPDATE that leaves values unchanged still
// reports the row as affected.
func prepareDSN(d dbx.Dialect, dsn string) (string, error) {
	switch d {
	case dbx.SQLite:
		if strings.Contains(dsn, "_pragma=") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + sqlitePragmas, nil
	case dbx.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	}
	return dsn, nil
}
