package dbx

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "", want: SQLite},
		{in: "sqlite3", want: SQLite},
		{in: "Postgres", want: Postgres},
		{in: "pgx", want: Postgres},
		{in: "mariadb", want: MySQL},
		{in: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM expedientes WHERE codigo = ? AND observacion <> '?' AND persona_id = ?`

	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, q, MySQL.Rebind(q))
	assert.Equal(t,
		`SELECT id FROM expedientes WHERE codigo = $1 AND observacion <> '?' AND persona_id = $2`,
		Postgres.Rebind(q))
}

func TestDriverAndGooseNames(t *testing.T) {
	assert.Equal(t, "sqlite", SQLite.DriverName())
	assert.Equal(t, "sqlite3", SQLite.GooseDialect())
	assert.Equal(t, "pgx", Postgres.DriverName())
	assert.Equal(t, "pgx", Postgres.GooseDialect())
	assert.Equal(t, "mysql", MySQL.DriverName())
	assert.Equal(t, "mysql", MySQL.GooseDialect())
}

func TestInsertID_PostgresUsesReturning(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT INTO estados \(nombre\) VALUES \(\$1\) RETURNING id$`).
		WithArgs("Archivado").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := Postgres.InsertID(context.Background(), db, `INSERT INTO estados (nombre) VALUES (?)`, "Archivado")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertID_SQLiteUsesLastInsertID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO estados \(nombre\) VALUES \(\?\)$`).
		WithArgs("Archivado").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := SQLite.InsertID(context.Background(), db, `INSERT INTO estados (nombre) VALUES (?)`, "Archivado")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIdents(t *testing.T) {
	q := `SELECT id AS "Estado_ID", nombre AS "Nombre" FROM estados`

	assert.Equal(t, q, SQLite.QuoteIdents(q))
	assert.Equal(t, q, Postgres.QuoteIdents(q))
	assert.Equal(t, "SELECT id AS `Estado_ID`, nombre AS `Nombre` FROM estados", MySQL.QuoteIdents(q))
}
