package registros

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/testutil/dbtest"
	"github.com/DioBrando0203/expedientes/internal/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo      *SQLRepository
	db        *sql.DB
	personaID int64
	expID     int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.NewSQLite(t)

	res, err := db.Exec(`INSERT INTO personas (nombre, dni, numero) VALUES ('Ana', '111', '555')`)
	require.NoError(t, err)
	pid, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO expedientes (persona_id, codigo) VALUES (?, 'EXP-1')`, pid)
	require.NoError(t, err)
	eid, _ := res.LastInsertId()

	return fixture{repo: NewRepository(db, dbx.SQLite), db: db, personaID: pid, expID: eid}
}

func (f fixture) create(t *testing.T, withExp bool) int64 {
	t.Helper()
	reg := &models.Registro{PersonaID: f.personaID, EstadoID: 1, FechaRegistro: "2024-01-01", FechaEnCaja: common.NotDelivered}
	if withExp {
		reg.ExpedienteID = &f.expID
	}
	id, err := f.repo.Create(context.Background(), reg)
	require.NoError(t, err)
	return id
}

func TestCreateAndGet_Joined(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	withExp := f.create(t, true)
	noExp := f.create(t, false)

	got, err := f.repo.GetByID(ctx, withExp)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Nombre)
	assert.Equal(t, "555", got.Numero)
	assert.Equal(t, "Recibido", got.Estado)
	require.NotNil(t, got.Expediente)
	assert.Equal(t, "EXP-1", *got.Expediente)
	assert.Equal(t, models.StatusActive, got.Status)

	got, err = f.repo.GetByID(ctx, noExp)
	require.NoError(t, err, "registros without expediente must still be readable")
	assert.Nil(t, got.Expediente)
	assert.Nil(t, got.ExpedienteID)

	_, err = f.repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSoftDeleteRestoreAndPurge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.create(t, true)
	b := f.create(t, false)

	require.NoError(t, f.repo.SetStatus(ctx, a, models.StatusDeleted))
	assert.ErrorIs(t, f.repo.SetStatus(ctx, a, models.StatusDeleted), common.ErrorNotFound, "already deleted")

	active, err := f.repo.List(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b, active[0].ID)

	bin, err := f.repo.List(ctx, models.StatusDeleted)
	require.NoError(t, err)
	require.Len(t, bin, 1)
	assert.Equal(t, a, bin[0].ID)

	assert.ErrorIs(t, f.repo.Purge(ctx, b), common.ErrorNotFound, "active registros cannot be purged")

	require.NoError(t, f.repo.SetStatus(ctx, a, models.StatusActive))
	require.NoError(t, f.repo.SetStatus(ctx, a, models.StatusDeleted))
	require.NoError(t, f.repo.Purge(ctx, a))

	require.NoError(t, f.repo.SetStatus(ctx, b, models.StatusDeleted))
	n, err := f.repo.PurgeDeleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.create(t, true)

	require.NoError(t, f.repo.Update(ctx, id, updates.NewRegistroUpdate().EstadoID(3).FechaEnCaja("2024-05-05")))

	got, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Entregado", got.Estado)
	assert.Equal(t, "2024-05-05", got.FechaEnCaja)
	assert.Equal(t, "2024-01-01", got.FechaRegistro)

	assert.ErrorIs(t, f.repo.Update(ctx, id, updates.NewRegistroUpdate()), common.ErrNoFieldsToUpdate)
}

func TestPostgres_SetStatusPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE registros SET eliminado = $1 WHERE id = $2 AND eliminado = $3`)).
		WithArgs(1, int64(5), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewRepository(db, dbx.Postgres).SetStatus(context.Background(), 5, models.StatusDeleted))
	require.NoError(t, mock.ExpectationsWereMet())
}
