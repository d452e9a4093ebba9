package estados

import (
	"context"
	"testing"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/testutil/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededDefaults(t *testing.T) {
	repo := NewRepository(dbtest.NewSQLite(t), dbx.SQLite)
	ctx := context.Background()

	e, err := repo.FindByName(ctx, common.EstadoEntregado)
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)

	_, err = repo.FindByName(ctx, "Archivado")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.EnsureDefaults(ctx, append(common.DefaultEstados, "Archivado")))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestCreateRenameDelete(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db, dbx.SQLite)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Observado")
	require.NoError(t, err)

	exists, err := repo.NameExists(ctx, "Observado", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.NameExists(ctx, "Observado", id)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Rename(ctx, id, "Archivado"))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Archivado", got.Nombre)

	dbtest.Exec(t, db, `INSERT INTO personas (nombre) VALUES ('Ana')`)
	dbtest.Exec(t, db, `INSERT INTO registros (persona_id, estado_id, fecha_registro) VALUES (1, ?, '2024-01-01')`, id)

	ref, err := repo.Referenced(ctx, id)
	require.NoError(t, err)
	assert.True(t, ref)

	dbtest.Exec(t, db, `DELETE FROM registros`)
	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Rename(ctx, id, "x"), common.ErrorNotFound)
}

func TestStats(t *testing.T) {
	db := dbtest.NewSQLite(t)
	repo := NewRepository(db, dbx.SQLite)

	dbtest.Exec(t, db, `INSERT INTO personas (nombre) VALUES ('Ana')`)
	dbtest.Exec(t, db, `INSERT INTO registros (persona_id, estado_id, fecha_registro, eliminado) VALUES (1, 1, 'x', 0)`)
	dbtest.Exec(t, db, `INSERT INTO registros (persona_id, estado_id, fecha_registro, eliminado) VALUES (1, 1, 'x', 1)`)
	dbtest.Exec(t, db, `INSERT INTO registros (persona_id, estado_id, fecha_registro, eliminado) VALUES (1, 3, 'x', 0)`)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.EstadoStats{
		{Nombre: "Recibido", Total: 2, Activos: 1, Eliminados: 1},
		{Nombre: "En Caja"},
		{Nombre: "Entregado", Total: 1, Activos: 1},
		{Nombre: "Tesoreria"},
	}, stats)
}
