package usuarios

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/testutil/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGetCount(t *testing.T) {
	repo := NewRepository(dbtest.NewSQLite(t), dbx.SQLite)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u := &models.Usuario{Nombre: "Admin", Usuario: "admin", PasswordHash: []byte("hash"), Rol: models.RoleAdmin}
	_, err = repo.Create(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetByUsuario(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	_, err = repo.Create(ctx, &models.Usuario{Nombre: "Otro", Usuario: "admin", PasswordHash: []byte("x"), Rol: models.RoleOperator})
	require.Error(t, err, "usuario is unique")

	_, err = repo.GetByUsuario(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGetByUsuario_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, nombre, usuario, password_hash, rol FROM usuarios WHERE usuario = \?`).
		WithArgs("admin").
		WillReturnError(errors.New("boom"))

	_, err = NewRepository(db, dbx.MySQL).GetByUsuario(context.Background(), "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
