package usuarios

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, u *models.Usuario) (int64, error) {
	query := `INSERT INTO usuarios (nombre, usuario, password_hash, rol) VALUES (?, ?, ?, ?)`

	id, err := r.d.InsertID(ctx, r.db, query, u.Nombre, u.Usuario, u.PasswordHash, u.Rol)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	u.ID = id
	return id, nil
}

func (r *SQLRepository) GetByUsuario(ctx context.Context, usuario string) (*models.Usuario, error) {
	query := `SELECT id, nombre, usuario, password_hash, rol FROM usuarios WHERE usuario = ?`

	u := &models.Usuario{}
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), usuario).Scan(&u.ID, &u.Nombre, &u.Usuario, &u.PasswordHash, &u.Rol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
