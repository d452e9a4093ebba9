package personas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Persona) (int64, error) {
	query := `INSERT INTO personas (nombre, dni, numero) VALUES (?, ?, ?)`

	id, err := r.d.InsertID(ctx, r.db, query, p.Nombre, p.DNI, p.Numero)
	if err != nil {
		return 0, fmt.Errorf("failed to insert persona: %w", err)
	}
	p.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Persona, error) {
	query := `SELECT id, nombre, dni, numero FROM personas WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) FindByDNI(ctx context.Context, dni string) (*models.Persona, error) {
	query := `SELECT id, nombre, dni, numero FROM personas WHERE dni = ? ORDER BY id ASC LIMIT 1`
	return r.getOne(ctx, query, dni)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.Persona, error) {
	p := &models.Persona{}
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), args...).Scan(&p.ID, &p.Nombre, &p.DNI, &p.Numero)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select persona: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) DNIExists(ctx context.Context, dni string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM personas WHERE dni = ? AND id <> ?`

	var n int64
	if err := r.db.QueryRowContext(ctx, r.d.Rebind(query), dni, excludeID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check dni: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Persona, error) {
	return r.list(ctx, `SELECT id, nombre, dni, numero FROM personas ORDER BY nombre ASC`)
}

func (r *SQLRepository) SearchByName(ctx context.Context, fragment string) ([]models.Persona, error) {
	return r.list(ctx, `SELECT id, nombre, dni, numero FROM personas WHERE nombre LIKE ? ORDER BY nombre ASC`, "%"+fragment+"%")
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Persona, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select personas: %w", err)
	}
	defer rows.Close()

	result := []models.Persona{}
	for rows.Next() {
		var p models.Persona
		if err := rows.Scan(&p.ID, &p.Nombre, &p.DNI, &p.Numero); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, u updates.Update) error {
	clause, args, err := updates.SetClause(u)
	if err != nil {
		return err
	}
	query := `UPDATE personas SET ` + clause + ` WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.d.Rebind(query), append(args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update persona: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Referenced(ctx context.Context, id int64) (bool, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM registros WHERE persona_id = ?) +
		(SELECT COUNT(*) FROM expedientes WHERE persona_id = ?)`

	var n int64
	if err := r.db.QueryRowContext(ctx, r.d.Rebind(query), id, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count persona references: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.d.Rebind(`DELETE FROM personas WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) CountWithActiveRegistros(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(DISTINCT persona_id) FROM registros WHERE eliminado = 0`

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count personas: %w", err)
	}
	return n, nil
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
