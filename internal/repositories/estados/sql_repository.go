package estados

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

func (r *SQLRepository) List(ctx context.Context) ([]models.Estado, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nombre FROM estados ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select estados: %w", err)
	}
	defer rows.Close()

	result := []models.Estado{}
	for rows.Next() {
		var e models.Estado
		if err := rows.Scan(&e.ID, &e.Nombre); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Estado, error) {
	return r.getOne(ctx, `SELECT id, nombre FROM estados WHERE id = ?`, id)
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*models.Estado, error) {
	return r.getOne(ctx, `SELECT id, nombre FROM estados WHERE nombre = ?`, name)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.Estado, error) {
	e := &models.Estado{}
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), args...).Scan(&e.ID, &e.Nombre)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select estado: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, r.d.Rebind(`SELECT COUNT(*) FROM estados WHERE nombre = ? AND id <> ?`), name, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check estado name: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Create(ctx context.Context, name string) (int64, error) {
	id, err := r.d.InsertID(ctx, r.db, `INSERT INTO estados (nombre) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert estado: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.ExecContext(ctx, r.d.Rebind(`UPDATE estados SET nombre = ? WHERE id = ?`), name, id)
	if err != nil {
		return fmt.Errorf("failed to rename estado: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Referenced(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, r.d.Rebind(`SELECT COUNT(*) FROM registros WHERE estado_id = ?`), id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to count estado references: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.d.Rebind(`DELETE FROM estados WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete estado: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) EnsureDefaults(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if _, err := r.Create(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) Stats(ctx context.Context) ([]models.EstadoStats, error) {
	query := `SELECT e.nombre,
			COUNT(r.id) AS total_registros,
			COUNT(CASE WHEN r.eliminado = 0 THEN 1 END) AS activos,
			COUNT(CASE WHEN r.eliminado = 1 THEN 1 END) AS eliminados
		FROM estados e
		LEFT JOIN registros r ON r.estado_id = e.id
		GROUP BY e.id, e.nombre
		ORDER BY e.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select estado stats: %w", err)
	}
	defer rows.Close()

	result := []models.EstadoStats{}
	for rows.Next() {
		var s models.EstadoStats
		if err := rows.Scan(&s.Nombre, &s.Total, &s.Activos, &s.Eliminados); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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
