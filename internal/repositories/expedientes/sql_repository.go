package expedientes

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

const selectJoined = `SELECT e.id, e.persona_id, e.codigo, e.fecha_solicitud, e.fecha_entrega, e.observacion, p.nombre, p.dni
	FROM expedientes e
	JOIN personas p ON e.persona_id = p.id`

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.Expediente) (int64, error) {
	query := `INSERT INTO expedientes (persona_id, codigo, fecha_solicitud, fecha_entrega, observacion)
		VALUES (?, NULLIF(?, ''), ?, ?, ?)`

	code := ""
	if e.Codigo != nil {
		code = *e.Codigo
	}

	id, err := r.d.InsertID(ctx, r.db, query, e.PersonaID, code, e.FechaSolicitud, e.FechaEntrega, e.Observacion)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expediente: %w", err)
	}
	e.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Expediente, error) {
	return r.getOne(ctx, selectJoined+` WHERE e.id = ?`, id)
}

func (r *SQLRepository) FindByCode(ctx context.Context, code string) (*models.Expediente, error) {
	return r.getOne(ctx, selectJoined+` WHERE e.codigo = ?`, code)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.Expediente, error) {
	rows, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return &rows[0], nil
}

func (r *SQLRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := `SELECT id FROM expedientes WHERE codigo = ?`
	args := []any{code}
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check expediente code: %w", err)
	}
	return true, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Expediente, error) {
	return r.list(ctx, selectJoined+` ORDER BY e.id DESC`)
}

func (r *SQLRepository) ListByPersona(ctx context.Context, personaID int64) ([]models.Expediente, error) {
	return r.list(ctx, selectJoined+` WHERE e.persona_id = ? ORDER BY e.id DESC`, personaID)
}

func (r *SQLRepository) Pending(ctx context.Context) ([]models.Expediente, error) {
	return r.list(ctx, selectJoined+` WHERE e.fecha_entrega IS NULL ORDER BY e.fecha_solicitud ASC`)
}

func (r *SQLRepository) Delivered(ctx context.Context) ([]models.Expediente, error) {
	return r.list(ctx, selectJoined+` WHERE e.fecha_entrega IS NOT NULL ORDER BY e.fecha_entrega DESC`)
}

func (r *SQLRepository) ByDateRange(ctx context.Context, field models.DateField, from, to string) ([]models.Expediente, error) {
	column := "e.fecha_solicitud"
	if field == models.DateEntrega {
		column = "e.fecha_entrega"
	}
	return r.list(ctx, selectJoined+` WHERE `+column+` BETWEEN ? AND ? ORDER BY `+column+` DESC`, from, to)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Expediente, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select expedientes: %w", err)
	}
	defer rows.Close()

	result := []models.Expediente{}
	for rows.Next() {
		var (
			e                                 models.Expediente
			codigo, solicitud, entrega, notas sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.PersonaID, &codigo, &solicitud, &entrega, &notas, &e.PersonaNombre, &e.PersonaDNI); err != nil {
			return nil, err
		}
		e.Codigo = dbx.StringPtr(codigo)
		e.FechaSolicitud = dbx.StringPtr(solicitud)
		e.FechaEntrega = dbx.StringPtr(entrega)
		e.Observacion = dbx.StringPtr(notas)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) MarkDelivered(ctx context.Context, id int64, date string) error {
	result, err := r.db.ExecContext(ctx, r.d.Rebind(`UPDATE expedientes SET fecha_entrega = ? WHERE id = ?`), date, id)
	if err != nil {
		return fmt.Errorf("failed to mark expediente delivered: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Update(ctx context.Context, id int64, u updates.Update) error {
	clause, args, err := updates.SetClause(u)
	if err != nil {
		return err
	}
	query := `UPDATE expedientes SET ` + clause + ` WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.d.Rebind(query), append(args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update expediente: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Referenced(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, r.d.Rebind(`SELECT COUNT(*) FROM registros WHERE expediente_id = ?`), id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to count expediente references: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, r.d.Rebind(`DELETE FROM expedientes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete expediente: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Stats(ctx context.Context) (*models.ExpedienteStats, error) {
	s := &models.ExpedienteStats{PorAnio: []models.YearCount{}}

	query := `SELECT COUNT(*), COUNT(fecha_entrega) FROM expedientes`
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Entregados); err != nil {
		return nil, fmt.Errorf("failed to count expedientes: %w", err)
	}
	s.Pendientes = s.Total - s.Entregados

	rows, err := r.db.QueryContext(ctx, `SELECT SUBSTR(fecha_solicitud, 1, 4) AS anio, COUNT(*)
		FROM expedientes
		WHERE fecha_solicitud IS NOT NULL
		GROUP BY SUBSTR(fecha_solicitud, 1, 4)
		ORDER BY anio DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to group expedientes by year: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var yc models.YearCount
		if err := rows.Scan(&yc.Anio, &yc.Total); err != nil {
			return nil, err
		}
		s.PorAnio = append(s.PorAnio, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
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
