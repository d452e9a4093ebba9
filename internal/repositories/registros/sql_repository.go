package registros

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

const selectJoined = `SELECT r.id, r.persona_id, r.expediente_id, r.estado_id, r.fecha_registro, r.fecha_en_caja, r.eliminado,
		p.nombre, p.dni, p.numero, e.codigo, s.nombre
	FROM registros r
	JOIN personas p ON r.persona_id = p.id
	LEFT JOIN expedientes e ON r.expediente_id = e.id
	JOIN estados s ON r.estado_id = s.id`

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Create(ctx context.Context, reg *models.Registro) (int64, error) {
	query := `INSERT INTO registros (persona_id, expediente_id, estado_id, fecha_registro, fecha_en_caja, eliminado)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := r.d.InsertID(ctx, r.db, query,
		reg.PersonaID, reg.ExpedienteID, reg.EstadoID, reg.FechaRegistro, reg.FechaEnCaja, reg.Status.Flag())
	if err != nil {
		return 0, fmt.Errorf("failed to insert registro: %w", err)
	}
	reg.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Registro, error) {
	items, err := r.list(ctx, selectJoined+` WHERE r.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.ErrorNotFound
	}
	return &items[0], nil
}

func (r *SQLRepository) List(ctx context.Context, status models.Status) ([]models.Registro, error) {
	return r.list(ctx, selectJoined+` WHERE r.eliminado = ? ORDER BY r.id DESC`, status.Flag())
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Registro, error) {
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select registros: %w", err)
	}
	defer rows.Close()

	result := []models.Registro{}
	for rows.Next() {
		var (
			reg        models.Registro
			expediente sql.NullInt64
			codigo     sql.NullString
			eliminado  int64
		)
		err := rows.Scan(&reg.ID, &reg.PersonaID, &expediente, &reg.EstadoID, &reg.FechaRegistro, &reg.FechaEnCaja, &eliminado,
			&reg.Nombre, &reg.DNI, &reg.Numero, &codigo, &reg.Estado)
		if err != nil {
			return nil, err
		}
		reg.ExpedienteID = dbx.Int64Ptr(expediente)
		reg.Expediente = dbx.StringPtr(codigo)
		reg.Status = models.StatusFromFlag(eliminado)
		result = append(result, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) SetStatus(ctx context.Context, id int64, status models.Status) error {
	from := models.StatusActive
	if status == models.StatusActive {
		from = models.StatusDeleted
	}

	query := `UPDATE registros SET eliminado = ? WHERE id = ? AND eliminado = ?`
	result, err := r.db.ExecContext(ctx, r.d.Rebind(query), status.Flag(), id, from.Flag())
	if err != nil {
		return fmt.Errorf("failed to change registro status: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Update(ctx context.Context, id int64, u updates.Update) error {
	clause, args, err := updates.SetClause(u)
	if err != nil {
		return err
	}
	query := `UPDATE registros SET ` + clause + ` WHERE id = ?`

	result, err := r.db.ExecContext(ctx, r.d.Rebind(query), append(args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update registro: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) Purge(ctx context.Context, id int64) error {
	query := `DELETE FROM registros WHERE id = ? AND eliminado = 1`
	result, err := r.db.ExecContext(ctx, r.d.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("failed to purge registro: %w", err)
	}
	return expectOne(result)
}

func (r *SQLRepository) PurgeDeleted(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registros WHERE eliminado = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to empty recycle bin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
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
