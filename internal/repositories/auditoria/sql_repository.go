package auditoria

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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

func (r *SQLRepository) Record(ctx context.Context, e *models.AuditEntry) error {
	if e.Fecha.IsZero() {
		e.Fecha = time.Now()
	}
	query := `INSERT INTO auditoria (usuario_id, accion, tabla, registro_id, datos_anteriores, datos_nuevos, fecha)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := r.d.InsertID(ctx, r.db, query,
		e.UsuarioID, e.Accion, e.Tabla, e.RegistroID, e.Before, e.After, e.Fecha.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := `SELECT id, usuario_id, accion, tabla, registro_id, datos_anteriores, datos_nuevos, fecha
		FROM auditoria ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit entries: %w", err)
	}
	defer rows.Close()

	result := []models.AuditEntry{}
	for rows.Next() {
		var (
			e             models.AuditEntry
			registroID    sql.NullInt64
			before, after sql.NullString
			fecha         string
		)
		if err := rows.Scan(&e.ID, &e.UsuarioID, &e.Accion, &e.Tabla, &registroID, &before, &after, &fecha); err != nil {
			return nil, err
		}
		e.RegistroID = dbx.Int64Ptr(registroID)
		e.Before = dbx.StringPtr(before)
		e.After = dbx.StringPtr(after)
		if t, err := time.Parse(time.RFC3339Nano, fecha); err == nil {
			e.Fecha = t
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
