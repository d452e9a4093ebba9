// Package records holds the everyday operations around the import
// pipeline: editing, soft-deleting and restoring registros, delivering
// expedientes, and maintaining personas and estados. Every mutation takes
// an auth.Capability and leaves an audit entry in the same transaction.
package records

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

// Service groups the per-table services over one store.
type Service struct {
	Registros   *Registros
	Expedientes *Expedientes
	Personas    *Personas
	Estados     *Estados

	base
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, clock datex.Clock) *Service {
	if clock == nil {
		clock = datex.SystemClock
	}
	b := base{db: db, repomanager: m, logger: l, clock: clock}
	return &Service{
		Registros:   &Registros{b},
		Expedientes: &Expedientes{b},
		Personas:    &Personas{b},
		Estados:     &Estados{b},
		base:        b,
	}
}

// Summary is the dashboard view of the store.
type Summary struct {
	Expedientes     *models.ExpedienteStats
	Estados         []models.EstadoStats
	PersonasActivas int64
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	exp, err := s.repomanager.Expedientes(s.db).Stats(ctx)
	if err != nil {
		return nil, err
	}
	est, err := s.repomanager.Estados(s.db).Stats(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.repomanager.Personas(s.db).CountWithActiveRegistros(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Expedientes: exp, Estados: est, PersonasActivas: n}, nil
}

type base struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	clock       datex.Clock
}

// audit records accion on tabla/id. before and after are stored as JSON
// when not nil.
func (b base) audit(ctx context.Context, tx dbx.DBTX, c auth.Capability, accion, tabla string, id int64, before, after any) error {
	e := &models.AuditEntry{UsuarioID: c.UserID, Accion: accion, Tabla: tabla, RegistroID: &id}

	var err error
	if e.Before, err = jsonPtr(before); err != nil {
		return err
	}
	if e.After, err = jsonPtr(after); err != nil {
		return err
	}
	return b.repomanager.Auditoria(tx).Record(ctx, e)
}

func jsonPtr(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// changes renders an update as a column map for the audit trail.
func changes(u updates.Update) map[string]any {
	as := u.Assignments()
	out := make(map[string]any, len(as))
	for _, a := range as {
		out[a.Column] = a.Value
	}
	return out
}
