package records

import (
	"context"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

const tablaRegistros = "registros"

type Registros struct {
	base
}

// NewRegistro is the input of Registros.Create. Empty dates fall back to
// today and "No entregado".
type NewRegistro struct {
	PersonaID     int64
	ExpedienteID  *int64
	EstadoID      int64
	FechaRegistro string
	FechaEnCaja   string
}

func (s *Registros) Create(ctx context.Context, c auth.Capability, in NewRegistro) (*models.Registro, error) {
	if err := c.Require(models.RoleOperator); err != nil {
		return nil, err
	}

	reg := &models.Registro{
		PersonaID:     in.PersonaID,
		ExpedienteID:  in.ExpedienteID,
		EstadoID:      in.EstadoID,
		FechaRegistro: datex.Today(s.clock),
		FechaEnCaja:   common.NotDelivered,
		Status:        models.StatusActive,
	}
	if in.FechaRegistro != "" {
		d, ok := datex.Normalize(in.FechaRegistro)
		if !ok {
			return nil, fmt.Errorf("%w: fecha de registro %q", common.ErrorValidation, in.FechaRegistro)
		}
		reg.FechaRegistro = d
	}
	if d, ok := datex.Normalize(in.FechaEnCaja); ok {
		reg.FechaEnCaja = d
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repomanager.Registros(tx).Create(ctx, reg)
		if err != nil {
			return err
		}
		reg.ID = id
		return s.audit(ctx, tx, c, models.AccionCrear, tablaRegistros, id, nil, reg)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Update applies the allow-listed fields of u.
func (s *Registros) Update(ctx context.Context, c auth.Capability, id int64, u *updates.RegistroUpdate) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Registros(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, id, u); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEditar, tablaRegistros, id, before, changes(u))
	})
}

// SoftDelete moves an active registro to the recycle bin.
func (s *Registros) SoftDelete(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return s.setStatus(ctx, c, id, models.StatusDeleted, models.AccionEliminar)
}

// Restore brings a registro back from the recycle bin.
func (s *Registros) Restore(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return s.setStatus(ctx, c, id, models.StatusActive, models.AccionRestaurar)
}

func (s *Registros) setStatus(ctx context.Context, c auth.Capability, id int64, status models.Status, accion string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Registros(tx).SetStatus(ctx, id, status); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, accion, tablaRegistros, id, nil, map[string]string{"estado": status.String()})
	})
}

// Purge physically removes one registro that is already in the recycle
// bin. Administrators only.
func (s *Registros) Purge(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleAdmin); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Registros(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if before.Status != models.StatusDeleted {
			return fmt.Errorf("%w: el registro %d no está en la papelera", common.ErrorValidation, id)
		}
		if err := repo.Purge(ctx, id); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionPurgar, tablaRegistros, id, before, nil)
	})
}

// EmptyRecycleBin purges every soft-deleted registro and returns how many
// were removed. Administrators only.
func (s *Registros) EmptyRecycleBin(ctx context.Context, c auth.Capability) (int64, error) {
	if err := c.Require(models.RoleAdmin); err != nil {
		return 0, err
	}

	var n int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if n, err = s.repomanager.Registros(tx).PurgeDeleted(ctx); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionPurgar, tablaRegistros, 0, nil, map[string]int64{"eliminados": n})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "recycle bin emptied", "user", c.Name, "purged", n)
	return n, nil
}

func (s *Registros) ListActive(ctx context.Context) ([]models.Registro, error) {
	return s.repomanager.Registros(s.db).List(ctx, models.StatusActive)
}

// ListDeleted is the recycle bin.
func (s *Registros) ListDeleted(ctx context.Context) ([]models.Registro, error) {
	return s.repomanager.Registros(s.db).List(ctx, models.StatusDeleted)
}
