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

const tablaExpedientes = "expedientes"

type Expedientes struct {
	base
}

// MarkDelivered sets fecha_entrega. An empty date means today; anything
// else must be a recognised date format.
func (s *Expedientes) MarkDelivered(ctx context.Context, c auth.Capability, id int64, date string) (string, error) {
	if err := c.Require(models.RoleOperator); err != nil {
		return "", err
	}

	day := datex.Today(s.clock)
	if date != "" {
		d, ok := datex.Normalize(date)
		if !ok {
			return "", fmt.Errorf("%w: fecha de entrega %q", common.ErrorValidation, date)
		}
		day = d
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Expedientes(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.MarkDelivered(ctx, id, day); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEditar, tablaExpedientes, id, before, map[string]string{"fecha_entrega": day})
	})
	if err != nil {
		return "", err
	}
	return day, nil
}

// Update applies the allow-listed fields of u. A new code must not belong
// to another expediente.
func (s *Expedientes) Update(ctx context.Context, c auth.Capability, id int64, u *updates.ExpedienteUpdate) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Expedientes(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if code, ok := u.CodigoValue(); ok && code != nil {
			taken, err := repo.CodeExists(ctx, *code, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: expediente %s", common.ErrorAlreadyExists, *code)
			}
		}

		if err := repo.Update(ctx, id, u); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEditar, tablaExpedientes, id, before, changes(u))
	})
}

// Delete removes an expediente no registro points at.
func (s *Expedientes) Delete(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Expedientes(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		used, err := repo.Referenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: expediente %d", common.ErrorReferenced, id)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEliminar, tablaExpedientes, id, before, nil)
	})
}

func (s *Expedientes) Pending(ctx context.Context) ([]models.Expediente, error) {
	return s.repomanager.Expedientes(s.db).Pending(ctx)
}

func (s *Expedientes) Delivered(ctx context.Context) ([]models.Expediente, error) {
	return s.repomanager.Expedientes(s.db).Delivered(ctx)
}

// ByDateRange lists expedientes whose solicitud or entrega date falls in
// [from, to]. Both bounds are normalized first.
func (s *Expedientes) ByDateRange(ctx context.Context, field models.DateField, from, to string) ([]models.Expediente, error) {
	if field != models.DateSolicitud && field != models.DateEntrega {
		return nil, fmt.Errorf("%w: campo de fecha %q", common.ErrorValidation, field)
	}
	f, ok := datex.Normalize(from)
	if !ok {
		return nil, fmt.Errorf("%w: fecha %q", common.ErrorValidation, from)
	}
	t, ok := datex.Normalize(to)
	if !ok {
		return nil, fmt.Errorf("%w: fecha %q", common.ErrorValidation, to)
	}
	return s.repomanager.Expedientes(s.db).ByDateRange(ctx, field, f, t)
}

func (s *Expedientes) Stats(ctx context.Context) (*models.ExpedienteStats, error) {
	return s.repomanager.Expedientes(s.db).Stats(ctx)
}
