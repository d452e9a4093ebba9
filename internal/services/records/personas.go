package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

const tablaPersonas = "personas"

type Personas struct {
	base
}

func (s *Personas) SearchByName(ctx context.Context, fragment string) ([]models.Persona, error) {
	return s.repomanager.Personas(s.db).SearchByName(ctx, strings.TrimSpace(fragment))
}

// Update applies the allow-listed fields of u. A real DNI must be well
// formed and not belong to another persona; the sentinel is never unique.
func (s *Personas) Update(ctx context.Context, c auth.Capability, id int64, u *updates.PersonaUpdate) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}

	dni, hasDNI := u.DNIValue()
	if hasDNI && !models.ValidDNI(dni) {
		return fmt.Errorf("%w: DNI inválido (%s)", common.ErrorValidation, dni)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Personas(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if hasDNI && dni != common.UnknownValue {
			taken, err := repo.DNIExists(ctx, dni, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: DNI %s", common.ErrorAlreadyExists, dni)
			}
		}

		if err := repo.Update(ctx, id, u); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEditar, tablaPersonas, id, before, changes(u))
	})
}

// Delete removes a persona no registro or expediente points at.
func (s *Personas) Delete(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleOperator); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Personas(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		used, err := repo.Referenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: persona %d", common.ErrorReferenced, id)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEliminar, tablaPersonas, id, before, nil)
	})
}
