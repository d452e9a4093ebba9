package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/models"
)

const tablaEstados = "estados"

// Estados manages the estado catalogue. Mutations are for administrators.
type Estados struct {
	base
}

func (s *Estados) List(ctx context.Context) ([]models.Estado, error) {
	return s.repomanager.Estados(s.db).List(ctx)
}

func (s *Estados) Stats(ctx context.Context) ([]models.EstadoStats, error) {
	return s.repomanager.Estados(s.db).Stats(ctx)
}

// EnsureDefaults re-creates any missing default estado.
func (s *Estados) EnsureDefaults(ctx context.Context) error {
	return s.repomanager.Estados(s.db).EnsureDefaults(ctx, common.DefaultEstados)
}

func (s *Estados) Create(ctx context.Context, c auth.Capability, name string) (int64, error) {
	if err := c.Require(models.RoleAdmin); err != nil {
		return 0, err
	}
	name, err := estadoName(name)
	if err != nil {
		return 0, err
	}

	var id int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Estados(tx)
		if err := unique(ctx, repo.NameExists, name, 0); err != nil {
			return err
		}
		if id, err = repo.Create(ctx, name); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionCrear, tablaEstados, id, nil, map[string]string{"nombre": name})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Estados) Rename(ctx context.Context, c auth.Capability, id int64, name string) error {
	if err := c.Require(models.RoleAdmin); err != nil {
		return err
	}
	name, err := estadoName(name)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Estados(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := unique(ctx, repo.NameExists, name, id); err != nil {
			return err
		}
		if err := repo.Rename(ctx, id, name); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEditar, tablaEstados, id, before, map[string]string{"nombre": name})
	})
}

// Delete removes an estado no registro uses.
func (s *Estados) Delete(ctx context.Context, c auth.Capability, id int64) error {
	if err := c.Require(models.RoleAdmin); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Estados(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		used, err := repo.Referenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: estado %s", common.ErrorReferenced, before.Nombre)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.audit(ctx, tx, c, models.AccionEliminar, tablaEstados, id, before, nil)
	})
}

func estadoName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: el nombre del estado es obligatorio", common.ErrorValidation)
	}
	return name, nil
}

func unique(ctx context.Context, exists func(context.Context, string, int64) (bool, error), name string, excludeID int64) error {
	taken, err := exists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: estado %s", common.ErrorAlreadyExists, name)
	}
	return nil
}
