package registros

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

// Repository provides persistence for registros. Soft-deleted entries stay in
// the table with eliminado = 1 and are read through the StatusDeleted variant.
type Repository interface {
	Create(ctx context.Context, reg *models.Registro) (int64, error)

	// GetByID returns the registro regardless of its status.
	GetByID(ctx context.Context, id int64) (*models.Registro, error)

	// List returns registros with the given status, newest first.
	List(ctx context.Context, status models.Status) ([]models.Registro, error)

	// SetStatus moves a registro between Active and Deleted. It returns
	// common.ErrorNotFound when the registro is missing or already in status.
	SetStatus(ctx context.Context, id int64, status models.Status) error

	Update(ctx context.Context, id int64, u updates.Update) error

	// Purge physically removes one soft-deleted registro.
	Purge(ctx context.Context, id int64) error

	// PurgeDeleted removes every soft-deleted registro and returns how many.
	PurgeDeleted(ctx context.Context) (int64, error)
}
