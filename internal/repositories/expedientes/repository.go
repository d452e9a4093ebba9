package expedientes

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

// Repository provides persistence for expedientes.
type Repository interface {
	// Create inserts e (blank codes are stored as NULL) and returns its id.
	Create(ctx context.Context, e *models.Expediente) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Expediente, error)
	FindByCode(ctx context.Context, code string) (*models.Expediente, error)

	// CodeExists reports whether an expediente other than excludeID has code.
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)

	List(ctx context.Context) ([]models.Expediente, error)
	ListByPersona(ctx context.Context, personaID int64) ([]models.Expediente, error)
	Pending(ctx context.Context) ([]models.Expediente, error)
	Delivered(ctx context.Context) ([]models.Expediente, error)
	ByDateRange(ctx context.Context, field models.DateField, from, to string) ([]models.Expediente, error)

	MarkDelivered(ctx context.Context, id int64, date string) error
	Update(ctx context.Context, id int64, u updates.Update) error
	Referenced(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.ExpedienteStats, error)
}
