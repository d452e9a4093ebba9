package estados

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
)

// Repository provides persistence for estados.
type Repository interface {
	List(ctx context.Context) ([]models.Estado, error)
	GetByID(ctx context.Context, id int64) (*models.Estado, error)
	FindByName(ctx context.Context, name string) (*models.Estado, error)

	// NameExists reports whether an estado other than excludeID is called name.
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)

	Create(ctx context.Context, name string) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Referenced(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error

	// EnsureDefaults inserts every name that does not exist yet.
	EnsureDefaults(ctx context.Context, names []string) error

	// Stats counts registros per estado, split by soft-delete status.
	Stats(ctx context.Context) ([]models.EstadoStats, error)
}
