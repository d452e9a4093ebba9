package personas

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/updates"
)

// Repository provides persistence for personas.
type Repository interface {
	// Create inserts p and returns its generated id.
	Create(ctx context.Context, p *models.Persona) (int64, error)

	// GetByID returns common.ErrorNotFound when no persona has the id.
	GetByID(ctx context.Context, id int64) (*models.Persona, error)

	// FindByDNI returns the oldest persona with the DNI or common.ErrorNotFound.
	FindByDNI(ctx context.Context, dni string) (*models.Persona, error)

	// DNIExists reports whether another persona (id != excludeID) has dni.
	DNIExists(ctx context.Context, dni string, excludeID int64) (bool, error)

	List(ctx context.Context) ([]models.Persona, error)
	SearchByName(ctx context.Context, fragment string) ([]models.Persona, error)
	Update(ctx context.Context, id int64, u updates.Update) error

	// Referenced reports whether any registro or expediente points at the persona.
	Referenced(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error

	// CountWithActiveRegistros counts distinct personas with a non-deleted registro.
	CountWithActiveRegistros(ctx context.Context) (int64, error)
}
