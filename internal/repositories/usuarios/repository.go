package usuarios

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
)

// Repository provides persistence for application users.
type Repository interface {
	Create(ctx context.Context, u *models.Usuario) (int64, error)

	// GetByUsuario returns common.ErrorNotFound for an unknown login.
	GetByUsuario(ctx context.Context, usuario string) (*models.Usuario, error)
	Count(ctx context.Context) (int64, error)
}
