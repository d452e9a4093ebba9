package auditoria

import (
	"context"

	"github.com/DioBrando0203/expedientes/internal/models"
)

// Repository appends and reads audit entries. There is no update or delete.
type Repository interface {
	Record(ctx context.Context, e *models.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}
