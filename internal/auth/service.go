package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// SystemName is the actor recorded for unattended runs.
const SystemName = "sistema"

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *Service {
	return &Service{db: db, repomanager: m, logger: l}
}

// Login checks password against the stored bcrypt hash. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, usuario, password string) (Capability, error) {
	repo := s.repomanager.Usuarios(s.db)

	u, err := repo.GetByUsuario(ctx, strings.TrimSpace(usuario))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Capability{}, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return Capability{}, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return Capability{}, common.ErrorUnauthorized
	}

	entry := &models.AuditEntry{UsuarioID: u.ID, Accion: models.AccionAcceso, Tabla: "usuarios", RegistroID: &u.ID}
	if err := s.repomanager.Auditoria(s.db).Record(ctx, entry); err != nil {
		s.logger.Warn(ctx, "failed to audit login", "usuario", u.Usuario, "error", err)
	}

	return Capability{UserID: u.ID, Name: u.Usuario, Role: u.Rol}, nil
}

// System returns the operator capability used by unattended runs.
func (s *Service) System() Capability {
	return Capability{UserID: 0, Name: SystemName, Role: models.RoleOperator}
}

// CreateUser stores a new user with a bcrypt hash of password. Only
// administrators may call it.
func (s *Service) CreateUser(ctx context.Context, c Capability, nombre, usuario, password, rol string) (*models.Usuario, error) {
	if err := c.Require(models.RoleAdmin); err != nil {
		return nil, err
	}
	if rol != models.RoleAdmin && rol != models.RoleOperator {
		return nil, fmt.Errorf("%w: rol desconocido %q", common.ErrorValidation, rol)
	}

	u, err := newUsuario(nombre, usuario, password, rol)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Usuarios(tx)
		if _, err := users.GetByUsuario(ctx, u.Usuario); err == nil {
			return fmt.Errorf("%w: usuario %s", common.ErrorAlreadyExists, u.Usuario)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := users.Create(ctx, u); err != nil {
			return err
		}
		return s.repomanager.Auditoria(tx).Record(ctx, &models.AuditEntry{
			UsuarioID: c.UserID, Accion: models.AccionCrear, Tabla: "usuarios", RegistroID: &u.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap administrator when the usuarios table
// is empty. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, usuario, password string) (bool, error) {
	repo := s.repomanager.Usuarios(s.db)

	n, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	u, err := newUsuario("Administrador", usuario, password, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if _, err := repo.Create(ctx, u); err != nil {
		return false, err
	}

	s.logger.Info(ctx, "bootstrap administrator created", "usuario", u.Usuario)
	return true, nil
}

func newUsuario(nombre, usuario, password, rol string) (*models.Usuario, error) {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" || password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &models.Usuario{Nombre: strings.TrimSpace(nombre), Usuario: usuario, PasswordHash: hash, Rol: rol}, nil
}
