// Package repomanager vends repositories bound to a dbx.DBTX (a *sql.DB or
// a transaction) and runs the goose migrations of the configured dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/migrations"
	"github.com/DioBrando0203/expedientes/internal/repositories/auditoria"
	"github.com/DioBrando0203/expedientes/internal/repositories/estados"
	"github.com/DioBrando0203/expedientes/internal/repositories/expedientes"
	"github.com/DioBrando0203/expedientes/internal/repositories/personas"
	"github.com/DioBrando0203/expedientes/internal/repositories/registros"
	"github.com/DioBrando0203/expedientes/internal/repositories/usuarios"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Personas(db dbx.DBTX) personas.Repository
	Expedientes(db dbx.DBTX) expedientes.Repository
	Registros(db dbx.DBTX) registros.Repository
	Estados(db dbx.DBTX) estados.Repository
	Auditoria(db dbx.DBTX) auditoria.Repository
	Usuarios(db dbx.DBTX) usuarios.Repository
}

// SQLRepositoryManager vends the database/sql repositories of one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// NewRepositoryManager constructs a RepositoryManager for d.
func NewRepositoryManager(d dbx.Dialect) RepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

func (m *SQLRepositoryManager) Personas(db dbx.DBTX) personas.Repository {
	return personas.NewRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Expedientes(db dbx.DBTX) expedientes.Repository {
	return expedientes.NewRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Registros(db dbx.DBTX) registros.Repository {
	return registros.NewRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Estados(db dbx.DBTX) estados.Repository {
	return estados.NewRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Auditoria(db dbx.DBTX) auditoria.Repository {
	return auditoria.NewRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Usuarios(db dbx.DBTX) usuarios.Repository {
	return usuarios.NewRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations of the manager's
// dialect and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, string(m.dialect)); err != nil {
		return err
	}
	return nil
}
