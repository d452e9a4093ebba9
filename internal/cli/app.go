package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/blob"
	"github.com/DioBrando0203/expedientes/internal/config"
	"github.com/DioBrando0203/expedientes/internal/database"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/metrics"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/DioBrando0203/expedientes/internal/services/exporter"
	"github.com/DioBrando0203/expedientes/internal/services/importer"
	"github.com/DioBrando0203/expedientes/internal/services/records"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	logger  logging.Logger
	metrics *metrics.Recorder

	auth     *auth.Service
	importer *importer.Service
	exporter *exporter.Service
	records  *records.Service

	session auth.Capability
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the store, sets up publishing and makes sure an
// administrator exists.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, m, err := database.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := blob.New(ctx, c)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := newApp(c, db, m, logger, store)

	created, err := a.auth.EnsureAdmin(ctx, c.AdminUser, c.AdminPassword)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}
	if created {
		logger.Warn(ctx, "default administrator created, change its password", "usuario", c.AdminUser)
	}
	return a, nil
}

func newApp(c *config.Config, db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, store blob.Store) *App {
	rec := metrics.NewRecorder()
	return &App{
		config:  c,
		db:      db,
		logger:  l,
		metrics: rec,
		auth:    auth.NewService(db, m, l),
		importer: importer.NewService(db, m, l, importer.Options{
			ResolvePersonByDNI: c.ResolvePersonByDNI,
			Metrics:            rec,
			Publisher:          store,
		}),
		exporter: exporter.NewService(db, m, l, exporter.Options{Metrics: rec, Publisher: store}),
		records:  records.NewService(db, m, l, nil),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// Run executes config.Args as one command, or starts the prompt when there
// are none. The database is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if len(a.config.Args) > 0 {
		if err := a.startSession(ctx); err != nil {
			return err
		}
		_, err := dispatch(ctx, a, a.config.Args)
		return err
	}

	printlnFn("Expedientes (escriba 'help' para ver los comandos)")
	if err := a.Login(ctx); err != nil {
		printlnFn("Error:", err)
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

// startSession picks the identity of a one-shot command: the configured
// user after a password prompt, or the system operator.
func (a *App) startSession(ctx context.Context) error {
	if a.config.User == "" {
		a.session = a.auth.System()
		return nil
	}
	return a.Login(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Role != ""
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.session.Name)
}

// flush writes the metrics textfile when one is configured.
func (a *App) flush(ctx context.Context) {
	if err := a.metrics.WriteTextfile(a.config.MetricsTextfile); err != nil {
		a.logger.Warn(ctx, "failed to write metrics textfile", "path", a.config.MetricsTextfile, "error", err)
	}
}
