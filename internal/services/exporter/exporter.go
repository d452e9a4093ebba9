// Package exporter dumps the store into a four-sheet workbook and writes
// empty import templates.
package exporter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/blob"
	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/metrics"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
)

type Options struct {
	Metrics   *metrics.Recorder
	Publisher blob.Store
	Clock     datex.Clock
}

type Result struct {
	Success      bool           `json:"success"`
	FilePath     string         `json:"filePath"`
	Rows         map[string]int `json:"rows"`
	Published    string         `json:"published,omitempty"`
	PublishError string         `json:"publishError,omitempty"`
}

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	opts        Options
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = datex.SystemClock
	}
	return &Service{db: db, repomanager: m, logger: l, opts: opts}
}

// Export writes every table to a workbook at path. The four reads share one
// transaction so the sheets agree with each other. Any failure fails the
// whole export and leaves nothing at path.
func (s *Service) Export(ctx context.Context, c auth.Capability, path string) (res *Result, err error) {
	if err := c.Require(models.RoleOperator); err != nil {
		return nil, err
	}

	started := s.opts.Clock()
	defer func() { s.opts.Metrics.ExportRun(err == nil, time.Since(started)) }()

	sheets, err := s.collect(ctx)
	if err != nil {
		s.logger.Error(ctx, "export query failed", "error", err)
		return nil, err
	}

	if err := spreadsheet.WriteWorkbook(path, sheets); err != nil {
		s.logger.Error(ctx, "export write failed", "file", path, "error", err)
		return nil, err
	}

	res = &Result{Success: true, FilePath: path, Rows: make(map[string]int, len(sheets))}
	for _, sh := range sheets {
		res.Rows[sh.Name] = len(sh.Rows)
	}

	if err := s.audit(ctx, c, res); err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}
	s.logger.Info(ctx, "export finished", "file", path, "user", c.Name, "registros", res.Rows[spreadsheet.SheetRegistros])

	s.publish(ctx, started, res)
	return res, nil
}

func (s *Service) collect(ctx context.Context) ([]*spreadsheet.Sheet, error) {
	queries := queriesFor(s.repomanager.Dialect())
	sheets := make([]*spreadsheet.Sheet, 0, len(queries))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, q := range queries {
			t, err := dbx.Query(ctx, tx, q.query)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", q.sheet, err)
			}
			sheets = append(sheets, toSheet(q.sheet, t))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func toSheet(name string, t *dbx.Table) *spreadsheet.Sheet {
	sh := &spreadsheet.Sheet{Name: name, Headers: t.Columns, Rows: make([]spreadsheet.Row, len(t.Rows))}
	for i, r := range t.Rows {
		sh.Rows[i] = spreadsheet.Row(r)
	}
	return sh
}

func (s *Service) audit(ctx context.Context, c auth.Capability, res *Result) error {
	b, err := json.Marshal(map[string]any{"file": filepath.Base(res.FilePath), "rows": res.Rows})
	if err != nil {
		return err
	}
	doc := string(b)
	return s.repomanager.Auditoria(s.db).Record(ctx, &models.AuditEntry{
		UsuarioID: c.UserID,
		Accion:    models.AccionExportar,
		Tabla:     spreadsheet.SheetRegistros,
		After:     &doc,
	})
}

func (s *Service) publish(ctx context.Context, at time.Time, res *Result) {
	if s.opts.Publisher == nil {
		return
	}
	loc, err := blob.PutFile(ctx, s.opts.Publisher, blob.ExportKey(at, res.FilePath), res.FilePath, blob.ContentTypeXLSX)
	if err != nil {
		s.logger.Warn(ctx, "failed to publish export", "file", res.FilePath, "error", err)
		res.PublishError = err.Error()
		return
	}
	res.Published = loc
}

// Template writes an empty import workbook with the required sheets and
// their expected headers.
func Template(path string) error {
	sheets := make([]*spreadsheet.Sheet, 0, len(spreadsheet.RequiredSheets))
	for _, name := range spreadsheet.RequiredSheets {
		sheets = append(sheets, &spreadsheet.Sheet{Name: name, Headers: spreadsheet.ImportColumns[name]})
	}
	return spreadsheet.WriteWorkbook(path, sheets)
}
