// Package importer reconciles an import workbook against the store: each
// registros row is validated, checked for duplicate expediente codes and
// committed in its own transaction. Row problems never abort the run.
package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/blob"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/metrics"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
	"github.com/google/uuid"
)

// Options tune an import Service. Zero values are usable.
type Options struct {
	// ResolvePersonByDNI reuses the oldest persona with the same real DNI
	// instead of inserting a new one for every row.
	ResolvePersonByDNI bool

	Metrics   *metrics.Recorder
	Publisher blob.Store
	Clock     datex.Clock
}

// Result is the outcome of one import run.
type Result struct {
	Success        bool     `json:"success"`
	RunID          string   `json:"runId"`
	Total          int      `json:"total"`
	Ignorados      int      `json:"ignorados"`
	FilasIgnoradas []int    `json:"filasIgnoradas"`
	Log            []string `json:"log"`
	LogFile        string   `json:"logFile"`
	Published      string   `json:"published,omitempty"`
	PublishError   string   `json:"publishError,omitempty"`
}

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	opts        Options
	newRunID    func() string
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = datex.SystemClock
	}
	return &Service{db: db, repomanager: m, logger: l, opts: opts, newRunID: uuid.NewString}
}

// Import runs the whole pipeline for the workbook at path. It fails only
// when the workbook cannot be read or lacks a required sheet
// (common.ErrMissingSheets); in every other case a Result is returned.
// When the log file cannot be written both the Result and the error are
// returned.
func (s *Service) Import(ctx context.Context, c auth.Capability, path string) (*Result, error) {
	if err := c.Require(models.RoleOperator); err != nil {
		return nil, err
	}

	started := s.opts.Clock()
	wb, err := spreadsheet.ReadWorkbook(path, spreadsheet.RequiredSheets)
	if err != nil {
		return nil, err
	}

	runID := s.newRunID()
	log := s.logger.With("run_id", runID, "file", filepath.Base(path))
	log.Info(ctx, "import started", "user", c.Name)

	run := &run{
		svc:     s,
		cap:     c,
		log:     log,
		today:   datex.Today(s.opts.Clock),
		files:   indexFiles(wb[spreadsheet.SheetExpedientes]),
		estados: newEstadoCache(),
		seen:    map[string]int{},
		report:  &report{},
	}

	rows := wb[spreadsheet.SheetRegistros].Rows
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		run.processRow(ctx, i+2, row)
	}

	res := &Result{
		Success:        true,
		RunID:          runID,
		Total:          run.report.imported,
		Ignorados:      len(run.report.ignored),
		FilasIgnoradas: run.report.ignoredRows(),
		Log:            run.report.summary(len(rows)),
	}

	s.opts.Metrics.ImportRun(time.Since(started))
	log.Info(ctx, "import finished", "processed", len(rows), "imported", res.Total, "ignored", res.Ignorados)

	res.LogFile, err = writeLog(filepath.Dir(path), datex.FileStamp(s.opts.Clock), res.Log)
	if err != nil {
		log.Error(ctx, "failed to write import log", "error", err)
		return res, err
	}

	s.publish(ctx, log, res)
	return res, nil
}

func (s *Service) publish(ctx context.Context, log logging.Logger, res *Result) {
	if s.opts.Publisher == nil {
		return
	}
	loc, err := blob.PutFile(ctx, s.opts.Publisher, blob.ImportLogKey(res.RunID, res.LogFile), res.LogFile, blob.ContentTypeText)
	if err != nil {
		log.Warn(ctx, "failed to publish import log", "error", err)
		res.PublishError = err.Error()
		return
	}
	res.Published = loc
}

// run holds the per-import state.
type run struct {
	svc     *Service
	cap     auth.Capability
	log     logging.Logger
	today   string
	files   filesIndex
	estados *estadoCache

	// seen maps expediente codes accepted earlier in this run to their row.
	seen   map[string]int
	report *report
}

func (r *run) processRow(ctx context.Context, fila int, row spreadsheet.Row) {
	m := r.svc.opts.Metrics
	c := buildCandidate(row, r.files, r.today)

	if !c.ValidDNI() {
		r.report.reject(fila, fmt.Sprintf("Fila %d: DNI inválido (%s), registro ignorado.", fila, c.DNI))
		m.ImportRow(metrics.OutcomeInvalid)
		return
	}

	if c.HasCode() {
		if _, ok := r.seen[c.Codigo]; ok {
			r.report.reject(fila, fmt.Sprintf("Fila %d: expediente duplicado en el archivo (%s), registro ignorado.", fila, c.Codigo))
			m.ImportRow(metrics.OutcomeDup)
			return
		}

		exists, err := r.svc.repomanager.Expedientes(r.svc.db).CodeExists(ctx, c.Codigo, 0)
		if err != nil {
			r.fail(ctx, fila, err)
			return
		}
		if exists {
			r.report.reject(fila, fmt.Sprintf("Fila %d: expediente duplicado (%s), registro ignorado.", fila, c.Codigo))
			m.ImportRow(metrics.OutcomeDup)
			return
		}
	}

	err := dbx.WithTx(ctx, r.svc.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return r.commit(ctx, tx, c)
	})
	if err != nil {
		r.fail(ctx, fila, err)
		return
	}

	if c.HasCode() {
		r.seen[c.Codigo] = fila
	}
	r.report.imported++
	m.ImportRow(metrics.OutcomeImported)
}

func (r *run) fail(ctx context.Context, fila int, err error) {
	r.log.Warn(ctx, "row rejected", "fila", fila, "error", err)
	r.report.reject(fila, fmt.Sprintf("Error fila %d: %s", fila, err.Error()))
	r.svc.opts.Metrics.ImportRow(metrics.OutcomeError)
}

// commit inserts persona, expediente and registro for one candidate.
func (r *run) commit(ctx context.Context, tx dbx.DBTX, c *Candidate) error {
	m := r.svc.repomanager

	personaID, err := r.persona(ctx, tx, c)
	if err != nil {
		return err
	}

	var expedienteID *int64
	if c.HasCode() {
		code := c.Codigo
		e := &models.Expediente{
			PersonaID:      personaID,
			Codigo:         &code,
			FechaSolicitud: c.FechaSolicitud,
			FechaEntrega:   c.FechaEntrega,
			Observacion:    c.Observacion,
		}
		id, err := m.Expedientes(tx).Create(ctx, e)
		if err != nil {
			return err
		}
		expedienteID = &id
	}

	estadoID, err := r.estados.resolve(ctx, m.Estados(tx), c.Estado)
	if err != nil {
		return err
	}

	reg := &models.Registro{
		PersonaID:     personaID,
		ExpedienteID:  expedienteID,
		EstadoID:      estadoID,
		FechaRegistro: c.FechaRegistro,
		FechaEnCaja:   c.FechaEnCaja,
		Status:        models.StatusActive,
	}
	id, err := m.Registros(tx).Create(ctx, reg)
	if err != nil {
		return err
	}

	after, err := json.Marshal(c)
	if err != nil {
		return err
	}
	doc := string(after)
	return m.Auditoria(tx).Record(ctx, &models.AuditEntry{
		UsuarioID:  r.cap.UserID,
		Accion:     models.AccionImportar,
		Tabla:      "registros",
		RegistroID: &id,
		After:      &doc,
	})
}

func (r *run) persona(ctx context.Context, tx dbx.DBTX, c *Candidate) (int64, error) {
	repo := r.svc.repomanager.Personas(tx)

	if r.svc.opts.ResolvePersonByDNI && c.DNI != common.UnknownValue {
		p, err := repo.FindByDNI(ctx, c.DNI)
		if err == nil {
			return p.ID, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return 0, err
		}
	}

	return repo.Create(ctx, &models.Persona{Nombre: c.Nombre, DNI: c.DNI, Numero: c.Numero})
}
