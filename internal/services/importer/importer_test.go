package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DioBrando0203/expedientes/internal/auth"
	"github.com/DioBrando0203/expedientes/internal/blob"
	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/logging"
	"github.com/DioBrando0203/expedientes/internal/metrics"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/repositories/repomanager"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
	"github.com/DioBrando0203/expedientes/internal/testutil/dbtest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	operator = auth.Capability{UserID: 7, Name: "ana", Role: models.RoleOperator}

	registrosHeader = []any{"Nombre", "Número", "DNI", "Expediente", "Fecha de Registro", "Estado", "Fecha en Caja"}
	filesHeader     = []any{"Código", "Fecha de Solicitud", "Fecha de Entrega", "Observación"}
	personasHeader  = []any{"Nombre", "DNI", "Número"}
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
}

// writeWorkbook saves sheets, in order, to dir/carga.xlsx.
func writeWorkbook(t *testing.T, dir string, sheets map[string][][]any, order []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	path := filepath.Join(dir, "carga.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func standardWorkbook(t *testing.T, dir string, registros [][]any, files [][]any) string {
	t.Helper()
	return writeWorkbook(t, dir, map[string][][]any{
		spreadsheet.SheetPersonas:    {personasHeader},
		spreadsheet.SheetExpedientes: append([][]any{filesHeader}, files...),
		spreadsheet.SheetRegistros:   append([][]any{registrosHeader}, registros...),
	}, []string{spreadsheet.SheetPersonas, spreadsheet.SheetExpedientes, spreadsheet.SheetRegistros})
}

type env struct {
	db  *sql.DB
	m   repomanager.RepositoryManager
	svc *Service
}

func newEnv(t *testing.T, opts Options) env {
	t.Helper()
	db := dbtest.NewSQLite(t)
	m := repomanager.NewRepositoryManager(dbx.SQLite)
	opts.Clock = fixedClock
	svc := NewService(db, m, logging.Discard(), opts)
	svc.newRunID = func() string { return "run-1" }
	return env{db: db, m: m, svc: svc}
}

func (e env) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func (e env) seedExpediente(t *testing.T, code string) {
	t.Helper()
	ctx := context.Background()
	pid, err := e.m.Personas(e.db).Create(ctx, &models.Persona{Nombre: "Previa", DNI: "87654321", Numero: "---"})
	require.NoError(t, err)
	_, err = e.m.Expedientes(e.db).Create(ctx, &models.Expediente{PersonaID: pid, Codigo: &code})
	require.NoError(t, err)
}

func TestImport_PartialSuccess(t *testing.T) {
	e := newEnv(t, Options{})
	e.seedExpediente(t, "EXP-001")

	var rows [][]any
	for i := 0; i < 10; i++ {
		dni := fmt.Sprintf("%08d", 10000000+i)
		code := fmt.Sprintf("EXP-1%02d", i)
		switch i {
		case 1:
			dni = "12"
		case 5:
			code = "EXP-001"
		}
		rows = append(rows, []any{fmt.Sprintf("Persona %d", i), "999", dni, code, "01/02/2024", "Recibido", ""})
	}
	path := standardWorkbook(t, t.TempDir(), rows, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 8, res.Total)
	assert.Equal(t, 2, res.Ignorados)
	assert.Equal(t, []int{3, 7}, res.FilasIgnoradas)
	assert.Equal(t, []string{
		"Fila 3: DNI inválido (12), registro ignorado.",
		"Fila 7: expediente duplicado (EXP-001), registro ignorado.",
		"Total registros procesados: 10",
		"Total importados correctamente: 8",
		"Total ignorados: 2",
		"Filas ignoradas: 3, 7",
	}, res.Log)

	assert.Equal(t, 8, e.count(t, "registros"))
	assert.Equal(t, 9, e.count(t, "expedientes"))
	assert.Equal(t, 8, e.count(t, "auditoria"))

	reg, err := e.m.Registros(e.db).GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", reg.FechaRegistro)
	assert.Equal(t, common.NotDelivered, reg.FechaEnCaja)
	assert.Equal(t, "Recibido", reg.Estado)
}

func TestImport_WritesLogBesideSource(t *testing.T) {
	e := newEnv(t, Options{})
	dir := t.TempDir()
	path := standardWorkbook(t, dir, [][]any{{"Ana", "1", "1234", "", "", "", ""}}, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "import_log-2024-06-15-100000.txt"), res.LogFile)
	b, err := os.ReadFile(res.LogFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(res.Log, "\n"), string(b))
	assert.Equal(t, "Total ignorados: 1", res.Log[len(res.Log)-2])
}

func TestImport_DeliveredWithoutDateGetsToday(t *testing.T) {
	e := newEnv(t, Options{})
	path := standardWorkbook(t, t.TempDir(),
		[][]any{{"Ana", "1", "12345678", "EXP-900", "", "Entregado", ""}},
		[][]any{{"EXP-900", "2024-01-10", "", "ok"}},
	)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)

	exp, err := e.m.Expedientes(e.db).FindByCode(context.Background(), "EXP-900")
	require.NoError(t, err)
	require.NotNil(t, exp.FechaEntrega)
	assert.Equal(t, today, *exp.FechaEntrega)
	assert.Equal(t, "2024-01-10", *exp.FechaSolicitud)
	assert.Equal(t, "ok", *exp.Observacion)
}

func TestImport_DuplicateCodeWithinFile(t *testing.T) {
	e := newEnv(t, Options{})
	path := standardWorkbook(t, t.TempDir(), [][]any{
		{"Ana", "1", "12345678", "EXP-5", "", "", ""},
		{"Luis", "2", "---", "EXP-5", "", "", ""},
		{"Sin expediente", "3", "---", "", "", "", ""},
		{"Otra sin expediente", "4", "---", "---", "", "", ""},
	}, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []int{3}, res.FilasIgnoradas)
	assert.Equal(t, "Fila 3: expediente duplicado en el archivo (EXP-5), registro ignorado.", res.Log[0])
	assert.Equal(t, 1, e.count(t, "expedientes"))
	assert.Equal(t, 3, e.count(t, "registros"))
}

func TestImport_UnknownEstadoRollsBackRow(t *testing.T) {
	e := newEnv(t, Options{})
	path := standardWorkbook(t, t.TempDir(), [][]any{
		{"Ana", "1", "12345678", "EXP-1", "", "Perdido", ""},
		{"Luis", "2", "---", "", "", "Tesoreria", ""},
	}, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []int{2}, res.FilasIgnoradas)
	assert.Equal(t, "Error fila 2: estado desconocido: Perdido", res.Log[0])
	assert.Equal(t, 1, e.count(t, "personas"), "no partial insert for the failed row")
	assert.Equal(t, 0, e.count(t, "expedientes"))
}

func TestImport_PersonResolution(t *testing.T) {
	rows := [][]any{
		{"Ana", "1", "12345678", "", "", "", ""},
		{"Ana P.", "1", "12345678", "", "", "", ""},
		{"Anónimo", "", "", "", "", "", ""},
		{"Anónimo 2", "", "", "", "", "", ""},
	}

	t.Run("always insert", func(t *testing.T) {
		e := newEnv(t, Options{})
		_, err := e.svc.Import(context.Background(), operator, standardWorkbook(t, t.TempDir(), rows, nil))
		require.NoError(t, err)
		assert.Equal(t, 4, e.count(t, "personas"))
	})

	t.Run("resolve by dni", func(t *testing.T) {
		e := newEnv(t, Options{ResolvePersonByDNI: true})
		_, err := e.svc.Import(context.Background(), operator, standardWorkbook(t, t.TempDir(), rows, nil))
		require.NoError(t, err)
		assert.Equal(t, 3, e.count(t, "personas"), "sentinel DNIs are never merged")
		assert.Equal(t, 4, e.count(t, "registros"))
	})
}

func TestImport_MissingSheet(t *testing.T) {
	e := newEnv(t, Options{})
	dir := t.TempDir()
	path := writeWorkbook(t, dir, map[string][][]any{
		spreadsheet.SheetExpedientes: {filesHeader},
		spreadsheet.SheetRegistros:   {registrosHeader, {"Ana", "1", "12", "", "", "", ""}},
	}, []string{spreadsheet.SheetExpedientes, spreadsheet.SheetRegistros})

	res, err := e.svc.Import(context.Background(), operator, path)
	require.ErrorIs(t, err, common.ErrMissingSheets)
	assert.Equal(t, "Faltan las hojas: personas", err.Error())
	assert.Nil(t, res)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no log file for a structural failure")
}

func TestImport_RequiresCapability(t *testing.T) {
	e := newEnv(t, Options{})
	_, err := e.svc.Import(context.Background(), auth.Capability{}, "unused.xlsx")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestImport_PublishesLogAndCountsRows(t *testing.T) {
	rec := metrics.NewRecorder()
	pub := t.TempDir()
	e := newEnv(t, Options{Metrics: rec, Publisher: blob.NewFSStore(pub)})

	path := standardWorkbook(t, t.TempDir(), [][]any{
		{"Ana", "1", "12345678", "", "", "", ""},
		{"Luis", "2", "bad", "", "", "", ""},
	}, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(pub, "imports", "run-1", filepath.Base(res.LogFile)), res.Published)
	assert.Empty(t, res.PublishError)
	assert.FileExists(t, res.Published)

	n, err := testutil.GatherAndCount(rec.Registry(), "expedientes_import_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per outcome seen")
}

func TestImport_PublishFailureIsOnlyAWarning(t *testing.T) {
	e := newEnv(t, Options{Publisher: failingStore{}})
	path := standardWorkbook(t, t.TempDir(), [][]any{{"Ana", "1", "12345678", "", "", "", ""}}, nil)

	res, err := e.svc.Import(context.Background(), operator, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Empty(t, res.Published)
	assert.Equal(t, "bucket unreachable", res.PublishError)
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("bucket unreachable")
}

func TestValidate(t *testing.T) {
	e := newEnv(t, Options{})

	t.Run("row problems", func(t *testing.T) {
		path := standardWorkbook(t, t.TempDir(), [][]any{
			{"Ana", "1", "12345678", "EXP-1", "", "", ""},
			{"Luis", "2", "123", "EXP-2", "", "", ""},
			{"Eva", "3", "---", "EXP-1", "", "", ""},
		}, [][]any{{"EXP-1", "", "", ""}})

		rep, err := e.svc.Validate(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, rep.Valid)
		assert.Empty(t, rep.MissingColumns)
		assert.Equal(t, []int{3}, rep.InvalidDNIRows)
		assert.Equal(t, []int{4}, rep.RepeatedCodes)
		assert.Equal(t, 3, rep.SheetRows[spreadsheet.SheetRegistros])
		assert.Equal(t, 1, rep.SheetRows[spreadsheet.SheetExpedientes])
		assert.Equal(t, 0, e.count(t, "registros"), "validation never writes")
	})

	t.Run("missing sheets", func(t *testing.T) {
		path := writeWorkbook(t, t.TempDir(), map[string][][]any{
			spreadsheet.SheetRegistros: {registrosHeader},
		}, []string{spreadsheet.SheetRegistros})

		rep, err := e.svc.Validate(context.Background(), path)
		require.NoError(t, err)
		assert.False(t, rep.Valid)
		assert.Equal(t, []string{"personas", "expedientes"}, rep.MissingSheets)
	})

	t.Run("missing columns", func(t *testing.T) {
		path := writeWorkbook(t, t.TempDir(), map[string][][]any{
			spreadsheet.SheetPersonas:    {personasHeader},
			spreadsheet.SheetExpedientes: {filesHeader},
			spreadsheet.SheetRegistros:   {{"Nombre", "DNI"}, {"Ana", "12345678"}},
		}, []string{spreadsheet.SheetPersonas, spreadsheet.SheetExpedientes, spreadsheet.SheetRegistros})

		rep, err := e.svc.Validate(context.Background(), path)
		require.NoError(t, err)
		assert.False(t, rep.Valid)
		assert.Equal(t, []string{"Número", "Expediente", "Fecha de Registro", "Estado", "Fecha en Caja"}, rep.MissingColumns)
	})
}

func TestPreview(t *testing.T) {
	e := newEnv(t, Options{})
	path := standardWorkbook(t, t.TempDir(), [][]any{
		{"Ana", "1", "12345678", "EXP-1", "", "Entregado", ""},
		{"", "", "12", "", "", "", ""},
		{"Eva", "3", "---", "", "", "", ""},
	}, nil)

	p, err := e.svc.Preview(context.Background(), path, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Total)
	require.Len(t, p.Rows, 2)

	first := p.Rows[0]
	assert.Equal(t, 2, first.Fila)
	assert.True(t, first.Valid)
	require.NotNil(t, first.Candidate.FechaEntrega)
	assert.Equal(t, today, *first.Candidate.FechaEntrega)

	second := p.Rows[1]
	assert.False(t, second.Valid)
	assert.Equal(t, "DNI inválido (12)", second.Motivo)
	assert.Equal(t, common.UnknownValue, second.Candidate.Nombre)

	all, err := e.svc.Preview(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 3)
}
