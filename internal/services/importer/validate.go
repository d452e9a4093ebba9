package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
)

// ValidationReport is the pre-flight view of a workbook. It never touches
// the store, so duplicate codes are only detected within the file.
type ValidationReport struct {
	Valid          bool           `json:"valid"`
	MissingSheets  []string       `json:"missingSheets,omitempty"`
	SheetRows      map[string]int `json:"sheetRows"`
	MissingColumns []string       `json:"missingColumns,omitempty"`
	InvalidDNIRows []int          `json:"invalidDniRows,omitempty"`
	RepeatedCodes  []int          `json:"repeatedCodeRows,omitempty"`
}

// Validate checks sheets, expected registros columns and per-row DNI and
// code problems of the workbook at path. Valid only covers structure: row
// problems are reported but do not stop an import.
func (s *Service) Validate(ctx context.Context, path string) (*ValidationReport, error) {
	started := time.Now()
	defer func() { s.opts.Metrics.Observe("validate", time.Since(started)) }()

	rep := &ValidationReport{SheetRows: map[string]int{}}

	wb, err := spreadsheet.ReadWorkbook(path, spreadsheet.RequiredSheets)
	if err != nil {
		var missing *spreadsheet.MissingSheetsError
		if errors.As(err, &missing) {
			rep.MissingSheets = missing.Missing
			return rep, nil
		}
		return nil, err
	}

	for name, sheet := range wb {
		rep.SheetRows[name] = len(sheet.Rows)
	}

	registros := wb[spreadsheet.SheetRegistros]
	rep.MissingColumns = missingColumns(registros.Headers, spreadsheet.ImportColumns[spreadsheet.SheetRegistros])

	files := indexFiles(wb[spreadsheet.SheetExpedientes])
	today := datex.Today(s.opts.Clock)
	seen := map[string]struct{}{}
	for i, row := range registros.Rows {
		fila := i + 2
		c := buildCandidate(row, files, today)
		if !c.ValidDNI() {
			rep.InvalidDNIRows = append(rep.InvalidDNIRows, fila)
		}
		if c.HasCode() {
			if _, ok := seen[c.Codigo]; ok {
				rep.RepeatedCodes = append(rep.RepeatedCodes, fila)
			}
			seen[c.Codigo] = struct{}{}
		}
	}

	rep.Valid = len(rep.MissingColumns) == 0
	s.logger.Debug(ctx, "workbook validated", "file", path, "rows", len(registros.Rows))
	return rep, nil
}

// PreviewRow is one candidate with its validation verdict.
type PreviewRow struct {
	Fila      int       `json:"fila"`
	Candidate Candidate `json:"candidato"`
	Valid     bool      `json:"valido"`
	Motivo    string    `json:"motivo,omitempty"`
}

type Preview struct {
	Total int          `json:"total"`
	Rows  []PreviewRow `json:"filas"`
}

// Preview builds the first n candidates of the workbook at path, as the
// import would see them. n <= 0 previews every row.
func (s *Service) Preview(ctx context.Context, path string, n int) (*Preview, error) {
	wb, err := spreadsheet.ReadWorkbook(path, spreadsheet.RequiredSheets)
	if err != nil {
		return nil, err
	}

	rows := wb[spreadsheet.SheetRegistros].Rows
	if n <= 0 || n > len(rows) {
		n = len(rows)
	}

	files := indexFiles(wb[spreadsheet.SheetExpedientes])
	today := datex.Today(s.opts.Clock)

	p := &Preview{Total: len(rows), Rows: make([]PreviewRow, 0, n)}
	for i := 0; i < n; i++ {
		c := buildCandidate(rows[i], files, today)
		pr := PreviewRow{Fila: i + 2, Candidate: *c, Valid: c.ValidDNI()}
		if !pr.Valid {
			pr.Motivo = fmt.Sprintf("DNI inválido (%s)", c.DNI)
		}
		p.Rows = append(p.Rows, pr)
	}

	s.logger.Debug(ctx, "workbook previewed", "file", path, "rows", n)
	return p, nil
}

func missingColumns(headers, expected []string) []string {
	have := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		have[h] = struct{}{}
	}
	var out []string
	for _, e := range expected {
		if _, ok := have[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}
