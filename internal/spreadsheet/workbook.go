// Package spreadsheet reads and writes multi-sheet .xlsx workbooks as plain
// tabular data: every sheet is an ordered list of row objects keyed by the
// header row.
package spreadsheet

import (
	"sort"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/common"
)

// Sheet names every import workbook must contain.
const (
	SheetPersonas    = "personas"
	SheetExpedientes = "expedientes"
	SheetRegistros   = "registros"
	SheetEstados     = "estados"
)

// RequiredSheets is the pre-flight set checked before any row is read.
var RequiredSheets = []string{SheetPersonas, SheetExpedientes, SheetRegistros}

// Row maps a column header to a cell value. Numeric cells hold float64,
// everything else a string; cells missing from a read row hold "".
type Row map[string]any

// Sheet is one worksheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Workbook indexes sheets by name.
type Workbook map[string]*Sheet

// Columns returns Headers followed by any other key seen across Rows, so no
// value is dropped when writing. Extra keys are ordered by first appearance,
// alphabetically within a row.
func (s *Sheet) Columns() []string {
	cols := make([]string, 0, len(s.Headers))
	seen := make(map[string]struct{}, len(s.Headers))
	for _, h := range s.Headers {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		cols = append(cols, h)
	}

	for _, r := range s.Rows {
		var extra []string
		for k := range r {
			if _, ok := seen[k]; !ok {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// MissingSheetsError reports which required sheets a workbook lacks.
type MissingSheetsError struct {
	Missing []string
}

func (e *MissingSheetsError) Error() string {
	return "Faltan las hojas: " + strings.Join(e.Missing, ", ")
}

// Is lets callers match the error with errors.Is(err, common.ErrMissingSheets).
func (e *MissingSheetsError) Is(target error) bool {
	return target == common.ErrMissingSheets
}

// CheckSheets returns a *MissingSheetsError when names lacks any of required.
func CheckSheets(names, required []string) error {
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}

	var missing []string
	for _, r := range required {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &MissingSheetsError{Missing: missing}
	}
	return nil
}
