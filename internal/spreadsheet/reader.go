package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads every sheet of the workbook at path. When required is
// not empty the sheet list is checked first and a *MissingSheetsError is
// returned before any row is read.
//
// The first row of a sheet is its header row. Blank header cells are
// skipped, fully blank data rows are dropped, and cells absent from a row are
// filled with "".
func ReadWorkbook(path string, required []string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if err := CheckSheets(names, required); err != nil {
		return nil, err
	}

	wb := make(Workbook, len(names))
	for _, name := range names {
		s, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		wb[name] = s
	}
	return wb, nil
}

// SheetNames lists the worksheets of the workbook at path without reading
// their rows.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func readSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	s := &Sheet{Name: name, Rows: []Row{}}
	if len(rows) == 0 {
		return s, nil
	}

	type column struct {
		idx    int
		header string
	}
	var cols []column
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		cols = append(cols, column{idx: i, header: h})
		s.Headers = append(s.Headers, h)
	}

	for r := 1; r < len(rows); r++ {
		raw := rows[r]
		if isBlank(raw) {
			continue
		}

		row := make(Row, len(cols))
		for _, c := range cols {
			if c.idx >= len(raw) {
				row[c.header] = ""
				continue
			}
			row[c.header] = cellValue(f, name, c.idx, r, raw[c.idx])
		}
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

// cellValue surfaces numeric cells as float64 so date serials can be told
// apart from date text.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return raw
	}
	if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
		return raw
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return raw
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
