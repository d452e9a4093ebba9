package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes sheets cell by cell so numeric values stay numeric.
func buildWorkbook(t *testing.T, sheets map[string][][]any, order []string) string {
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
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "carga.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadWorkbook_RowsKeyedByHeader(t *testing.T) {
	path := buildWorkbook(t, map[string][][]any{
		"personas":    {{"Nombre", "DNI"}},
		"expedientes": {{"Código", "Fecha de Solicitud"}, {"EXP-001", 45356}},
		"registros": {
			{"Nombre", "DNI", "Expediente", "Fecha de Registro"},
			{"Ana", "12345678", "EXP-001", "05/03/2024"},
			{"Luis", 87654321},
			{nil, nil, nil, nil},
			{"Eva", nil, nil, 45356.0},
		},
	}, []string{"personas", "expedientes", "registros"})

	wb, err := ReadWorkbook(path, RequiredSheets)
	require.NoError(t, err)

	reg := wb[SheetRegistros]
	require.NotNil(t, reg)
	assert.Equal(t, []string{"Nombre", "DNI", "Expediente", "Fecha de Registro"}, reg.Headers)
	require.Len(t, reg.Rows, 3, "blank rows are dropped")

	assert.Equal(t, "Ana", reg.Rows[0]["Nombre"])
	assert.Equal(t, "12345678", reg.Rows[0]["DNI"])
	assert.Equal(t, "05/03/2024", reg.Rows[0]["Fecha de Registro"])

	assert.Equal(t, 87654321.0, reg.Rows[1]["DNI"])
	assert.Equal(t, "", reg.Rows[1]["Expediente"], "missing cells default to empty string")
	assert.Equal(t, "", reg.Rows[1]["Fecha de Registro"])

	assert.Equal(t, "", reg.Rows[2]["DNI"])
	assert.Equal(t, 45356.0, reg.Rows[2]["Fecha de Registro"])

	exp := wb[SheetExpedientes]
	assert.Equal(t, 45356.0, exp.Rows[0]["Fecha de Solicitud"])
}

func TestReadWorkbook_MissingSheets(t *testing.T) {
	path := buildWorkbook(t, map[string][][]any{
		"registros": {{"Nombre"}, {"Ana"}},
	}, []string{"registros"})

	_, err := ReadWorkbook(path, RequiredSheets)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingSheets))
	assert.Equal(t, "Faltan las hojas: personas, expedientes", err.Error())

	var mse *MissingSheetsError
	require.ErrorAs(t, err, &mse)
	assert.Equal(t, []string{"personas", "expedientes"}, mse.Missing)
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := ReadWorkbook(path, RequiredSheets)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrMissingSheets))
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	err := WriteWorkbook(path, []*Sheet{
		{
			Name:    "registros",
			Headers: []string{"Registro_ID", "Nombre", "Expediente"},
			Rows: []Row{
				{"Registro_ID": int64(1), "Nombre": "Ana", "Expediente": "EXP-001"},
				{"Registro_ID": int64(2), "Nombre": "Luis", "Expediente": nil},
			},
		},
		{Name: "estados", Headers: []string{"Estado_ID", "Nombre"}},
	})
	require.NoError(t, err)

	wb, err := ReadWorkbook(path, nil)
	require.NoError(t, err)

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"registros", "estados"}, names)

	reg := wb["registros"]
	assert.Equal(t, []string{"Registro_ID", "Nombre", "Expediente"}, reg.Headers)
	require.Len(t, reg.Rows, 2)
	assert.Equal(t, 1.0, reg.Rows[0]["Registro_ID"])
	assert.Equal(t, "EXP-001", reg.Rows[0]["Expediente"])
	assert.Equal(t, "", reg.Rows[1]["Expediente"])

	est := wb["estados"]
	assert.Equal(t, []string{"Estado_ID", "Nombre"}, est.Headers)
	assert.Empty(t, est.Rows)
}

func TestWriteWorkbook_NoPartialFileOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.xlsx")

	err := WriteWorkbook(path, []*Sheet{
		{Name: "registros", Headers: []string{"A"}},
		{Name: "bad[name]", Headers: []string{"C"}},
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSheetColumns_AddsUnseenKeys(t *testing.T) {
	s := &Sheet{
		Headers: []string{"B", "A"},
		Rows:    []Row{{"A": 1, "B": 2, "D": 3, "C": 4}, {"E": 5}},
	}
	assert.Equal(t, []string{"B", "A", "C", "D", "E"}, s.Columns())
}
