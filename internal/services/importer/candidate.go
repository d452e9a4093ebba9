package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/common"
	"github.com/DioBrando0203/expedientes/internal/datex"
	"github.com/DioBrando0203/expedientes/internal/models"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
)

// Candidate is one registros row after defaults and date normalization,
// ready to be validated and committed.
type Candidate struct {
	Nombre         string  `json:"nombre"`
	Numero         string  `json:"numero"`
	DNI            string  `json:"dni"`
	Codigo         string  `json:"expediente,omitempty"`
	Estado         string  `json:"estado"`
	FechaRegistro  string  `json:"fechaRegistro"`
	FechaEnCaja    string  `json:"fechaEnCaja"`
	FechaSolicitud *string `json:"fechaSolicitud,omitempty"`
	FechaEntrega   *string `json:"fechaEntrega,omitempty"`
	Observacion    *string `json:"observacion,omitempty"`
}

// HasCode reports whether the row references an expediente.
func (c *Candidate) HasCode() bool {
	return c.Codigo != ""
}

// ValidDNI accepts the sentinel or exactly eight ASCII digits.
func (c *Candidate) ValidDNI() bool {
	return models.ValidDNI(c.DNI)
}

// filesIndex maps a trimmed Código to the first expedientes row carrying it.
type filesIndex map[string]spreadsheet.Row

func indexFiles(s *spreadsheet.Sheet) filesIndex {
	idx := filesIndex{}
	if s == nil {
		return idx
	}
	for _, r := range s.Rows {
		code := cellString(r[spreadsheet.ColCodigo])
		if code == "" {
			continue
		}
		if _, ok := idx[code]; !ok {
			idx[code] = r
		}
	}
	return idx
}

func buildCandidate(row spreadsheet.Row, files filesIndex, today string) *Candidate {
	c := &Candidate{
		Nombre: orUnknown(cellString(row[spreadsheet.ColNombre])),
		Numero: orUnknown(cellString(row[spreadsheet.ColNumero])),
		DNI:    orUnknown(cellString(row[spreadsheet.ColDNI])),
		Estado: cellString(row[spreadsheet.ColEstado]),
	}

	if code := cellString(row[spreadsheet.ColExpediente]); code != common.UnknownValue {
		c.Codigo = code
	}
	if c.Estado == "" {
		c.Estado = common.EstadoRecibido
	}

	c.FechaRegistro = today
	if d, ok := datex.Normalize(row[spreadsheet.ColFechaRegistro]); ok {
		c.FechaRegistro = d
	}
	c.FechaEnCaja = common.NotDelivered
	if d, ok := datex.Normalize(row[spreadsheet.ColFechaEnCaja]); ok {
		c.FechaEnCaja = d
	}

	if c.HasCode() {
		if f, ok := files[c.Codigo]; ok {
			c.FechaSolicitud = normalizedPtr(f[spreadsheet.ColFechaSolicitud])
			c.FechaEntrega = normalizedPtr(f[spreadsheet.ColFechaEntrega])
			if obs := cellString(f[spreadsheet.ColObservacion]); obs != "" {
				c.Observacion = &obs
			}
		}
	}

	if c.Estado == common.EstadoEntregado && c.FechaEntrega == nil {
		t := today
		c.FechaEntrega = &t
	}

	return c
}

// cellString renders a cell the way it reads on screen: numbers without a
// trailing ".0", text trimmed.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func orUnknown(s string) string {
	if s == "" {
		return common.UnknownValue
	}
	return s
}

func normalizedPtr(v any) *string {
	d, ok := datex.Normalize(v)
	if !ok {
		return nil
	}
	return &d
}
