package exporter

import (
	"github.com/DioBrando0203/expedientes/internal/dbx"
	"github.com/DioBrando0203/expedientes/internal/spreadsheet"
)

type tableQuery struct {
	sheet string
	query string
}

// Registros LEFT JOIN expedientes so entries without a file are exported.
var tableQueries = []tableQuery{
	{spreadsheet.SheetRegistros, `
		SELECT
			r.id AS "Registro_ID",
			p.nombre AS "Nombre",
			p.numero AS "Número",
			p.dni AS "DNI",
			e.codigo AS "Expediente",
			r.fecha_registro AS "Fecha de Registro",
			s.nombre AS "Estado",
			r.fecha_en_caja AS "Fecha en Caja",
			r.eliminado AS "Eliminado"
		FROM registros r
		JOIN personas p ON r.persona_id = p.id
		LEFT JOIN expedientes e ON r.expediente_id = e.id
		JOIN estados s ON r.estado_id = s.id
		ORDER BY r.id ASC`},
	{spreadsheet.SheetPersonas, `
		SELECT
			id AS "Persona_ID",
			nombre AS "Nombre",
			dni AS "DNI",
			numero AS "Número"
		FROM personas
		ORDER BY id ASC`},
	{spreadsheet.SheetExpedientes, `
		SELECT
			id AS "Expediente_ID",
			persona_id AS "Persona_ID",
			codigo AS "Código",
			fecha_solicitud AS "Fecha de Solicitud",
			fecha_entrega AS "Fecha de Entrega",
			observacion AS "Observación"
		FROM expedientes
		ORDER BY id ASC`},
	{spreadsheet.SheetEstados, `
		SELECT
			id AS "Estado_ID",
			nombre AS "Nombre"
		FROM estados
		ORDER BY id ASC`},
}

func queriesFor(d dbx.Dialect) []tableQuery {
	out := make([]tableQuery, len(tableQueries))
	for i, q := range tableQueries {
		out[i] = tableQuery{sheet: q.sheet, query: d.QuoteIdents(q.query)}
	}
	return out
}
