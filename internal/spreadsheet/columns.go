package spreadsheet

// Column headers of the import workbook. They match the headers the export
// writes, so an export can be edited and imported again.
const (
	ColNombre        = "Nombre"
	ColNumero        = "Número"
	ColDNI           = "DNI"
	ColExpediente    = "Expediente"
	ColEstado        = "Estado"
	ColFechaRegistro = "Fecha de Registro"
	ColFechaEnCaja   = "Fecha en Caja"

	ColCodigo         = "Código"
	ColFechaSolicitud = "Fecha de Solicitud"
	ColFechaEntrega   = "Fecha de Entrega"
	ColObservacion    = "Observación"
)

// ImportColumns lists the headers each required sheet is expected to carry.
var ImportColumns = map[string][]string{
	SheetPersonas:    {ColNombre, ColDNI, ColNumero},
	SheetExpedientes: {ColCodigo, ColFechaSolicitud, ColFechaEntrega, ColObservacion},
	SheetRegistros:   {ColNombre, ColNumero, ColDNI, ColExpediente, ColFechaRegistro, ColEstado, ColFechaEnCaja},
}
