package models

// Expediente is a per-person case file. Nullable columns are pointers.
type Expediente struct {
	ID             int64
	PersonaID      int64
	Codigo         *string
	FechaSolicitud *string
	FechaEntrega   *string
	Observacion    *string

	// Filled by joined reads.
	PersonaNombre string
	PersonaDNI    string
}

// Delivered reports whether a delivery date is set.
func (e *Expediente) Delivered() bool {
	return e.FechaEntrega != nil
}

// ExpedienteStats summarizes the expedientes table.
type ExpedienteStats struct {
	Total      int64
	Entregados int64
	Pendientes int64
	PorAnio    []YearCount
}

type YearCount struct {
	Anio  string
	Total int64
}

// DateField selects which expediente date a range query filters on.
type DateField string

const (
	DateSolicitud DateField = "solicitud"
	DateEntrega   DateField = "entrega"
)
