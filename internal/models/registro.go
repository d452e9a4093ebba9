package models

// Status is the soft-delete state of a registro.
type Status int

const (
	StatusActive Status = iota
	StatusDeleted
)

func (s Status) String() string {
	if s == StatusDeleted {
		return "deleted"
	}
	return "active"
}

// Flag is the value stored in registros.eliminado.
func (s Status) Flag() int {
	if s == StatusDeleted {
		return 1
	}
	return 0
}

// StatusFromFlag maps registros.eliminado back to a Status.
func StatusFromFlag(v int64) Status {
	if v != 0 {
		return StatusDeleted
	}
	return StatusActive
}

type Registro struct {
	ID            int64
	PersonaID     int64
	ExpedienteID  *int64
	EstadoID      int64
	FechaRegistro string
	FechaEnCaja   string
	Status        Status

	// Filled by joined reads.
	Nombre     string
	DNI        string
	Numero     string
	Expediente *string
	Estado     string
}
