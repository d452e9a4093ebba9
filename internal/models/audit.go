package models

import "time"

// Audit actions.
const (
	AccionCrear     = "CREAR"
	AccionEditar    = "EDITAR"
	AccionEliminar  = "ELIMINAR"
	AccionRestaurar = "RESTAURAR"
	AccionPurgar    = "PURGAR"
	AccionImportar  = "IMPORTAR"
	AccionExportar  = "EXPORTAR"
	AccionAcceso    = "ACCESO"
)

// AuditEntry is an append-only record of who did what to which row.
// Before and After hold JSON documents when present.
type AuditEntry struct {
	ID         int64
	UsuarioID  int64
	Accion     string
	Tabla      string
	RegistroID *int64
	Before     *string
	After      *string
	Fecha      time.Time
}
