package updates

import "strings"

// PersonaUpdate changes nombre, dni and numero.
type PersonaUpdate struct {
	nombre, dni, numero field
}

func NewPersonaUpdate() *PersonaUpdate { return &PersonaUpdate{} }

func (u *PersonaUpdate) Nombre(v string) *PersonaUpdate { u.nombre.assign(strings.TrimSpace(v)); return u }
func (u *PersonaUpdate) DNI(v string) *PersonaUpdate    { u.dni.assign(strings.TrimSpace(v)); return u }
func (u *PersonaUpdate) Numero(v string) *PersonaUpdate { u.numero.assign(strings.TrimSpace(v)); return u }

// DNIValue returns the new DNI when one was set.
func (u *PersonaUpdate) DNIValue() (string, bool) {
	if !u.dni.set {
		return "", false
	}
	return u.dni.value.(string), true
}

func (u *PersonaUpdate) Assignments() []Assignment {
	return collect([]string{"nombre", "dni", "numero"}, []*field{&u.nombre, &u.dni, &u.numero})
}

// ExpedienteUpdate changes the code, dates and note of an expediente.
// Empty strings clear the column.
type ExpedienteUpdate struct {
	codigo, fechaSolicitud, fechaEntrega, observacion field
}

func NewExpedienteUpdate() *ExpedienteUpdate { return &ExpedienteUpdate{} }

func (u *ExpedienteUpdate) Codigo(v string) *ExpedienteUpdate {
	u.codigo.assign(nullable(strings.TrimSpace(v)))
	return u
}

func (u *ExpedienteUpdate) FechaSolicitud(v string) *ExpedienteUpdate {
	u.fechaSolicitud.assign(nullable(v))
	return u
}

func (u *ExpedienteUpdate) FechaEntrega(v string) *ExpedienteUpdate {
	u.fechaEntrega.assign(nullable(v))
	return u
}

func (u *ExpedienteUpdate) Observacion(v string) *ExpedienteUpdate {
	u.observacion.assign(nullable(strings.TrimSpace(v)))
	return u
}

// CodigoValue returns the new code when one was set; nil means cleared.
func (u *ExpedienteUpdate) CodigoValue() (*string, bool) {
	if !u.codigo.set {
		return nil, false
	}
	if s, ok := u.codigo.value.(string); ok {
		return &s, true
	}
	return nil, true
}

func (u *ExpedienteUpdate) Assignments() []Assignment {
	return collect(
		[]string{"codigo", "fecha_solicitud", "fecha_entrega", "observacion"},
		[]*field{&u.codigo, &u.fechaSolicitud, &u.fechaEntrega, &u.observacion},
	)
}

// RegistroUpdate changes the estado and dates of a registro. The soft-delete
// flag is deliberately absent; use the delete/restore operations.
type RegistroUpdate struct {
	estadoID, fechaRegistro, fechaEnCaja field
}

func NewRegistroUpdate() *RegistroUpdate { return &RegistroUpdate{} }

func (u *RegistroUpdate) EstadoID(id int64) *RegistroUpdate { u.estadoID.assign(id); return u }
func (u *RegistroUpdate) FechaRegistro(v string) *RegistroUpdate {
	u.fechaRegistro.assign(v)
	return u
}
func (u *RegistroUpdate) FechaEnCaja(v string) *RegistroUpdate {
	u.fechaEnCaja.assign(v)
	return u
}

func (u *RegistroUpdate) Assignments() []Assignment {
	return collect(
		[]string{"estado_id", "fecha_registro", "fecha_en_caja"},
		[]*field{&u.estadoID, &u.fechaRegistro, &u.fechaEnCaja},
	)
}
