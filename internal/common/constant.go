package common

// Sentinel literals stored as-is and compared lexically.
const (
	// UnknownValue marks an intentionally unset nombre, número or DNI.
	UnknownValue = "---"

	// NotDelivered is stored in registros.fecha_en_caja when no date is known.
	NotDelivered = "No entregado"
)

// Default estado names, in seed order.
const (
	EstadoRecibido  = "Recibido"
	EstadoEnCaja    = "En Caja"
	EstadoEntregado = "Entregado"
	EstadoTesoreria = "Tesoreria"
)

// DefaultEstados lists the estados every store starts with.
var DefaultEstados = []string{EstadoRecibido, EstadoEnCaja, EstadoEntregado, EstadoTesoreria}
