package models

type Estado struct {
	ID     int64
	Nombre string
}

// EstadoStats counts registros per estado.
type EstadoStats struct {
	Nombre     string
	Total      int64
	Activos    int64
	Eliminados int64
}
