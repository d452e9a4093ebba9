package models

// Role values stored in usuarios.rol.
const (
	RoleAdmin    = "administrador"
	RoleOperator = "operador"
)

type Usuario struct {
	ID           int64
	Nombre       string
	Usuario      string
	PasswordHash []byte
	Rol          string
}
