package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RoleEncargado = "encargado"
	RoleEmpleado  = "empleado"
)

// User representa un usuario de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
