package entity

import "time"

// Supplier representa un proveedor del directorio.
// Phone se usa para construir el deep link de WhatsApp de las órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	Phone     string // con indicativo de país, solo dígitos tras sanitizar
	Contact   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
