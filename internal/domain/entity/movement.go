package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entry"      // entrada (recepción de orden, ingreso manual)
	MovementTypeExit       = "exit"       // salida (consumo, merma)
	MovementTypeAdjustment = "adjustment" // ajuste por conciliación
)

// Movement representa un movimiento de inventario: un cambio discreto y trazable
// de la existencia de un producto. Append-only; nunca se actualiza ni se agrega,
// solo se elimina individualmente como acción de limpieza.
type Movement struct {
	ID               string
	Type             string
	ProductID        string
	ProductName      string
	Quantity         decimal.Decimal // siempre positiva; el signo lo da Type
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Motive           string
	Responsible      string
	SessionID        string // sesión de conciliación que lo produjo (vacío si no aplica)
	Date             time.Time
	CreatedAt        time.Time
}
