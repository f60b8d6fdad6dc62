package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WasteReasonAudit es el motivo fijo de las mermas generadas por una sesión de auditoría.
const WasteReasonAudit = "ajuste por auditoría"

// Waste representa una merma: pérdida de inventario registrada contra un producto
// (vencimiento, rotura, robo...). Inmutable una vez creada, salvo eliminación.
type Waste struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Reason      string
	UnitCost    decimal.Decimal
	TotalValue  decimal.Decimal // Quantity * UnitCost
	Date        time.Time
	Observation string
	SessionID   string // sesión de auditoría que la originó (vacío si es manual)
	CreatedAt   time.Time
}
