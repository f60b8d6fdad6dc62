package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es la cantidad autoritativa en existencia; nunca queda negativa:
// los decrementos manuales se recortan en cero y las sesiones de conciliación
// la fijan directamente al valor contado.
type Product struct {
	ID             string
	Name           string
	SupplierName   string // referencia al proveedor por nombre
	UnitMeasure    string // kg, unidad, litro, caja...
	UnitCost       decimal.Decimal
	Quantity       decimal.Decimal // existencia actual
	MinQuantity    decimal.Decimal // umbral mínimo
	TargetQuantity decimal.Decimal // nivel deseado para dimensionar pedidos
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BelowMinimum indica si el producto está por debajo de su umbral mínimo.
func (p *Product) BelowMinimum() bool {
	return p.Quantity.LessThan(p.MinQuantity)
}

// StockValue devuelve el valor monetario de la existencia actual.
func (p *Product) StockValue() decimal.Decimal {
	return p.Quantity.Mul(p.UnitCost)
}
