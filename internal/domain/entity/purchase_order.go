package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusDraft    = "draft"    // borrador
	OrderStatusSent     = "sent"     // enviada al proveedor (WhatsApp)
	OrderStatusReceived = "received" // mercancía recibida
)

// PurchaseOrder representa una orden de compra a un proveedor.
type PurchaseOrder struct {
	ID           string
	SupplierID   string
	SupplierName string
	Status       string
	Items        []OrderItem
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	SentAt       *time.Time
	ReceivedAt   *time.Time
}

// OrderItem es una línea de la orden: producto y cantidad pedida.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitMeasure string          `json:"unit_measure"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// TotalCost devuelve el costo estimado de la orden.
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Quantity.Mul(it.UnitCost))
	}
	return total
}
