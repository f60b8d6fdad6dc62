package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden de compra.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest entrada para crear una orden de compra.
type CreateOrderRequest struct {
	SupplierID string             `json:"supplier_id" validate:"required"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1"`
	Notes      string             `json:"notes"`
}

// OrderItemResponse línea materializada de una orden.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitMeasure string          `json:"unit_measure"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID           string              `json:"id"`
	SupplierID   string              `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	Status       string              `json:"status"`
	Items        []OrderItemResponse `json:"items"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	Notes        string              `json:"notes"`
	CreatedBy    string              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	SentAt       *time.Time          `json:"sent_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// WhatsAppLinkResponse deep link de WhatsApp para enviar la orden al proveedor.
type WhatsAppLinkResponse struct {
	OrderID string `json:"order_id"`
	Phone   string `json:"phone"`
	Link    string `json:"link"`
	Message string `json:"message"`
}

// OrderSuggestionDTO sugerencia de pedido para un producto bajo su umbral mínimo:
// cantidad sugerida = nivel deseado - existencia actual.
type OrderSuggestionDTO struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SupplierName   string          `json:"supplier_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	MinQuantity    decimal.Decimal `json:"min_quantity"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	SuggestedQty   decimal.Decimal `json:"suggested_qty"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
}
