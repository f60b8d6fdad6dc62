package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	SupplierName   string          `json:"supplier_name"`
	UnitMeasure    string          `json:"unit_measure" validate:"required"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Quantity       decimal.Decimal `json:"quantity"`
	MinQuantity    decimal.Decimal `json:"min_quantity"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
}

// UpdateProductRequest entrada para actualizar un producto.
// La existencia no se modifica por aquí: se maneja vía ajustes y conciliaciones.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SupplierName   *string          `json:"supplier_name"`
	UnitMeasure    *string          `json:"unit_measure"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	MinQuantity    *decimal.Decimal `json:"min_quantity"`
	TargetQuantity *decimal.Decimal `json:"target_quantity"`
}

// AdjustQuantityRequest entrada para el ajuste rápido de existencia.
// Delta puede ser negativo; el resultado se recorta en cero.
type AdjustQuantityRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Motive string          `json:"motive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SupplierName   string          `json:"supplier_name"`
	UnitMeasure    string          `json:"unit_measure"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Quantity       decimal.Decimal `json:"quantity"`
	MinQuantity    decimal.Decimal `json:"min_quantity"`
	TargetQuantity decimal.Decimal `json:"target_quantity"`
	BelowMinimum   bool            `json:"below_minimum"`
	StockValue     decimal.Decimal `json:"stock_value"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
