package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWasteRequest entrada para registrar una merma manual.
type CreateWasteRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" validate:"required"`
	Observation string          `json:"observation"`
	Responsible string          `json:"responsible"`
}

// WasteResponse salida de una merma.
type WasteResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Date        time.Time       `json:"date"`
	Observation string          `json:"observation"`
	SessionID   string          `json:"session_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WasteListResponse lista paginada de mermas.
type WasteListResponse struct {
	Items []WasteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
