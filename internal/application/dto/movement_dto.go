package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"` // entry, exit, adjustment
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Motive           string          `json:"motive"`
	Responsible      string          `json:"responsible"`
	SessionID        string          `json:"session_id,omitempty"`
	Date             time.Time       `json:"date"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
