package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditItemRequest línea de conteo de una sesión de conciliación.
// Counted nil significa "sin contar" y bloquea el cierre de la sesión.
// Recorded es la foto de la existencia tomada al iniciar la sesión; si viene
// nil se usa la existencia actual del producto.
type AuditItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Recorded  *decimal.Decimal `json:"recorded,omitempty"`
	Counted   *decimal.Decimal `json:"counted"`
	Note      string           `json:"note"`
}

// PreviewAuditRequest entrada para previsualizar diferencias sin escribir nada.
type PreviewAuditRequest struct {
	Items []AuditItemRequest `json:"items" validate:"required,min=1"`
}

// CloseAuditRequest entrada para cerrar una sesión de conciliación.
// SessionKey identifica la sesión en curso para el guard de reentrada: un
// segundo cierre con la misma clave mientras el primero está en vuelo se
// rechaza. Si viene vacía se deriva de empleado + tipo.
type CloseAuditRequest struct {
	Employee   string             `json:"employee" validate:"required"`
	Type       string             `json:"type"` // daily, weekly, monthly, adhoc
	SessionKey string             `json:"session_key"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	Items      []AuditItemRequest `json:"items" validate:"required,min=1"`
}

// AuditItemResponse línea con los campos derivados calculados.
type AuditItemResponse struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Recorded       decimal.Decimal `json:"recorded"`
	Counted        decimal.Decimal `json:"counted"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Difference     decimal.Decimal `json:"difference"`
	MonetaryImpact decimal.Decimal `json:"monetary_impact"`
	Classification string          `json:"classification"`
	Note           string          `json:"note,omitempty"`
}

// AuditTotalsResponse totales agregados de la sesión.
type AuditTotalsResponse struct {
	ShortageUnits       decimal.Decimal `json:"shortage_units"`
	SurplusUnits        decimal.Decimal `json:"surplus_units"`
	ShortageValue       decimal.Decimal `json:"shortage_value"`
	SurplusValue        decimal.Decimal `json:"surplus_value"`
	NetValue            decimal.Decimal `json:"net_value"`
	ItemsWithDifference int             `json:"items_with_difference"`
}

// PreviewAuditResponse resultado de la previsualización (sin escrituras).
type PreviewAuditResponse struct {
	Items  []AuditItemResponse `json:"items"`
	Totals AuditTotalsResponse `json:"totals"`
}

// ApplyWarningDTO describe una sub-escritura fallida durante la aplicación de
// ajustes. La sesión sigue siendo válida: son advertencias, no errores fatales.
type ApplyWarningDTO struct {
	ProductID string `json:"product_id"`
	Step      string `json:"step"` // product, waste, movement
	Error     string `json:"error"`
}

// CloseAuditResponse resultado del cierre de sesión.
type CloseAuditResponse struct {
	SessionID string              `json:"session_id"`
	Items     []AuditItemResponse `json:"items"`
	Totals    AuditTotalsResponse `json:"totals"`
	Warnings  []ApplyWarningDTO   `json:"warnings,omitempty"`
}

// AuditSessionResponse salida de una sesión persistida.
type AuditSessionResponse struct {
	ID        string              `json:"id"`
	Employee  string              `json:"employee"`
	Type      string              `json:"type"`
	StartedAt time.Time           `json:"started_at"`
	ClosedAt  time.Time           `json:"closed_at"`
	Items     []AuditItemResponse `json:"items"`
	Totals    AuditTotalsResponse `json:"totals"`
}

// AuditSessionListResponse lista paginada de sesiones.
type AuditSessionListResponse struct {
	Items []AuditSessionResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
