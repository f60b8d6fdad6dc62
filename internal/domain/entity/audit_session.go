package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de sesión de auditoría.
const (
	AuditTypeDaily   = "daily"
	AuditTypeWeekly  = "weekly"
	AuditTypeMonthly = "monthly"
	AuditTypeAdHoc   = "adhoc"
)

// AuditSession es el registro durable de una sesión de conciliación cerrada.
// Es una foto en el tiempo: inmutable una vez persistida, aunque la sesión
// completa puede eliminarse como acción de limpieza. Las mutaciones posteriores
// de los productos no la modifican retroactivamente.
type AuditSession struct {
	ID                  string
	Employee            string
	Type                string // daily, weekly, monthly, adhoc
	StartedAt           time.Time
	ClosedAt            time.Time
	Items               []AuditItem
	ShortageUnits       decimal.Decimal
	SurplusUnits        decimal.Decimal
	ShortageValue       decimal.Decimal
	SurplusValue        decimal.Decimal
	NetValue            decimal.Decimal
	ItemsWithDifference int
	CreatedAt           time.Time
}

// AuditItem es una línea materializada de la sesión, con los campos derivados
// ya calculados en el momento del cierre.
type AuditItem struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Recorded       decimal.Decimal `json:"recorded"`
	Counted        decimal.Decimal `json:"counted"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Difference     decimal.Decimal `json:"difference"`
	MonetaryImpact decimal.Decimal `json:"monetary_impact"`
	Classification string          `json:"classification"` // match, shortage, surplus
	Note           string          `json:"note,omitempty"`
}
