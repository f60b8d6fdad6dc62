package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrEmployeeRequired   = errors.New("nombre del responsable requerido")
	ErrCountedRequired    = errors.New("cantidad contada requerida")
	ErrSessionClosing     = errors.New("la sesión ya se está cerrando")
	ErrOrderNotReceivable = errors.New("la orden no admite recepción en su estado actual")
)
