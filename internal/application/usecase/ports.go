package usecase

import (
	"context"

	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para las operaciones que
// tocan producto + movimiento (+ merma) a la vez: ajuste rápido, merma manual
// y recepción de órdenes.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		wasteRepo repository.WasteRepository,
	) error) error
}

// Notifier publica cambios de registros a los suscriptores en vivo (WebSocket).
// Las implementaciones no deben bloquear; un notifier nil se ignora.
type Notifier interface {
	Notify(resource, action, id string)
}

// notify es un helper nil-safe.
func notify(n Notifier, resource, action, id string) {
	if n != nil {
		n.Notify(resource, action, id)
	}
}
