package repository

import (
	"time"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para Movement.
// Append-only: un registro por mutación de stock, sin Update.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(movType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error)
	ListBySession(sessionID string) ([]*entity.Movement, error)
	Delete(id string) error
}
