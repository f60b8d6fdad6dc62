package repository

import (
	"time"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

// WasteRepository define el puerto de persistencia para Waste (merma).
// Las mermas son inmutables: no hay Update.
type WasteRepository interface {
	Create(waste *entity.Waste) error
	GetByID(id string) (*entity.Waste, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Waste, error)
	ListBySession(sessionID string) ([]*entity.Waste, error)
	Delete(id string) error
}
