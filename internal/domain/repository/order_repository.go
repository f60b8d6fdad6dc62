package repository

import "github.com/inventariox/inventariox-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para PurchaseOrder.
type OrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	Update(order *entity.PurchaseOrder) error
	List(status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	Delete(id string) error
}
