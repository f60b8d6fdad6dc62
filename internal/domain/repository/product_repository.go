package repository

import (
	"github.com/shopspring/decimal"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateQuantity fija directamente la existencia (usado por el motor de
	// conciliación y los ajustes rápidos); no toca los demás campos.
	UpdateQuantity(productID string, quantity decimal.Decimal) error
	List(search string, limit, offset int) ([]*entity.Product, error)
	ListBelowMinimum() ([]*entity.Product, error)
	Delete(id string) error
}
