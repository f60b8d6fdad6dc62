package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos más el ajuste rápido de
// existencia. La existencia nunca queda negativa: el ajuste manual se recorta
// en cero.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner TxRunner
	notifier Notifier
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner TxRunner, notifier Notifier) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, notifier: notifier}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetByName(in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Quantity.IsNegative() || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           in.Name,
		SupplierName:   in.SupplierName,
		UnitMeasure:    in.UnitMeasure,
		UnitCost:       in.UnitCost,
		Quantity:       in.Quantity,
		MinQuantity:    in.MinQuantity,
		TargetQuantity: in.TargetQuantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	notify(uc.notifier, "product", "create", product.ID)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. La existencia no se modifica por aquí.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.SupplierName != nil {
		product.SupplierName = *in.SupplierName
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitCost = *in.UnitCost
	}
	if in.MinQuantity != nil {
		product.MinQuantity = *in.MinQuantity
	}
	if in.TargetQuantity != nil {
		product.TargetQuantity = *in.TargetQuantity
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	notify(uc.notifier, "product", "update", product.ID)
	return toProductResponse(product), nil
}

// AdjustQuantity aplica un ajuste rápido de existencia (delta con signo).
// El resultado se recorta en cero; producto y movimiento se escriben en la
// misma transacción.
func (uc *ProductUseCase) AdjustQuantity(ctx context.Context, id, responsible string, in dto.AdjustQuantityRequest) (*dto.ProductResponse, error) {
	if in.Delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	previous := product.Quantity
	newQty := previous.Add(in.Delta)
	if newQty.IsNegative() {
		newQty = decimal.Zero
	}
	applied := newQty.Sub(previous)

	movType := entity.MovementTypeEntry
	if applied.IsNegative() {
		movType = entity.MovementTypeExit
	}
	motive := in.Motive
	if motive == "" {
		motive = "ajuste rápido"
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.WasteRepository,
	) error {
		if err := productRepo.UpdateQuantity(id, newQty); err != nil {
			return err
		}
		return movementRepo.Create(&entity.Movement{
			ID:               uuid.New().String(),
			Type:             movType,
			ProductID:        product.ID,
			ProductName:      product.Name,
			Quantity:         applied.Abs(),
			PreviousQuantity: previous,
			NewQuantity:      newQty,
			Motive:           motive,
			Responsible:      responsible,
			Date:             now,
			CreatedAt:        now,
		})
	})
	if err != nil {
		return nil, err
	}

	product.Quantity = newQty
	product.UpdatedAt = now
	notify(uc.notifier, "product", "update", product.ID)
	return toProductResponse(product), nil
}

// List lista productos con búsqueda opcional por nombre (sin tildes) y paginación.
func (uc *ProductUseCase) List(search string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListBelowMinimum lista los productos por debajo de su umbral mínimo.
func (uc *ProductUseCase) ListBelowMinimum() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListBelowMinimum()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID (y con él su registro de existencia).
func (uc *ProductUseCase) Delete(id string) error {
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	notify(uc.notifier, "product", "delete", id)
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SupplierName:   p.SupplierName,
		UnitMeasure:    p.UnitMeasure,
		UnitCost:       p.UnitCost,
		Quantity:       p.Quantity,
		MinQuantity:    p.MinQuantity,
		TargetQuantity: p.TargetQuantity,
		BelowMinimum:   p.BelowMinimum(),
		StockValue:     p.StockValue(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
