package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// WasteUseCase casos de uso para mermas manuales. Las mermas originadas por
// una sesión de auditoría las crea el aplicador de ajustes, no este caso de uso.
type WasteUseCase struct {
	wasteRepo   repository.WasteRepository
	productRepo repository.ProductRepository
	txRunner    TxRunner
	notifier    Notifier
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(
	wasteRepo repository.WasteRepository,
	productRepo repository.ProductRepository,
	txRunner TxRunner,
	notifier Notifier,
) *WasteUseCase {
	return &WasteUseCase{wasteRepo: wasteRepo, productRepo: productRepo, txRunner: txRunner, notifier: notifier}
}

// Create registra una merma manual. La cantidad perdida no puede superar la
// existencia registrada del producto en ese momento (ErrInsufficientStock).
// Merma, descuento de existencia y movimiento de salida van en una transacción.
func (uc *WasteUseCase) Create(ctx context.Context, in dto.CreateWasteRequest) (*dto.WasteResponse, error) {
	if !in.Quantity.IsPositive() || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Quantity.GreaterThan(product.Quantity) {
		return nil, domain.ErrInsufficientStock
	}

	now := time.Now()
	previous := product.Quantity
	newQty := previous.Sub(in.Quantity)

	waste := &entity.Waste{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		UnitCost:    product.UnitCost,
		TotalValue:  in.Quantity.Mul(product.UnitCost),
		Date:        now,
		Observation: in.Observation,
		CreatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		wasteRepo repository.WasteRepository,
	) error {
		if err := wasteRepo.Create(waste); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(product.ID, newQty); err != nil {
			return err
		}
		return movementRepo.Create(&entity.Movement{
			ID:               uuid.New().String(),
			Type:             entity.MovementTypeExit,
			ProductID:        product.ID,
			ProductName:      product.Name,
			Quantity:         in.Quantity,
			PreviousQuantity: previous,
			NewQuantity:      newQty,
			Motive:           "merma: " + in.Reason,
			Responsible:      in.Responsible,
			Date:             now,
			CreatedAt:        now,
		})
	})
	if err != nil {
		return nil, err
	}

	notify(uc.notifier, "waste", "create", waste.ID)
	notify(uc.notifier, "product", "update", product.ID)
	return toWasteResponse(waste), nil
}

// GetByID obtiene una merma por ID.
func (uc *WasteUseCase) GetByID(id string) (*dto.WasteResponse, error) {
	waste, err := uc.wasteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if waste == nil {
		return nil, nil
	}
	return toWasteResponse(waste), nil
}

// List lista mermas en un rango de fechas opcional.
func (uc *WasteUseCase) List(from, to *time.Time, limit, offset int) (*dto.WasteListResponse, error) {
	list, err := uc.wasteRepo.List(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WasteResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWasteResponse(w))
	}
	return &dto.WasteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una merma. No revierte la existencia del producto: la merma
// es inmutable salvo esta acción de limpieza.
func (uc *WasteUseCase) Delete(id string) error {
	if err := uc.wasteRepo.Delete(id); err != nil {
		return err
	}
	notify(uc.notifier, "waste", "delete", id)
	return nil
}

func toWasteResponse(w *entity.Waste) *dto.WasteResponse {
	if w == nil {
		return nil
	}
	return &dto.WasteResponse{
		ID:          w.ID,
		ProductID:   w.ProductID,
		ProductName: w.ProductName,
		Quantity:    w.Quantity,
		Reason:      w.Reason,
		UnitCost:    w.UnitCost,
		TotalValue:  w.TotalValue,
		Date:        w.Date,
		Observation: w.Observation,
		SessionID:   w.SessionID,
		CreatedAt:   w.CreatedAt,
	}
}
