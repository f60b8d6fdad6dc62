package usecase

import (
	"time"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// MovementUseCase consultas sobre el historial de movimientos. Los movimientos
// los escriben los demás casos de uso; aquí solo se listan y se eliminan
// individualmente como acción de limpieza.
type MovementUseCase struct {
	repo     repository.MovementRepository
	notifier Notifier
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.MovementRepository, notifier Notifier) *MovementUseCase {
	return &MovementUseCase{repo: repo, notifier: notifier}
}

// List lista movimientos con filtros opcionales de tipo y rango de fechas.
func (uc *MovementUseCase) List(movType string, from, to *time.Time, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.repo.List(movType, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(list, limit, offset), nil
}

// ListByProduct lista los movimientos de un producto.
func (uc *MovementUseCase) ListByProduct(productID string, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.repo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(list, limit, offset), nil
}

// Delete elimina un movimiento individual.
func (uc *MovementUseCase) Delete(id string) error {
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	notify(uc.notifier, "movement", "delete", id)
	return nil
}

func toMovementList(list []*entity.Movement, limit, offset int) *dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:               m.ID,
			Type:             m.Type,
			ProductID:        m.ProductID,
			ProductName:      m.ProductName,
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Motive:           m.Motive,
			Responsible:      m.Responsible,
			SessionID:        m.SessionID,
			Date:             m.Date,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
