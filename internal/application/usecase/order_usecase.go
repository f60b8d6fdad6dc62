package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// OrderUseCase casos de uso para órdenes de compra: creación, deep link de
// WhatsApp, recepción de mercancía y sugerencias de pedido por umbral mínimo.
type OrderUseCase struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	txRunner     TxRunner
	notifier     Notifier
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	txRunner TxRunner,
	notifier Notifier,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		txRunner:     txRunner,
		notifier:     notifier,
	}
}

// Create crea una orden en borrador, materializando nombre, unidad y costo de
// cada producto en la línea.
func (uc *OrderUseCase) Create(createdBy string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			UnitMeasure: product.UnitMeasure,
			UnitCost:    product.UnitCost,
		})
	}

	order := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Status:       entity.OrderStatusDraft,
		Items:        items,
		Notes:        in.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	notify(uc.notifier, "order", "create", order.ID)
	return toOrderResponse(order), nil
}

// GetByID obtiene una orden por ID.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *OrderUseCase) List(status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// WhatsAppLink construye el deep link wa.me con el texto del pedido.
func (uc *OrderUseCase) WhatsAppLink(id string) (*dto.WhatsAppLinkResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(order.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Phone == "" {
		return nil, domain.ErrInvalidInput
	}

	phone := sanitizePhone(supplier.Phone)
	message := BuildOrderMessage(order)
	link := "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)

	return &dto.WhatsAppLinkResponse{
		OrderID: order.ID,
		Phone:   phone,
		Link:    link,
		Message: message,
	}, nil
}

// MarkSent marca la orden como enviada al proveedor.
func (uc *OrderUseCase) MarkSent(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusDraft {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	order.Status = entity.OrderStatusSent
	order.SentAt = &now
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	notify(uc.notifier, "order", "update", order.ID)
	return toOrderResponse(order), nil
}

// Receive registra la recepción de la mercancía: por cada línea suma la
// cantidad a la existencia del producto y escribe un movimiento de entrada,
// todo en una transacción junto con el cambio de estado de la orden.
func (uc *OrderUseCase) Receive(ctx context.Context, id, responsible string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusSent {
		return nil, domain.ErrOrderNotReceivable
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.WasteRepository,
	) error {
		for _, it := range order.Items {
			product, err := productRepo.GetByID(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				// Producto eliminado después de crear la orden: la línea se omite.
				continue
			}
			previous := product.Quantity
			newQty := previous.Add(it.Quantity)
			if err := productRepo.UpdateQuantity(product.ID, newQty); err != nil {
				return err
			}
			mov := &entity.Movement{
				ID:               uuid.New().String(),
				Type:             entity.MovementTypeEntry,
				ProductID:        product.ID,
				ProductName:      product.Name,
				Quantity:         it.Quantity,
				PreviousQuantity: previous,
				NewQuantity:      newQty,
				Motive:           "recepción de orden " + order.ID,
				Responsible:      responsible,
				Date:             now,
				CreatedAt:        now,
			}
			if err := movementRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = entity.OrderStatusReceived
	order.ReceivedAt = &now
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	notify(uc.notifier, "order", "update", order.ID)
	return toOrderResponse(order), nil
}

// Delete elimina una orden por ID.
func (uc *OrderUseCase) Delete(id string) error {
	return uc.orderRepo.Delete(id)
}

// Suggestions devuelve la lista de pedido sugerido: productos bajo su umbral
// mínimo con cantidad sugerida = nivel deseado - existencia actual.
func (uc *OrderUseCase) Suggestions() ([]dto.OrderSuggestionDTO, error) {
	products, err := uc.productRepo.ListBelowMinimum()
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderSuggestionDTO, 0, len(products))
	for _, p := range products {
		suggested := p.TargetQuantity.Sub(p.Quantity)
		if !suggested.IsPositive() {
			continue
		}
		out = append(out, dto.OrderSuggestionDTO{
			ProductID:      p.ID,
			ProductName:    p.Name,
			SupplierName:   p.SupplierName,
			Quantity:       p.Quantity,
			MinQuantity:    p.MinQuantity,
			TargetQuantity: p.TargetQuantity,
			SuggestedQty:   suggested,
			EstimatedCost:  suggested.Mul(p.UnitCost),
		})
	}
	return out, nil
}

// BuildOrderMessage arma el texto del pedido para WhatsApp.
func BuildOrderMessage(order *entity.PurchaseOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido para %s:\n", order.SupplierName)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "- %s %s de %s\n", it.Quantity.String(), it.UnitMeasure, it.ProductName)
	}
	if order.Notes != "" {
		fmt.Fprintf(&b, "Notas: %s\n", order.Notes)
	}
	return b.String()
}

// sanitizePhone deja solo dígitos (wa.me exige número internacional sin signos).
func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toOrderResponse(o *entity.PurchaseOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitMeasure: it.UnitMeasure,
			UnitCost:    it.UnitCost,
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		Status:       o.Status,
		Items:        items,
		TotalCost:    o.TotalCost(),
		Notes:        o.Notes,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		SentAt:       o.SentAt,
		ReceivedAt:   o.ReceivedAt,
	}
}
