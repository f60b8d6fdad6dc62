package usecase

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

type orderTestEnv struct {
	orderRepo    *memOrderRepo
	supplierRepo *memSupplierRepo
	productRepo  *memProductRepo
	movementRepo *memMovementRepo
	wasteRepo    *memWasteRepo
	uc           *OrderUseCase
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	env := &orderTestEnv{
		orderRepo: newMemOrderRepo(),
		supplierRepo: newMemSupplierRepo(&entity.Supplier{
			ID:    "s1",
			Name:  "Distribuidora La Central",
			Phone: "+57 300 123-4567",
		}),
		productRepo: newMemProductRepo(
			&entity.Product{ID: "p1", Name: "Harina de trigo", UnitMeasure: "kg", UnitCost: d(3000), Quantity: d(10)},
			&entity.Product{ID: "p2", Name: "Azúcar", UnitMeasure: "kg", UnitCost: d(2500), Quantity: d(4)},
		),
		movementRepo: &memMovementRepo{},
		wasteRepo:    &memWasteRepo{},
	}
	tx := &memTxRunner{
		productRepo:  env.productRepo,
		movementRepo: env.movementRepo,
		wasteRepo:    env.wasteRepo,
	}
	env.uc = NewOrderUseCase(env.orderRepo, env.supplierRepo, env.productRepo, tx, nil)
	return env
}

func (env *orderTestEnv) createOrder(t *testing.T, notes string) *dto.OrderResponse {
	t.Helper()
	resp, err := env.uc.Create("user-1", dto.CreateOrderRequest{
		SupplierID: "s1",
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: d(25)},
			{ProductID: "p2", Quantity: d(10)},
		},
		Notes: notes,
	})
	require.NoError(t, err)
	return resp
}

func TestOrderCreate_MaterializaLineas(t *testing.T) {
	env := newOrderTestEnv(t)

	resp := env.createOrder(t, "entregar por la mañana")

	assert.Equal(t, entity.OrderStatusDraft, resp.Status)
	assert.Equal(t, "Distribuidora La Central", resp.SupplierName)
	require.Len(t, resp.Items, 2)
	// Nombre, unidad y costo quedan congelados en la línea al momento de crear
	assert.Equal(t, "Harina de trigo", resp.Items[0].ProductName)
	assert.Equal(t, "kg", resp.Items[0].UnitMeasure)
	assert.True(t, resp.Items[0].UnitCost.Equal(d(3000)))
	// total = 25*3000 + 10*2500 = 100000
	assert.True(t, resp.TotalCost.Equal(d(100000)),
		"total esperado 100000, got %s", resp.TotalCost)
	assert.Equal(t, "user-1", resp.CreatedBy)
}

func TestOrderCreate_SinLineas_EsInvalida(t *testing.T) {
	env := newOrderTestEnv(t)

	_, err := env.uc.Create("user-1", dto.CreateOrderRequest{SupplierID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.uc.Create("user-1", dto.CreateOrderRequest{
		SupplierID: "s1",
		Items:      []dto.OrderItemRequest{{ProductID: "p1", Quantity: d(0)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero es inválida")
}

func TestWhatsAppLink_TelefonoSanitizadoYMensajeEscapado(t *testing.T) {
	env := newOrderTestEnv(t)
	order := env.createOrder(t, "sin azúcar morena")

	link, err := env.uc.WhatsAppLink(order.ID)
	require.NoError(t, err)

	// El teléfono pierde espacios, guiones y el signo +
	assert.Equal(t, "573001234567", link.Phone)
	assert.True(t, strings.HasPrefix(link.Link, "https://wa.me/573001234567?text="),
		"link inesperado: %s", link.Link)

	// El texto decodificado del link reproduce el mensaje original
	encoded := strings.TrimPrefix(link.Link, "https://wa.me/573001234567?text=")
	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, link.Message, decoded)

	assert.Contains(t, link.Message, "Pedido para Distribuidora La Central")
	assert.Contains(t, link.Message, "- 25 kg de Harina de trigo")
	assert.Contains(t, link.Message, "Notas: sin azúcar morena")
}

func TestWhatsAppLink_ProveedorSinTelefono(t *testing.T) {
	env := newOrderTestEnv(t)
	env.supplierRepo.suppliers["s1"].Phone = ""
	order := env.createOrder(t, "")

	_, err := env.uc.WhatsAppLink(order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkSent_SoloDesdeBorrador(t *testing.T) {
	env := newOrderTestEnv(t)
	order := env.createOrder(t, "")

	sent, err := env.uc.MarkSent(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	// Reenviar una orden ya enviada es conflicto
	_, err = env.uc.MarkSent(order.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceive_SumaStockYRegistraEntradas(t *testing.T) {
	env := newOrderTestEnv(t)
	order := env.createOrder(t, "")
	_, err := env.uc.MarkSent(order.ID)
	require.NoError(t, err)

	received, err := env.uc.Receive(context.Background(), order.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	// p1: 10 + 25 = 35, p2: 4 + 10 = 14
	p1, _ := env.productRepo.GetByID("p1")
	p2, _ := env.productRepo.GetByID("p2")
	assert.True(t, p1.Quantity.Equal(d(35)), "p1 esperado 35, got %s", p1.Quantity)
	assert.True(t, p2.Quantity.Equal(d(14)), "p2 esperado 14, got %s", p2.Quantity)

	// Un movimiento de entrada por línea, con el delta de la orden
	require.Len(t, env.movementRepo.movements, 2)
	for _, m := range env.movementRepo.movements {
		assert.Equal(t, entity.MovementTypeEntry, m.Type)
		assert.Equal(t, "user-2", m.Responsible)
		assert.Contains(t, m.Motive, order.ID)
	}
}

func TestReceive_SoloOrdenesEnviadas(t *testing.T) {
	env := newOrderTestEnv(t)
	order := env.createOrder(t, "")

	// Borrador: no se puede recibir
	_, err := env.uc.Receive(context.Background(), order.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrOrderNotReceivable)

	// Recibida: tampoco se puede recibir dos veces
	_, err = env.uc.MarkSent(order.ID)
	require.NoError(t, err)
	_, err = env.uc.Receive(context.Background(), order.ID, "user-2")
	require.NoError(t, err)
	_, err = env.uc.Receive(context.Background(), order.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrOrderNotReceivable)
}

func TestReceive_ProductoEliminado_OmiteLinea(t *testing.T) {
	env := newOrderTestEnv(t)
	order := env.createOrder(t, "")
	_, err := env.uc.MarkSent(order.ID)
	require.NoError(t, err)

	// p2 se elimina entre el envío y la recepción
	require.NoError(t, env.productRepo.Delete("p2"))

	_, err = env.uc.Receive(context.Background(), order.ID, "user-2")
	require.NoError(t, err)

	p1, _ := env.productRepo.GetByID("p1")
	assert.True(t, p1.Quantity.Equal(d(35)))
	assert.Len(t, env.movementRepo.movements, 1, "solo la línea viva genera movimiento")
}

func TestSuggestions_ProductosBajoMinimo(t *testing.T) {
	env := newOrderTestEnv(t)
	// p2 queda bajo mínimo: existencia 4, mínimo 6, nivel deseado 20
	p2 := env.productRepo.products["p2"]
	p2.MinQuantity = d(6)
	p2.TargetQuantity = d(20)

	out, err := env.uc.Suggestions()
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, "p2", s.ProductID)
	assert.True(t, s.SuggestedQty.Equal(d(16)), "sugerido = 20 - 4 = 16")
	assert.True(t, s.EstimatedCost.Equal(d(40000)), "costo = 16 * 2500")
}

func TestBuildOrderMessage_FormatoDeLineas(t *testing.T) {
	now := time.Now()
	order := &entity.PurchaseOrder{
		SupplierName: "Avícola San Jorge",
		Items: []entity.OrderItem{
			{ProductName: "Huevos AA", Quantity: d(30), UnitMeasure: "und"},
		},
		CreatedAt: now,
	}
	msg := BuildOrderMessage(order)
	assert.Equal(t, "Pedido para Avícola San Jorge:\n- 30 und de Huevos AA\n", msg)
}
