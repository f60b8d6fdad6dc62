package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

type wasteTestEnv struct {
	productRepo  *memProductRepo
	wasteRepo    *memWasteRepo
	movementRepo *memMovementRepo
	notifier     *recorderNotifier
	uc           *WasteUseCase
}

func newWasteTestEnv(t *testing.T) *wasteTestEnv {
	t.Helper()
	env := &wasteTestEnv{
		productRepo: newMemProductRepo(
			&entity.Product{ID: "p1", Name: "Leche entera", UnitMeasure: "lt", UnitCost: d(4000), Quantity: d(12)},
		),
		wasteRepo:    &memWasteRepo{},
		movementRepo: &memMovementRepo{},
		notifier:     &recorderNotifier{},
	}
	tx := &memTxRunner{
		productRepo:  env.productRepo,
		movementRepo: env.movementRepo,
		wasteRepo:    env.wasteRepo,
	}
	env.uc = NewWasteUseCase(env.wasteRepo, env.productRepo, tx, env.notifier)
	return env
}

func TestWasteCreate_DescuentaStockYValoriza(t *testing.T) {
	env := newWasteTestEnv(t)

	resp, err := env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID:   "p1",
		Quantity:    d(3),
		Reason:      "vencido",
		Observation: "lote del viernes",
		Responsible: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Leche entera", resp.ProductName)
	assert.True(t, resp.TotalValue.Equal(d(12000)), "3 * 4000 = 12000")

	p, _ := env.productRepo.GetByID("p1")
	assert.True(t, p.Quantity.Equal(d(9)), "12 - 3 = 9")

	// El movimiento de salida acompaña a la merma
	require.Len(t, env.movementRepo.movements, 1)
	mov := env.movementRepo.movements[0]
	assert.Equal(t, entity.MovementTypeExit, mov.Type)
	assert.True(t, mov.Quantity.Equal(d(3)))
	assert.True(t, mov.PreviousQuantity.Equal(d(12)))
	assert.True(t, mov.NewQuantity.Equal(d(9)))
	assert.Equal(t, "merma: vencido", mov.Motive)
	assert.Equal(t, "user-1", mov.Responsible)

	// Notifica la merma y el cambio de producto
	assert.Contains(t, env.notifier.events, "waste:create:"+resp.ID)
	assert.Contains(t, env.notifier.events, "product:update:p1")
}

func TestWasteCreate_MayorQueExistencia_EsRechazada(t *testing.T) {
	env := newWasteTestEnv(t)

	_, err := env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "p1",
		Quantity:  d(13), // existencia actual: 12
		Reason:    "derrame",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada se escribió
	p, _ := env.productRepo.GetByID("p1")
	assert.True(t, p.Quantity.Equal(d(12)))
	assert.Empty(t, env.wasteRepo.wastes)
	assert.Empty(t, env.movementRepo.movements)
}

func TestWasteCreate_ExistenciaExacta_QuedaEnCero(t *testing.T) {
	env := newWasteTestEnv(t)

	_, err := env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "p1",
		Quantity:  d(12),
		Reason:    "daño de nevera",
	})
	require.NoError(t, err)

	p, _ := env.productRepo.GetByID("p1")
	assert.True(t, p.Quantity.IsZero())
}

func TestWasteCreate_EntradaInvalida(t *testing.T) {
	env := newWasteTestEnv(t)

	_, err := env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "p1", Quantity: d(0), Reason: "vencido",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "p1", Quantity: d(2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "motivo vacío")

	_, err = env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "no-existe", Quantity: d(2), Reason: "vencido",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWasteDelete_NoRevierteExistencia(t *testing.T) {
	env := newWasteTestEnv(t)

	resp, err := env.uc.Create(context.Background(), dto.CreateWasteRequest{
		ProductID: "p1", Quantity: d(3), Reason: "vencido",
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.Delete(resp.ID))

	p, _ := env.productRepo.GetByID("p1")
	assert.True(t, p.Quantity.Equal(d(9)), "borrar la merma no devuelve stock")
}
