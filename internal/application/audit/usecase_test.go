package audit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/reconcile"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mismo estilo que los mocks de servicios en los tests de
// casos de uso: mapas + mutex + inyección de errores por producto).
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	updates  []string // IDs de productos cuya existencia se fijó
	failFor  map[string]error
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}, failFor: map[string]error{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakeProductRepo) GetByName(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error            { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateQuantity(id string, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failFor[id]; ok {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = qty
	r.updates = append(r.updates, id)
	return nil
}
func (r *fakeProductRepo) List(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) ListBelowMinimum() ([]*entity.Product, error)     { return nil, nil }
func (r *fakeProductRepo) Delete(string) error                              { return nil }

func (r *fakeProductRepo) quantityOf(id string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Quantity
}

type fakeWasteRepo struct {
	mu      sync.Mutex
	wastes  []*entity.Waste
	failFor map[string]error
}

func newFakeWasteRepo() *fakeWasteRepo { return &fakeWasteRepo{failFor: map[string]error{}} }

func (r *fakeWasteRepo) Create(w *entity.Waste) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failFor[w.ProductID]; ok {
		return err
	}
	r.wastes = append(r.wastes, w)
	return nil
}
func (r *fakeWasteRepo) GetByID(string) (*entity.Waste, error) { return nil, nil }
func (r *fakeWasteRepo) List(*time.Time, *time.Time, int, int) ([]*entity.Waste, error) {
	return r.wastes, nil
}
func (r *fakeWasteRepo) ListBySession(string) ([]*entity.Waste, error) { return r.wastes, nil }
func (r *fakeWasteRepo) Delete(string) error                           { return nil }

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.Movement
	failFor   map[string]error
}

func newFakeMovementRepo() *fakeMovementRepo { return &fakeMovementRepo{failFor: map[string]error{}} }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failFor[m.ProductID]; ok {
		return err
	}
	r.movements = append(r.movements, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }
func (r *fakeMovementRepo) List(string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) ListByProduct(string, int, int) ([]*entity.Movement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) ListBySession(string) ([]*entity.Movement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) Delete(string) error { return nil }

type fakeSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]*entity.AuditSession
	failCreate error
	onCreate   func() // hook para sincronizar tests concurrentes
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.AuditSession{}}
}

func (r *fakeSessionRepo) Create(s *entity.AuditSession) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	if r.onCreate != nil {
		r.onCreate()
	}
	return nil
}
func (r *fakeSessionRepo) GetByID(id string) (*entity.AuditSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}
func (r *fakeSessionRepo) GetByTypeAndDate(string, time.Time) (*entity.AuditSession, error) {
	return nil, nil
}
func (r *fakeSessionRepo) List(int, int) ([]*entity.AuditSession, error) { return nil, nil }
func (r *fakeSessionRepo) Delete(string) error                           { return nil }

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func product(id, name string, qty, cost int64) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     name,
		Quantity: d(qty),
		UnitCost: d(cost),
	}
}

type testEnv struct {
	uc        *UseCase
	products  *fakeProductRepo
	wastes    *fakeWasteRepo
	movements *fakeMovementRepo
	sessions  *fakeSessionRepo
}

func newTestEnv(products ...*entity.Product) *testEnv {
	pr := newFakeProductRepo(products...)
	wr := newFakeWasteRepo()
	mr := newFakeMovementRepo()
	sr := newFakeSessionRepo()
	applier := NewApplier(pr, wr, mr)
	return &testEnv{
		uc:        NewUseCase(sr, pr, applier, nil),
		products:  pr,
		wastes:    wr,
		movements: mr,
		sessions:  sr,
	}
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)
var _ repository.WasteRepository = (*fakeWasteRepo)(nil)
var _ repository.MovementRepository = (*fakeMovementRepo)(nil)
var _ repository.AuditSessionRepository = (*fakeSessionRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Validación: sin responsable o sin conteo no hay ninguna escritura.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_SinResponsable_CeroEscrituras(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))

	_, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "   ",
		Items:    []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(42)}},
	})

	require.ErrorIs(t, err, domain.ErrEmployeeRequired)
	assert.Zero(t, env.sessions.count(), "no debe persistirse ninguna sesión")
	assert.Empty(t, env.products.updates, "no debe tocarse la existencia de ningún producto")
	assert.Empty(t, env.wastes.wastes, "no debe crearse ninguna merma")
	assert.Empty(t, env.movements.movements, "no debe crearse ningún movimiento")
}

func TestClose_LineaSinContar_ErrorDistintoYCeroEscrituras(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000), product("p2", "Leche", 10, 500))

	_, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Counted: dp(50)},
			{ProductID: "p2"}, // sin contar
		},
	})

	require.ErrorIs(t, err, domain.ErrCountedRequired)
	assert.Contains(t, err.Error(), "p2", "el error debe identificar la línea sin contar")
	assert.Zero(t, env.sessions.count())
	assert.Empty(t, env.products.updates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario A: contado == registrado -> match, cero escrituras para la línea.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_EscenarioMatch_OmiteEscrituras(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Type:     entity.AuditTypeDaily,
		Items:    []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(50)}},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, string(reconcile.ClassMatch), resp.Items[0].Classification)
	assert.Empty(t, resp.Warnings)

	// La sesión sí se persiste; la línea match se omite por completo:
	// ni producto, ni merma, ni movimiento.
	assert.Equal(t, 1, env.sessions.count())
	assert.Empty(t, env.products.updates, "una línea match no reescribe la existencia")
	assert.Empty(t, env.wastes.wastes)
	assert.Empty(t, env.movements.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario B: faltante -> merma + movimiento + existencia fijada al contado.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_EscenarioFaltante(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Type:     entity.AuditTypeWeekly,
		Items:    []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(42)}},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	it := resp.Items[0]
	assert.Equal(t, string(reconcile.ClassShortage), it.Classification)
	assert.True(t, it.Difference.Equal(d(-8)))
	assert.True(t, it.MonetaryImpact.Equal(d(-8000)))

	// Existencia fijada directamente al valor contado
	assert.True(t, env.products.quantityOf("p1").Equal(d(42)))

	// Una merma con cantidad 8 y valor 8000, referenciando la sesión
	require.Len(t, env.wastes.wastes, 1)
	waste := env.wastes.wastes[0]
	assert.True(t, waste.Quantity.Equal(d(8)))
	assert.True(t, waste.TotalValue.Equal(d(8000)))
	assert.Equal(t, entity.WasteReasonAudit, waste.Reason)
	assert.Equal(t, resp.SessionID, waste.SessionID)
	assert.Contains(t, waste.Observation, "Ana")
	assert.Contains(t, waste.Observation, entity.AuditTypeWeekly)

	// Un movimiento de ajuste con anterior 50 y nuevo 42
	require.Len(t, env.movements.movements, 1)
	mov := env.movements.movements[0]
	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.True(t, mov.Quantity.Equal(d(8)))
	assert.True(t, mov.PreviousQuantity.Equal(d(50)))
	assert.True(t, mov.NewQuantity.Equal(d(42)))
	assert.Equal(t, "Ana", mov.Responsible)
	assert.Equal(t, resp.SessionID, mov.SessionID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario C: sobrante -> movimiento sin merma.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_EscenarioSobrante(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Items:    []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(55)}},
	})

	require.NoError(t, err)
	assert.Equal(t, string(reconcile.ClassSurplus), resp.Items[0].Classification)
	assert.True(t, env.products.quantityOf("p1").Equal(d(55)))
	assert.Empty(t, env.wastes.wastes, "un sobrante no genera merma")
	require.Len(t, env.movements.movements, 1)
	mov := env.movements.movements[0]
	assert.True(t, mov.Quantity.Equal(d(5)))
	assert.True(t, mov.PreviousQuantity.Equal(d(50)))
	assert.True(t, mov.NewQuantity.Equal(d(55)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales de sesión con faltante + sobrante + match.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_TotalesSesion(t *testing.T) {
	env := newTestEnv(
		product("p1", "Tomate", 50, 1000),
		product("p2", "Leche", 50, 1000),
		product("p3", "Arroz", 50, 1000),
	)

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Type:     entity.AuditTypeMonthly,
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Counted: dp(42)}, // faltante 8
			{ProductID: "p2", Counted: dp(55)}, // sobrante 5
			{ProductID: "p3", Counted: dp(50)}, // match
		},
	})

	require.NoError(t, err)
	totals := resp.Totals
	assert.True(t, totals.ShortageUnits.Equal(d(8)))
	assert.True(t, totals.ShortageValue.Equal(d(8000)))
	assert.True(t, totals.SurplusUnits.Equal(d(5)))
	assert.True(t, totals.SurplusValue.Equal(d(5000)))
	assert.True(t, totals.NetValue.Equal(d(-3000)))
	assert.Equal(t, 2, totals.ItemsWithDifference)

	// La sesión persistida materializa los mismos totales
	session, err := env.sessions.GetByID(resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.NetValue.Equal(d(-3000)))
	assert.Len(t, session.Items, 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos parciales: la sesión sigue cerrada, solo se reporta lo que falló.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_FalloParcialEnMerma_SesionValida(t *testing.T) {
	env := newTestEnv(
		product("p1", "Tomate", 50, 1000),
		product("p2", "Leche", 50, 1000),
	)
	env.wastes.failFor["p1"] = errors.New("timeout de red")

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Counted: dp(42)}, // faltante, su merma fallará
			{ProductID: "p2", Counted: dp(55)}, // sobrante, completa
		},
	})

	// El cierre NO falla: la sesión quedó persistida y es válida.
	require.NoError(t, err)
	assert.Equal(t, 1, env.sessions.count())

	// Exactamente una advertencia: la merma de p1.
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "p1", resp.Warnings[0].ProductID)
	assert.Equal(t, StepWaste, resp.Warnings[0].Step)

	// El resto de escrituras de p1 sí ocurrieron (producto y movimiento),
	// y p2 se aplicó completo.
	assert.True(t, env.products.quantityOf("p1").Equal(d(42)))
	assert.True(t, env.products.quantityOf("p2").Equal(d(55)))
	assert.Len(t, env.movements.movements, 2)
	assert.Empty(t, env.wastes.wastes)
}

func TestClose_FalloEnProducto_AbortaLineaPeroNoHermanas(t *testing.T) {
	env := newTestEnv(
		product("p1", "Tomate", 50, 1000),
		product("p2", "Leche", 50, 1000),
	)
	env.products.failFor["p1"] = errors.New("conexión rechazada")

	resp, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Counted: dp(42)},
			{ProductID: "p2", Counted: dp(48)},
		},
	})

	require.NoError(t, err)

	// p1: el fallo en el producto aborta sus pasos restantes (ni merma ni movimiento)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "p1", resp.Warnings[0].ProductID)
	assert.Equal(t, StepProduct, resp.Warnings[0].Step)
	for _, w := range env.wastes.wastes {
		assert.NotEqual(t, "p1", w.ProductID)
	}
	for _, m := range env.movements.movements {
		assert.NotEqual(t, "p1", m.ProductID)
	}

	// p2 procesada completa a pesar del fallo de p1
	assert.True(t, env.products.quantityOf("p2").Equal(d(48)))
}

func TestClose_FalloAlPersistirSesion_EsFatal(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))
	env.sessions.failCreate = errors.New("base de datos caída")

	_, err := env.uc.Close(dto.CloseAuditRequest{
		Employee: "Ana",
		Items:    []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(42)}},
	})

	// Sin sesión durable no hay ajustes: la operación entera falla.
	require.Error(t, err)
	assert.True(t, env.products.quantityOf("p1").Equal(d(50)), "la existencia no debe tocarse")
	assert.Empty(t, env.wastes.wastes)
	assert.Empty(t, env.movements.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard de reentrada: un segundo cierre de la misma sesión se rechaza.
// ──────────────────────────────────────────────────────────────────────────────

func TestClose_GuardDeReentrada(t *testing.T) {
	env := newTestEnv(product("p1", "Tomate", 50, 1000))

	persisted := make(chan struct{})
	proceed := make(chan struct{})
	env.sessions.onCreate = func() {
		close(persisted)
		<-proceed // mantiene el primer cierre "en vuelo"
	}

	req := dto.CloseAuditRequest{
		Employee:   "Ana",
		SessionKey: "sesion-123",
		Items:      []dto.AuditItemRequest{{ProductID: "p1", Counted: dp(42)}},
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.uc.Close(req)
		done <- err
	}()

	<-persisted // el primer cierre ya está dentro de Closing

	_, err := env.uc.Close(req)
	assert.ErrorIs(t, err, domain.ErrSessionClosing,
		"un cierre en vuelo debe rechazar reintentos de la misma sesión")

	close(proceed)
	require.NoError(t, <-done)

	// Liberado el guard, una sesión nueva con la misma clave sí puede cerrarse.
	env.sessions.onCreate = nil
	_, err = env.uc.Close(req)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview: cálculo puro, sin escrituras.
// ──────────────────────────────────────────────────────────────────────────────

func TestPreview_SinEscrituras(t *testing.T) {
	env := newTestEnv(
		product("p1", "Tomate", 50, 1000),
		product("p2", "Leche", 50, 1000),
	)

	resp, err := env.uc.Preview(dto.PreviewAuditRequest{
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Counted: dp(42)},
			{ProductID: "p2"}, // aún sin contar: se omite
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Totals.ShortageUnits.Equal(d(8)))

	assert.Zero(t, env.sessions.count())
	assert.Empty(t, env.products.updates)
	assert.Empty(t, env.wastes.wastes)
	assert.Empty(t, env.movements.movements)
}

func TestPreview_RecordedExplicito(t *testing.T) {
	// La foto tomada al inicio de la sesión prevalece sobre la existencia actual.
	env := newTestEnv(product("p1", "Tomate", 47, 1000))

	resp, err := env.uc.Preview(dto.PreviewAuditRequest{
		Items: []dto.AuditItemRequest{
			{ProductID: "p1", Recorded: dp(50), Counted: dp(42)},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Recorded.Equal(d(50)))
	assert.True(t, resp.Items[0].Difference.Equal(d(-8)))
}
