package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria compartidos por los tests de casos de uso: mapas + mutex +
// inyección de errores puntuales.
// ──────────────────────────────────────────────────────────────────────────────

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type memProductRepo struct {
	mu          sync.Mutex
	products    map[string]*entity.Product
	qtyUpdates  map[string]decimal.Decimal // productID -> última existencia fijada
	failsUpdate error
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	r := &memProductRepo{
		products:   make(map[string]*entity.Product),
		qtyUpdates: make(map[string]decimal.Decimal),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByName(name string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateQuantity(productID string, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failsUpdate != nil {
		return r.failsUpdate
	}
	if p, ok := r.products[productID]; ok {
		p.Quantity = quantity
	}
	r.qtyUpdates[productID] = quantity
	return nil
}

func (r *memProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) ListBelowMinimum() ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if p.BelowMinimum() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

type memSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func newMemSupplierRepo(suppliers ...*entity.Supplier) *memSupplierRepo {
	r := &memSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	for _, s := range suppliers {
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *memSupplierRepo) Create(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }
func (r *memSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (r *memSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}
func (r *memSupplierRepo) Update(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }
func (r *memSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}
func (r *memSupplierRepo) Delete(id string) error { delete(r.suppliers, id); return nil }

type memOrderRepo struct {
	orders map[string]*entity.PurchaseOrder
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*entity.PurchaseOrder)}
}

func (r *memOrderRepo) Create(o *entity.PurchaseOrder) error { r.orders[o.ID] = o; return nil }
func (r *memOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}
func (r *memOrderRepo) Update(o *entity.PurchaseOrder) error { r.orders[o.ID] = o; return nil }
func (r *memOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *memOrderRepo) Delete(id string) error { delete(r.orders, id); return nil }

type memWasteRepo struct {
	mu     sync.Mutex
	wastes []*entity.Waste
}

func (r *memWasteRepo) Create(w *entity.Waste) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wastes = append(r.wastes, w)
	return nil
}

func (r *memWasteRepo) GetByID(id string) (*entity.Waste, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wastes {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *memWasteRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Waste, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Waste(nil), r.wastes...), nil
}

func (r *memWasteRepo) ListBySession(sessionID string) ([]*entity.Waste, error) {
	return r.List(nil, nil, 0, 0)
}

func (r *memWasteRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.wastes {
		if w.ID == id {
			r.wastes = append(r.wastes[:i], r.wastes[i+1:]...)
			break
		}
	}
	return nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.Movement
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(movType string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.Movement(nil), r.movements...), nil
}

func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListBySession(sessionID string) ([]*entity.Movement, error) {
	return r.List("", nil, nil, 0, 0)
}

func (r *memMovementRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.movements {
		if m.ID == id {
			r.movements = append(r.movements[:i], r.movements[i+1:]...)
			break
		}
	}
	return nil
}

// memTxRunner invoca el callback directamente con los repos en memoria.
// Sin transacción real: los tests comprueban efectos, no atomicidad de BD.
type memTxRunner struct {
	productRepo  *memProductRepo
	movementRepo *memMovementRepo
	wasteRepo    *memWasteRepo
}

func (t *memTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	wasteRepo repository.WasteRepository,
) error) error {
	return fn(t.productRepo, t.movementRepo, t.wasteRepo)
}

// recorderNotifier acumula las notificaciones emitidas.
type recorderNotifier struct {
	mu     sync.Mutex
	events []string // "resource:action:id"
}

func (n *recorderNotifier) Notify(resource, action, id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, resource+":"+action+":"+id)
}

var (
	_ repository.ProductRepository  = (*memProductRepo)(nil)
	_ repository.SupplierRepository = (*memSupplierRepo)(nil)
	_ repository.OrderRepository    = (*memOrderRepo)(nil)
	_ repository.WasteRepository    = (*memWasteRepo)(nil)
	_ repository.MovementRepository = (*memMovementRepo)(nil)
	_ TxRunner                      = (*memTxRunner)(nil)
	_ Notifier                      = (*recorderNotifier)(nil)
)
