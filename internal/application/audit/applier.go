package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/reconcile"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// Pasos de aplicación de un ajuste, para identificar sub-escrituras fallidas.
const (
	StepProduct  = "product"
	StepWaste    = "waste"
	StepMovement = "movement"
)

// ApplyWarning describe una sub-escritura fallida durante la aplicación de
// ajustes. No invalida la sesión: el registro de sesión ya es durable.
type ApplyWarning struct {
	ProductID string
	Step      string
	Err       error
}

func (w ApplyWarning) Error() string {
	return fmt.Sprintf("producto %s, paso %s: %v", w.ProductID, w.Step, w.Err)
}

// SessionMeta metadatos de la sesión que el aplicador referencia en cada escritura.
type SessionMeta struct {
	SessionID string
	Employee  string
	Type      string
	ClosedAt  time.Time
}

// Applier aplica los ajustes derivados de una sesión de conciliación.
// Por cada línea con diferencia: fija la existencia del producto al valor
// contado, crea la merma si es faltante y escribe el movimiento de ajuste.
// Las líneas se procesan en paralelo y de forma best-effort: el fallo de una
// no bloquea a las demás, y una vez iniciada la aplicación no hay cancelación
// ni rollback (el registro de sesión ya persistido es la fuente de verdad de
// lo contado).
type Applier struct {
	productRepo  repository.ProductRepository
	wasteRepo    repository.WasteRepository
	movementRepo repository.MovementRepository
}

// NewApplier construye el aplicador.
func NewApplier(
	productRepo repository.ProductRepository,
	wasteRepo repository.WasteRepository,
	movementRepo repository.MovementRepository,
) *Applier {
	return &Applier{productRepo: productRepo, wasteRepo: wasteRepo, movementRepo: movementRepo}
}

// Apply procesa todas las líneas y devuelve las advertencias acumuladas.
// Las líneas match se omiten por completo (cero escrituras). Entre líneas no
// hay garantía de orden: son independientes.
func (a *Applier) Apply(meta SessionMeta, items []entity.AuditItem) []ApplyWarning {
	var (
		mu       sync.Mutex
		warnings []ApplyWarning
		wg       sync.WaitGroup
	)
	for i := range items {
		item := items[i]
		if item.Classification == string(reconcile.ClassMatch) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws := a.applyItem(meta, item)
			if len(ws) > 0 {
				mu.Lock()
				warnings = append(warnings, ws...)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return warnings
}

// applyItem ejecuta las escrituras de una línea, en orden:
//  1. existencia del producto = contado (set directo, no incremental)
//  2. merma si es faltante
//  3. movimiento de ajuste
//
// Si falla la escritura del producto se abortan los pasos restantes de la
// línea; los fallos de merma/movimiento no se bloquean entre sí.
func (a *Applier) applyItem(meta SessionMeta, item entity.AuditItem) []ApplyWarning {
	if err := a.productRepo.UpdateQuantity(item.ProductID, item.Counted); err != nil {
		return []ApplyWarning{{ProductID: item.ProductID, Step: StepProduct, Err: err}}
	}

	var warnings []ApplyWarning

	if item.Classification == string(reconcile.ClassShortage) {
		waste := &entity.Waste{
			ID:          uuid.New().String(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Difference.Abs(),
			Reason:      entity.WasteReasonAudit,
			UnitCost:    item.UnitCost,
			TotalValue:  item.Difference.Abs().Mul(item.UnitCost),
			Date:        meta.ClosedAt,
			Observation: fmt.Sprintf("auditoría %s cerrada por %s", meta.Type, meta.Employee),
			SessionID:   meta.SessionID,
			CreatedAt:   meta.ClosedAt,
		}
		if err := a.wasteRepo.Create(waste); err != nil {
			warnings = append(warnings, ApplyWarning{ProductID: item.ProductID, Step: StepWaste, Err: err})
		}
	}

	motive := "ajuste por sobrante"
	if item.Classification == string(reconcile.ClassShortage) {
		motive = "ajuste por faltante"
	}
	mov := &entity.Movement{
		ID:               uuid.New().String(),
		Type:             entity.MovementTypeAdjustment,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Difference.Abs(),
		PreviousQuantity: item.Recorded,
		NewQuantity:      item.Counted,
		Motive:           motive,
		Responsible:      meta.Employee,
		SessionID:        meta.SessionID,
		Date:             meta.ClosedAt,
		CreatedAt:        meta.ClosedAt,
	}
	if err := a.movementRepo.Create(mov); err != nil {
		warnings = append(warnings, ApplyWarning{ProductID: item.ProductID, Step: StepMovement, Err: err})
	}
	return warnings
}
