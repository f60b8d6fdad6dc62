package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/reconcile"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// UseCase orquesta las sesiones de conciliación: previsualización de
// diferencias, cierre (validar → persistir sesión → aplicar ajustes) y
// consultas sobre sesiones cerradas.
//
// El cierre sigue un orden deliberado: el registro de sesión se persiste ANTES
// de aplicar cualquier ajuste. La sesión es la fuente de verdad durable de lo
// que se contó, independiente de si todas las escrituras derivadas tuvieron
// éxito.
type UseCase struct {
	sessionRepo repository.AuditSessionRepository
	productRepo repository.ProductRepository
	applier     *Applier
	notifier    Notifier

	// Guard de reentrada: una sesión solo puede estar cerrándose una vez.
	// Reemplaza el flag booleano "is closing" de UI por una transición
	// explícita rechazada con ErrSessionClosing.
	mu      sync.Mutex
	closing map[string]struct{}
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	sessionRepo repository.AuditSessionRepository,
	productRepo repository.ProductRepository,
	applier *Applier,
	notifier Notifier,
) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		applier:     applier,
		notifier:    notifier,
		closing:     make(map[string]struct{}),
	}
}

// Preview calcula diferencias y totales sin escribir nada. Las líneas aún sin
// contar (counted nil) se omiten del resultado: la sesión sigue en curso.
func (uc *UseCase) Preview(in dto.PreviewAuditRequest) (*dto.PreviewAuditResponse, error) {
	items := make([]dto.AuditItemResponse, 0, len(in.Items))
	results := make([]reconcile.Result, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Counted == nil {
			continue
		}
		entItem, res, err := uc.buildItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, toItemResponse(*entItem))
		results = append(results, res)
	}
	totals := reconcile.Aggregate(results)
	return &dto.PreviewAuditResponse{
		Items:  items,
		Totals: toTotalsResponse(totals),
	}, nil
}

// Close cierra una sesión de conciliación.
//
// Precondiciones (sin escrituras si fallan): responsable no vacío tras
// recortar espacios; toda línea con cantidad contada. Después: persiste la
// sesión (fatal si falla: la sesión no ocurrió), aplica los ajustes
// best-effort y devuelve las advertencias acumuladas. La sesión persistida
// nunca se muta, incluso si fallan escrituras derivadas.
func (uc *UseCase) Close(in dto.CloseAuditRequest) (*dto.CloseAuditResponse, error) {
	employee := strings.TrimSpace(in.Employee)
	if employee == "" {
		return nil, domain.ErrEmployeeRequired
	}
	sessionType := in.Type
	if sessionType == "" {
		sessionType = entity.AuditTypeAdHoc
	}
	switch sessionType {
	case entity.AuditTypeDaily, entity.AuditTypeWeekly, entity.AuditTypeMonthly, entity.AuditTypeAdHoc:
	default:
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.Counted == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrCountedRequired, it.ProductID)
		}
	}

	key := in.SessionKey
	if key == "" {
		key = employee + "|" + sessionType
	}
	if err := uc.acquire(key); err != nil {
		return nil, err
	}
	defer uc.release(key)

	closedAt := time.Now()
	startedAt := closedAt
	if in.StartedAt != nil {
		startedAt = *in.StartedAt
	}

	entItems := make([]entity.AuditItem, 0, len(in.Items))
	results := make([]reconcile.Result, 0, len(in.Items))
	for _, it := range in.Items {
		entItem, res, err := uc.buildItem(it)
		if err != nil {
			return nil, err
		}
		entItems = append(entItems, *entItem)
		results = append(results, res)
	}
	totals := reconcile.Aggregate(results)

	session := &entity.AuditSession{
		ID:                  uuid.New().String(),
		Employee:            employee,
		Type:                sessionType,
		StartedAt:           startedAt,
		ClosedAt:            closedAt,
		Items:               entItems,
		ShortageUnits:       totals.ShortageUnits,
		SurplusUnits:        totals.SurplusUnits,
		ShortageValue:       totals.ShortageValue,
		SurplusValue:        totals.SurplusValue,
		NetValue:            totals.NetValue,
		ItemsWithDifference: totals.ItemsWithDifference,
		CreatedAt:           closedAt,
	}

	// Durabilidad antes de efectos: si esto falla, la sesión no ocurrió y no
	// se intenta ningún ajuste.
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("persistir sesión: %w", err)
	}

	warnings := uc.applier.Apply(SessionMeta{
		SessionID: session.ID,
		Employee:  employee,
		Type:      sessionType,
		ClosedAt:  closedAt,
	}, entItems)

	notify(uc.notifier, "audit_session", "create", session.ID)

	resp := &dto.CloseAuditResponse{
		SessionID: session.ID,
		Items:     toItemResponses(entItems),
		Totals:    toTotalsResponse(totals),
	}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, dto.ApplyWarningDTO{
			ProductID: w.ProductID,
			Step:      w.Step,
			Error:     w.Err.Error(),
		})
	}
	return resp, nil
}

// GetByID obtiene una sesión cerrada.
func (uc *UseCase) GetByID(id string) (*dto.AuditSessionResponse, error) {
	session, err := uc.sessionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return toSessionResponse(session), nil
}

// List lista sesiones cerradas con paginación.
func (uc *UseCase) List(limit, offset int) (*dto.AuditSessionListResponse, error) {
	list, err := uc.sessionRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditSessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSessionResponse(s))
	}
	return &dto.AuditSessionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// HasSessionToday indica si ya existe una sesión del tipo dado cerrada hoy.
func (uc *UseCase) HasSessionToday(sessionType string) (bool, error) {
	session, err := uc.sessionRepo.GetByTypeAndDate(sessionType, time.Now())
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// Delete elimina una sesión completa (acción de limpieza). No revierte los
// ajustes que la sesión aplicó en su momento.
func (uc *UseCase) Delete(id string) error {
	if err := uc.sessionRepo.Delete(id); err != nil {
		return err
	}
	notify(uc.notifier, "audit_session", "delete", id)
	return nil
}

// buildItem resuelve el producto y materializa la línea con sus derivados.
// Recorded nil usa la existencia actual del producto como foto.
func (uc *UseCase) buildItem(in dto.AuditItemRequest) (*entity.AuditItem, reconcile.Result, error) {
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, reconcile.Result{}, err
	}
	if product == nil {
		return nil, reconcile.Result{}, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	recorded := product.Quantity
	if in.Recorded != nil {
		recorded = *in.Recorded
	}
	counted := recorded
	if in.Counted != nil {
		counted = *in.Counted
	}
	res := reconcile.Calculate(recorded, counted, product.UnitCost)
	return &entity.AuditItem{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Recorded:       recorded,
		Counted:        counted,
		UnitCost:       product.UnitCost,
		Difference:     res.Difference,
		MonetaryImpact: res.MonetaryImpact,
		Classification: string(res.Classification),
		Note:           in.Note,
	}, res, nil
}

func (uc *UseCase) acquire(key string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.closing[key]; busy {
		return domain.ErrSessionClosing
	}
	uc.closing[key] = struct{}{}
	return nil
}

func (uc *UseCase) release(key string) {
	uc.mu.Lock()
	delete(uc.closing, key)
	uc.mu.Unlock()
}

func toItemResponse(it entity.AuditItem) dto.AuditItemResponse {
	return dto.AuditItemResponse{
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		Recorded:       it.Recorded,
		Counted:        it.Counted,
		UnitCost:       it.UnitCost,
		Difference:     it.Difference,
		MonetaryImpact: it.MonetaryImpact,
		Classification: it.Classification,
		Note:           it.Note,
	}
}

func toItemResponses(items []entity.AuditItem) []dto.AuditItemResponse {
	out := make([]dto.AuditItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toTotalsResponse(t reconcile.Totals) dto.AuditTotalsResponse {
	return dto.AuditTotalsResponse{
		ShortageUnits:       t.ShortageUnits,
		SurplusUnits:        t.SurplusUnits,
		ShortageValue:       t.ShortageValue,
		SurplusValue:        t.SurplusValue,
		NetValue:            t.NetValue,
		ItemsWithDifference: t.ItemsWithDifference,
	}
}

func toSessionResponse(s *entity.AuditSession) *dto.AuditSessionResponse {
	return &dto.AuditSessionResponse{
		ID:        s.ID,
		Employee:  s.Employee,
		Type:      s.Type,
		StartedAt: s.StartedAt,
		ClosedAt:  s.ClosedAt,
		Items:     toItemResponses(s.Items),
		Totals: dto.AuditTotalsResponse{
			ShortageUnits:       s.ShortageUnits,
			SurplusUnits:        s.SurplusUnits,
			ShortageValue:       s.ShortageValue,
			SurplusValue:        s.SurplusValue,
			NetValue:            s.NetValue,
			ItemsWithDifference: s.ItemsWithDifference,
		},
	}
}
