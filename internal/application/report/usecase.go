package report

import (
	"context"
	"fmt"
	"time"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
	"github.com/inventariox/inventariox-api/internal/domain/repository"
)

// exportLimit tope de filas por archivo exportado.
const exportLimit = 10000

// UseCase genera reportes descargables a partir de los repositorios:
// inventario valorizado, sesiones de auditoría, mermas y movimientos.
type UseCase struct {
	productRepo  repository.ProductRepository
	wasteRepo    repository.WasteRepository
	movementRepo repository.MovementRepository
	sessionRepo  repository.AuditSessionRepository
	pdf          PDFGenerator
	exporters    map[string]TableExporter // formato -> exporter (csv, xlsx)
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	productRepo repository.ProductRepository,
	wasteRepo repository.WasteRepository,
	movementRepo repository.MovementRepository,
	sessionRepo repository.AuditSessionRepository,
	pdf PDFGenerator,
	exporters map[string]TableExporter,
) *UseCase {
	return &UseCase{
		productRepo:  productRepo,
		wasteRepo:    wasteRepo,
		movementRepo: movementRepo,
		sessionRepo:  sessionRepo,
		pdf:          pdf,
		exporters:    exporters,
	}
}

// Inventory genera el reporte de inventario valorizado en el formato pedido
// (pdf, csv o xlsx).
func (uc *UseCase) Inventory(ctx context.Context, format string) (*dto.ReportFile, error) {
	products, err := uc.productRepo.List("", exportLimit, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	if format == "" || format == "pdf" {
		content, err := uc.pdf.InventoryPDF(ctx, products, now)
		if err != nil {
			return nil, err
		}
		return &dto.ReportFile{
			Filename:    "inventario_" + now.Format("2006-01-02") + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	}

	exp, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	headers := []string{"Producto", "Proveedor", "Unidad", "Costo unitario", "Existencia", "Mínimo", "Valor"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name, p.SupplierName, p.UnitMeasure,
			p.UnitCost.StringFixed(2), p.Quantity.String(),
			p.MinQuantity.String(), p.StockValue().StringFixed(2),
		})
	}
	content, err := exp.Export("Inventario", headers, rows)
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{
		Filename:    "inventario_" + now.Format("2006-01-02") + exp.Extension(),
		ContentType: exp.ContentType(),
		Content:     content,
	}, nil
}

// AuditSession genera el PDF de una sesión de auditoría cerrada.
func (uc *UseCase) AuditSession(ctx context.Context, sessionID string) (*dto.ReportFile, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	content, err := uc.pdf.AuditSessionPDF(ctx, session)
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{
		Filename:    "auditoria_" + session.ClosedAt.Format("2006-01-02") + "_" + session.Type + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// Wastes exporta las mermas de un rango de fechas (csv o xlsx).
func (uc *UseCase) Wastes(_ context.Context, format string, from, to *time.Time) (*dto.ReportFile, error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	wastes, err := uc.wasteRepo.List(from, to, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	headers := []string{"Fecha", "Producto", "Cantidad", "Motivo", "Costo unitario", "Valor perdido", "Observación"}
	rows := make([][]string, 0, len(wastes))
	for _, w := range wastes {
		rows = append(rows, []string{
			w.Date.Format("2006-01-02 15:04"), w.ProductName, w.Quantity.String(),
			w.Reason, w.UnitCost.StringFixed(2), w.TotalValue.StringFixed(2), w.Observation,
		})
	}
	content, err := exp.Export("Mermas", headers, rows)
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{
		Filename:    "mermas_" + time.Now().Format("2006-01-02") + exp.Extension(),
		ContentType: exp.ContentType(),
		Content:     content,
	}, nil
}

// Movements exporta los movimientos de inventario (csv o xlsx), con filtros
// opcionales por tipo y rango de fechas.
func (uc *UseCase) Movements(_ context.Context, format, movType string, from, to *time.Time) (*dto.ReportFile, error) {
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}
	movements, err := uc.movementRepo.List(movType, from, to, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	headers := []string{"Fecha", "Tipo", "Producto", "Cantidad", "Anterior", "Nueva", "Motivo", "Responsable"}
	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []string{
			m.Date.Format("2006-01-02 15:04"), m.Type, m.ProductName,
			m.Quantity.String(), m.PreviousQuantity.String(), m.NewQuantity.String(),
			m.Motive, m.Responsible,
		})
	}
	content, err := exp.Export("Movimientos", headers, rows)
	if err != nil {
		return nil, err
	}
	return &dto.ReportFile{
		Filename:    "movimientos_" + time.Now().Format("2006-01-02") + exp.Extension(),
		ContentType: exp.ContentType(),
		Content:     content,
	}, nil
}
