package report

import (
	"context"
	"time"

	"github.com/inventariox/inventariox-api/internal/domain/entity"
)

// PDFGenerator genera los reportes en PDF.
type PDFGenerator interface {
	InventoryPDF(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
	AuditSessionPDF(ctx context.Context, session *entity.AuditSession) ([]byte, error)
}

// TableExporter serializa una tabla (cabeceras + filas) a un formato de
// descarga (CSV, XLSX...).
type TableExporter interface {
	Export(name string, headers []string, rows [][]string) ([]byte, error)
	ContentType() string
	Extension() string
}
