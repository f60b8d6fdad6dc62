// Package pdf implementa los reportes descargables en PDF con Maroto v2:
// el inventario valorizado y el acta de una sesión de auditoría.
//
// Layout de la página A4 del acta de auditoría:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de auditoría  │  Tipo + Fecha + Responsable   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Sistema | Contado | Dif. | Impacto       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Faltante / Sobrante / IMPACTO NETO                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/inventariox/inventariox-api/internal/application/report"
	"github.com/inventariox/inventariox-api/internal/domain/entity"
	"github.com/inventariox/inventariox-api/internal/domain/reconcile"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 40, Blue: 40}
)

var _ report.PDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// ── Inventario valorizado ─────────────────────────────────────────────────────

// InventoryPDF genera el reporte de inventario y devuelve sus bytes.
func (g *MarotoReportGenerator) InventoryPDF(_ context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error) {
	m := newDocument("Reporte de inventario")

	m.AddRows(titleRow("REPORTE DE INVENTARIO", "Generado: "+generatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(inventoryHeaderRow())

	totalValue := decimal.Zero
	for _, p := range products {
		m.AddRows(inventoryDetailRow(p))
		totalValue = totalValue.Add(p.StockValue())
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(
		col.New(8).Add(text.New("VALOR TOTAL DEL INVENTARIO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New("$"+formatMoney(totalValue.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func inventoryHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Existencia", 2, align.Right),
		h("Mínimo", 1, align.Right),
		h("Costo Unit.", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

func inventoryDetailRow(p *entity.Product) core.Row {
	qtyColor := colorGray
	if p.BelowMinimum() {
		qtyColor = colorRed
	}
	return row.New(7).Add(
		col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(p.UnitMeasure, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(p.Quantity.String(), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
		})),
		col.New(1).Add(text.New(p.MinQuantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New("$"+formatMoney(p.UnitCost.StringFixed(0)), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
		col.New(2).Add(text.New("$"+formatMoney(p.StockValue().StringFixed(0)), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

// ── Acta de auditoría ─────────────────────────────────────────────────────────

// AuditSessionPDF genera el acta de una sesión de conciliación cerrada.
func (g *MarotoReportGenerator) AuditSessionPDF(_ context.Context, session *entity.AuditSession) ([]byte, error) {
	m := newDocument("Acta de auditoría de inventario")

	subtitle := fmt.Sprintf("Tipo: %s   |   Cierre: %s   |   Responsable: %s",
		session.Type, session.ClosedAt.Format("02/01/2006 15:04"), session.Employee)
	m.AddRows(titleRow("ACTA DE AUDITORÍA DE INVENTARIO", subtitle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(auditHeaderRow())

	for _, it := range session.Items {
		m.AddRows(auditDetailRow(it))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(auditTotalsRow(session))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func auditHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Sistema", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Diferencia", 2, align.Right),
		h("Impacto", 2, align.Right),
	)
}

func auditDetailRow(it entity.AuditItem) core.Row {
	diffColor := colorGray
	switch reconcile.Classification(it.Classification) {
	case reconcile.ClassShortage:
		diffColor = colorRed
	case reconcile.ClassSurplus:
		diffColor = colorPrimary
	}
	return row.New(7).Add(
		col.New(4).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(it.Recorded.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(it.Counted.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(it.Difference.String(), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor,
		})),
		col.New(2).Add(text.New("$"+formatMoney(it.MonetaryImpact.Abs().StringFixed(0)), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor,
		})),
	)
}

func auditTotalsRow(session *entity.AuditSession) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Color: c})
	}
	netColor := colorPrimary
	if session.NetValue.IsNegative() {
		netColor = colorRed
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Faltante:"),
			label("Sobrante:"),
			text.New("IMPACTO NETO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: netColor, Right: 2, Top: 14,
			}),
		),
		col.New(4).Add(
			value(session.ShortageUnits.String()+" uds  /  $"+formatMoney(session.ShortageValue.StringFixed(0)), colorRed),
			value(session.SurplusUnits.String()+" uds  /  $"+formatMoney(session.SurplusValue.StringFixed(0)), colorPrimary),
			text.New("$"+formatMoney(session.NetValue.StringFixed(0)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: netColor, Right: 1, Top: 14,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func titleRow(title, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
	)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000". Los negativos conservan el signo.
func formatMoney(s string) string {
	if len(s) > 0 && s[0] == '-' {
		return "-" + formatMoney(s[1:])
	}
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
