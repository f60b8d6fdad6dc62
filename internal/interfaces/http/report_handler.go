package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/application/report"
	"github.com/inventariox/inventariox-api/internal/domain"
)

// ReportHandler sirve los reportes descargables (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func sendFile(c *fiber.Ctx, f *dto.ReportFile) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.Filename+`"`)
	return c.Send(f.Content)
}

// Inventory godoc
// @Summary      Reporte de inventario valorizado (pdf, csv o xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | csv | xlsx"  default(pdf)
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	f, err := h.uc.Inventory(c.Context(), c.Query("format", "pdf"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendFile(c, f)
}

// AuditSession godoc
// @Summary      Acta PDF de una sesión de auditoría
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/audits/{id} [get]
func (h *ReportHandler) AuditSession(c *fiber.Ctx) error {
	f, err := h.uc.AuditSession(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendFile(c, f)
}

// Wastes godoc
// @Summary      Exportar mermas (csv o xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv | xlsx"  default(csv)
// @Param        from    query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to      query  string  false  "Fecha final inclusive (2006-01-02)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/wastes [get]
func (h *ReportHandler) Wastes(c *fiber.Ctx) error {
	from, to := dateRangeParams(c)
	f, err := h.uc.Wastes(c.Context(), c.Query("format", "csv"), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendFile(c, f)
}

// Movements godoc
// @Summary      Exportar movimientos (csv o xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv | xlsx"  default(csv)
// @Param        type    query  string  false  "entry | exit | adjustment"
// @Param        from    query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to      query  string  false  "Fecha final inclusive (2006-01-02)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	from, to := dateRangeParams(c)
	f, err := h.uc.Movements(c.Context(), c.Query("format", "csv"), c.Query("type"), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return sendFile(c, f)
}
