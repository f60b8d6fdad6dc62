package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/internal/application/audit"
	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/domain"
)

// AuditHandler maneja las sesiones de conciliación de inventario (protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Preview godoc
// @Summary      Previsualizar diferencias de una sesión en curso (sin escrituras)
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewAuditRequest  true  "líneas contadas hasta ahora"
// @Success      200   {object}  dto.PreviewAuditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/audits/preview [post]
func (h *AuditHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Preview(in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar sesión de auditoría y aplicar ajustes
// @Description  Valida responsable y conteos, persiste la sesión y aplica los
// @Description  ajustes por línea. Las escrituras derivadas que fallen se
// @Description  devuelven como warnings; la sesión cerrada sigue siendo válida.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseAuditRequest  true  "responsable, tipo y líneas contadas"
// @Success      201   {object}  dto.CloseAuditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits/close [post]
func (h *AuditHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Close(in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmployeeRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPLOYEE_REQUIRED", Message: "el responsable de la auditoría es requerido"})
		case errors.Is(err, domain.ErrCountedRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "COUNTED_REQUIRED", Message: err.Error()})
		case errors.Is(err, domain.ErrSessionClosing):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_CLOSING", Message: "la sesión ya se está cerrando"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener sesión de auditoría por ID
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.AuditSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [get]
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar sesiones de auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.AuditSessionListResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Today godoc
// @Summary      ¿Ya existe una sesión de este tipo cerrada hoy?
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "daily | weekly | monthly | adhoc"  default(daily)
// @Success      200   {object}  map[string]bool
// @Router       /api/audits/today [get]
func (h *AuditHandler) Today(c *fiber.Ctx) error {
	has, err := h.uc.HasSessionToday(c.Query("type", "daily"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"exists": has})
}

// Delete godoc
// @Summary      Eliminar sesión (limpieza; no revierte ajustes)
// @Tags         audits
// @Security     Bearer
// @Param        id  path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [delete]
func (h *AuditHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
