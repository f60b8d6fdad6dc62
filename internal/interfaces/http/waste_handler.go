package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/application/usecase"
	"github.com/inventariox/inventariox-api/internal/domain"
)

// WasteHandler maneja las peticiones HTTP para mermas (protegido).
type WasteHandler struct {
	uc *usecase.WasteUseCase
}

// NewWasteHandler construye el handler.
func NewWasteHandler(uc *usecase.WasteUseCase) *WasteHandler {
	return &WasteHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar merma manual (descuenta existencia)
// @Tags         wastes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWasteRequest  true  "producto, cantidad y motivo"
// @Success      201   {object}  dto.WasteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/wastes [post]
func (h *WasteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWasteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Responsible == "" {
		in.Responsible = GetUserID(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "la merma excede la existencia del producto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener merma por ID
// @Tags         wastes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la merma"
// @Success      200  {object}  dto.WasteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/wastes/{id} [get]
func (h *WasteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "merma no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar mermas
// @Tags         wastes
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to      query  string  false  "Fecha final inclusive (2006-01-02)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.WasteListResponse
// @Router       /api/wastes [get]
func (h *WasteHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	from, to := dateRangeParams(c)
	out, err := h.uc.List(from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar merma (no revierte la existencia)
// @Tags         wastes
// @Security     Bearer
// @Param        id  path  string  true  "ID de la merma"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/wastes/{id} [delete]
func (h *WasteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "merma no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
