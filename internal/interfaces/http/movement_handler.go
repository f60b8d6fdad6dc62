package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/internal/application/dto"
	"github.com/inventariox/inventariox-api/internal/application/usecase"
	"github.com/inventariox/inventariox-api/internal/domain"
)

// MovementHandler maneja las peticiones HTTP para movimientos (protegido).
// Los movimientos se crean solo desde los casos de uso (ajustes, mermas,
// recepciones, auditorías); por HTTP solo se consultan y se limpian.
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Listar movimientos de inventario
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "entry | exit | adjustment"
// @Param        from    query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to      query  string  false  "Fecha final inclusive (2006-01-02)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	from, to := dateRangeParams(c)
	out, err := h.uc.List(c.Query("type"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *MovementHandler) ListByProduct(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListByProduct(c.Params("id"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento (acción de limpieza)
// @Tags         movements
// @Security     Bearer
// @Param        id  path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
