package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/inventory"
)

// InventoryHandler expone la vista combinada de inventario por sección.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// GetByDepartment godoc
// @Summary      Inventario combinado de una sección (POS + custom)
// @Description  Si el POS no responde, la vista degrada a solo-custom con partial=true.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        department  path  string  true  "Nombre de la sección"
// @Success      200  {object}  inventory.DepartmentInventory
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{department} [get]
func (h *InventoryHandler) GetByDepartment(c *fiber.Ctx) error {
	view, err := h.uc.GetDepartmentInventory(c.Context(), GetTenant(c), c.Params("department"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
