package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/sync"
)

// SyncHandler dispara las etapas del pipeline de sincronización con el POS.
type SyncHandler struct {
	uc *sync.UseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *sync.UseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// SyncAll godoc
// @Summary      Pasada completa: secciones, proveedores, productos y existencias
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sync.Report
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) SyncAll(c *fiber.Ctx) error {
	report, err := h.uc.SyncAll(c.Context(), GetTenant(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// SyncSections godoc
// @Summary      Etapa 1: sincronizar secciones (storages)
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sync.StageResult
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/sections [post]
func (h *SyncHandler) SyncSections(c *fiber.Ctx) error {
	res, err := h.uc.SyncSections(c.Context(), GetTenant(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SyncSuppliers godoc
// @Summary      Sincronizar proveedores del POS
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  sync.StageResult
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/suppliers [post]
func (h *SyncHandler) SyncSuppliers(c *fiber.Ctx) error {
	res, err := h.uc.SyncSuppliers(c.Context(), GetTenant(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SyncProducts godoc
// @Summary      Etapa 2: sincronizar productos (catálogo por sección)
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        section_id  query  string  false  "Limitar a una sección"
// @Success      200  {object}  sync.StageResult
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/products [post]
func (h *SyncHandler) SyncProducts(c *fiber.Ctx) error {
	res, err := h.uc.SyncProducts(c.Context(), GetTenant(c), c.Query("section_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SyncLeftovers godoc
// @Summary      Etapa 3: sincronizar existencias (cero y aplicar)
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        section_id  query  string  false  "Limitar a una sección"
// @Success      200  {object}  sync.StageResult
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/leftovers [post]
func (h *SyncHandler) SyncLeftovers(c *fiber.Ctx) error {
	res, err := h.uc.SyncLeftovers(c.Context(), GetTenant(c), c.Query("section_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
