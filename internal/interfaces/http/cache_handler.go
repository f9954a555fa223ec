package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
)

// CacheHandler expone introspección e invalidación de la caché del tenant.
// Útil en operación: forzar una relectura upstream sin esperar el TTL.
type CacheHandler struct {
	cache *cache.TenantCache
}

// NewCacheHandler construye el handler.
func NewCacheHandler(c *cache.TenantCache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// Keys godoc
// @Summary      Listar claves de caché del tenant
// @Tags         cache
// @Security     Bearer
// @Produce      json
// @Param        prefix  query  string  false  "Prefijo (ej. pos:)"
// @Success      200  {array}  string
// @Router       /api/cache/keys [get]
func (h *CacheHandler) Keys(c *fiber.Ctx) error {
	keys, err := h.cache.Keys(c.Context(), GetTenantID(c), c.Query("prefix"))
	if err != nil {
		return respondError(c, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(keys)
}

// Invalidate godoc
// @Summary      Invalidar claves de caché del tenant por prefijo
// @Tags         cache
// @Security     Bearer
// @Produce      json
// @Param        prefix  query  string  false  "Prefijo; vacío invalida todo lo del tenant"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/cache [delete]
func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	if err := h.cache.DeletePattern(c.Context(), GetTenantID(c), c.Query("prefix")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "caché invalidada"})
}
