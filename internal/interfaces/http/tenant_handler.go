package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/order"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
)

// TenantHandler expone la configuración del tenant resuelto.
type TenantHandler struct {
	tenants repository.TenantRepository
	cache   *cache.TenantCache
}

// NewTenantHandler construye el handler.
func NewTenantHandler(tenants repository.TenantRepository, c *cache.TenantCache) *TenantHandler {
	return &TenantHandler{tenants: tenants, cache: c}
}

// Get godoc
// @Summary      Configuración del tenant actual
// @Tags         tenant
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TenantResponse
// @Router       /api/tenant [get]
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	tenant := GetTenant(c)
	return c.JSON(dto.TenantResponse{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Active:      tenant.Active,
		POSTokenSet: tenant.POSToken != "",
	})
}

// Update godoc
// @Summary      Actualizar el tenant (nombre, rotación del token POS)
// @Tags         tenant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateTenantRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/tenant [put]
func (h *TenantHandler) Update(c *fiber.Ctx) error {
	if GetRole(c) != order.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo un admin puede modificar el tenant"})
	}

	var in dto.UpdateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	tenant := *GetTenant(c)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el nombre no puede quedar vacío"})
		}
		tenant.Name = name
	}
	if in.POSToken != nil {
		tenant.POSToken = strings.TrimSpace(*in.POSToken)
	}

	if err := h.tenants.Update(c.Context(), &tenant); err != nil {
		return respondError(c, err)
	}
	// La configuración cacheada queda obsoleta; la siguiente petición la relee.
	_ = h.cache.Delete(c.Context(), tenant.ID, tenantConfigKey)

	return c.JSON(dto.TenantResponse{
		ID:          tenant.ID,
		Name:        tenant.Name,
		Active:      tenant.Active,
		POSTokenSet: tenant.POSToken != "",
	})
}
