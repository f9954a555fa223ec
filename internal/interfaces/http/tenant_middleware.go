package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/pkg/jwt"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// Locals keys que el middleware de tenant deja en el contexto Fiber.
const (
	LocalTenantID = "tenant_id"
	LocalTenant   = "tenant"
	LocalRole     = "role"
)

// Clave de caché de la configuración del tenant (token POS incluido).
const tenantConfigKey = "cfg:tenant"

// TenantDeps dependencias del middleware de tenant.
type TenantDeps struct {
	Tenants   repository.TenantRepository
	Cache     *cache.TenantCache
	JWTSecret string
	Log       *logger.Logger
}

// TenantMiddleware resuelve el tenant de cada petición: primero el claim del
// Bearer JWT, si no el header X-Tenant-ID. Carga la configuración (con caché),
// exige que el tenant exista y esté activo, y deja tenant, id y rol en Locals.
// Sin tenant resuelto la petición es fatal: ninguna query toca datos.
func TenantMiddleware(deps TenantDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, role, errResp := resolveIdentity(c, deps.JWTSecret)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(*errResp)
		}

		tenant, err := loadTenant(c, deps, tenantID)
		if err != nil {
			deps.Log.Error().Err(err).Str("tenant_id", tenantID).Msg("resolver tenant")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo resolver el tenant"})
		}
		if tenant == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TENANT_NOT_RESOLVED", Message: "tenant desconocido"})
		}
		if !tenant.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_INACTIVE", Message: "el tenant está dado de baja"})
		}

		c.Locals(LocalTenantID, tenant.ID)
		c.Locals(LocalTenant, tenant)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// resolveIdentity saca (tenantID, rol) del JWT o del header X-Tenant-ID.
func resolveIdentity(c *fiber.Ctx, jwtSecret string) (string, string, *dto.ErrorResponse) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
		}
		tenantID, role, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return "", "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"}
		}
		return tenantID, role, nil
	}
	if tenantID := c.Get("X-Tenant-ID"); tenantID != "" {
		role := c.Get("X-Role")
		if role == "" {
			role = "staff"
		}
		return tenantID, role, nil
	}
	return "", "", &dto.ErrorResponse{Code: "TENANT_NOT_RESOLVED", Message: "falta Authorization o X-Tenant-ID"}
}

// loadTenant lee la configuración del tenant, cacheada con TTL corto para no
// pegarle a la base en cada petición.
func loadTenant(c *fiber.Ctx, deps TenantDeps, tenantID string) (*entity.Tenant, error) {
	if raw, ok, err := deps.Cache.Get(c.Context(), tenantID, tenantConfigKey); err == nil && ok {
		var tenant entity.Tenant
		if json.Unmarshal([]byte(raw), &tenant) == nil {
			return &tenant, nil
		}
	}
	tenant, err := deps.Tenants.GetByID(c.Context(), tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	if encoded, err := json.Marshal(tenant); err == nil {
		_ = deps.Cache.Set(c.Context(), tenantID, tenantConfigKey, string(encoded), 2*time.Minute)
	}
	return tenant, nil
}

// GetTenantID devuelve el id del tenant activo (después del middleware).
func GetTenantID(c *fiber.Ctx) string {
	v := c.Locals(LocalTenantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTenant devuelve el tenant activo completo (después del middleware).
func GetTenant(c *fiber.Ctx) *entity.Tenant {
	v := c.Locals(LocalTenant)
	if v == nil {
		return nil
	}
	t, _ := v.(*entity.Tenant)
	return t
}

// GetRole devuelve el rol de la petición (después del middleware).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
