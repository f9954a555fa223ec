package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/inventory"
	"github.com/jhoicas/Despensa-api/internal/application/order"
	"github.com/jhoicas/Despensa-api/internal/application/sync"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SectionUC       *usecase.SectionUseCase
	CategoryUC      *usecase.CategoryUseCase
	SupplierUC      *usecase.SupplierUseCase
	CustomProductUC *usecase.CustomProductUseCase
	InventoryUC     *inventory.UseCase
	SyncUC          *sync.UseCase
	OrderUC         *order.UseCase
	Tenants         repository.TenantRepository
	Cache           *cache.TenantCache
	JWTSecret       string
	Log             *logger.Logger
}

// Router registra las rutas de la API. Todo /api pasa por el middleware de
// tenant: sin tenant resuelto y activo ninguna petición avanza.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware(TenantDeps{
		Tenants:   deps.Tenants,
		Cache:     deps.Cache,
		JWTSecret: deps.JWTSecret,
		Log:       deps.Log,
	}))

	// Tenant actual
	tenantHandler := NewTenantHandler(deps.Tenants, deps.Cache)
	api.Get("/tenant", tenantHandler.Get)
	api.Put("/tenant", tenantHandler.Update)

	// Secciones
	sections := api.Group("/sections")
	sectionHandler := NewSectionHandler(deps.SectionUC)
	sections.Post("/", sectionHandler.Create)
	sections.Get("/", sectionHandler.List)
	sections.Get("/:id", sectionHandler.GetByID)
	sections.Put("/:id", sectionHandler.Update)
	sections.Delete("/:id", sectionHandler.Deactivate)

	// Categorías
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Deactivate)

	// Proveedores
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Deactivate)

	// Productos custom
	customs := api.Group("/custom-products")
	customHandler := NewCustomProductHandler(deps.CustomProductUC)
	customs.Post("/", customHandler.Create)
	customs.Get("/", customHandler.List)
	customs.Put("/:id", customHandler.Update)
	customs.Delete("/:id", customHandler.Deactivate)

	// Inventario combinado
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	api.Get("/inventory/:department", inventoryHandler.GetByDepartment)

	// Sync contra el POS
	syncGroup := api.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncUC)
	syncGroup.Post("/", syncHandler.SyncAll)
	syncGroup.Post("/sections", syncHandler.SyncSections)
	syncGroup.Post("/suppliers", syncHandler.SyncSuppliers)
	syncGroup.Post("/products", syncHandler.SyncProducts)
	syncGroup.Post("/leftovers", syncHandler.SyncLeftovers)

	// Pedidos. Las rutas fijas van antes que /:id para que Fiber no las capture.
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/grouped", orderHandler.ListGrouped)
	orders.Post("/dispatch", orderHandler.Dispatch)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/items", orderHandler.AddItems)
	orders.Post("/:id/deliver", orderHandler.Deliver)
	orders.Post("/:id/supply", orderHandler.SubmitSupply)
	orders.Delete("/:id", orderHandler.Delete)
	api.Get("/supplier-orders", orderHandler.ListSupplierOrders)

	// Caché del tenant
	cacheHandler := NewCacheHandler(deps.Cache)
	api.Get("/cache/keys", cacheHandler.Keys)
	api.Delete("/cache", cacheHandler.Invalidate)
}
