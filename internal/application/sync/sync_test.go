package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/application/apptest"
	"github.com/jhoicas/Despensa-api/internal/application/sync"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

func newTenant() *entity.Tenant {
	return &entity.Tenant{ID: "t-1", Name: "La Esquina", POSToken: "tok", Active: true}
}

func newUseCase(store *apptest.Store, pos *apptest.POS) *sync.UseCase {
	c := cache.NewWithStore(cache.NewMemoryStore(0), time.Minute)
	return sync.NewUseCase(apptest.NewTxRunner(store), pos, c, logger.Nop(), 0)
}

func posWithCatalog() *apptest.POS {
	return &apptest.POS{
		Storages: []poster.Storage{
			{StorageID: 1, Name: "Cocina", Emoji: "🍳"},
			{StorageID: 2, Name: "Barra", Emoji: "🍹"},
		},
		Ingredients: []poster.Ingredient{
			{IngredientID: 10, Name: "Leche", Unit: "l", CategoryID: 100, CategoryName: "Lácteos"},
			{IngredientID: 11, Name: "Harina", Unit: "kg", CategoryID: 101, CategoryName: "Secos"},
			{IngredientID: 12, Name: "Ron", Unit: "l", CategoryID: 102, CategoryName: "Licores"},
		},
		Leftovers: map[int64][]poster.Leftover{
			1: {
				{IngredientID: 10, Left: decimal.NewFromInt(5), Unit: "l"},
				{IngredientID: 11, Left: decimal.RequireFromString("2.5"), Unit: "kg"},
			},
			2: {
				{IngredientID: 12, Left: decimal.NewFromInt(3), Unit: "l"},
			},
		},
		Suppliers: []poster.Supplier{
			{SupplierID: 7, Name: "Distribuidora Sur", Phone: "555-1234"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapa 1: secciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncSections_CreaYEsIdempotente(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	pos := posWithCatalog()
	uc := newUseCase(store, pos)

	res, err := uc.SyncSections(ctx, newTenant())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)

	// Segunda pasada: mismas filas, nada duplicado.
	res, err = uc.SyncSections(ctx, newTenant())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)
	assert.Len(t, store.Sections, 2)
}

func TestSyncSections_MemoizaLaLecturaUpstream(t *testing.T) {
	ctx := context.Background()
	pos := posWithCatalog()
	uc := newUseCase(apptest.NewStore(), pos)

	_, err := uc.SyncSections(ctx, newTenant())
	require.NoError(t, err)
	_, err = uc.SyncSections(ctx, newTenant())
	require.NoError(t, err)

	assert.Equal(t, 1, pos.Calls["getStorages"], "la segunda pasada debe servirse de caché")
}

func TestSyncSections_UpstreamCaidoPropagaElError(t *testing.T) {
	pos := &apptest.POS{Err: apptest.Unavailable("timeout")}
	uc := newUseCase(apptest.NewStore(), pos)

	_, err := uc.SyncSections(context.Background(), newTenant())
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestSync_LockOcupadoDevuelveErrSyncLocked(t *testing.T) {
	store := apptest.NewStore()
	runner := apptest.NewTxRunner(store)
	runner.LockBusy = true
	c := cache.NewWithStore(cache.NewMemoryStore(0), time.Minute)
	uc := sync.NewUseCase(runner, posWithCatalog(), c, logger.Nop(), 0)

	_, err := uc.SyncSections(context.Background(), newTenant())
	require.ErrorIs(t, err, domain.ErrSyncLocked)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapa 2: productos
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncProducts_SinSeccionesEstaFueraDeOrden(t *testing.T) {
	uc := newUseCase(apptest.NewStore(), posWithCatalog())

	_, err := uc.SyncProducts(context.Background(), newTenant(), "")
	require.ErrorIs(t, err, domain.ErrSyncOutOfOrder)
}

func TestSyncProducts_CreaProductosYCategorias(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	uc := newUseCase(store, posWithCatalog())
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)
	res, err := uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Created)
	require.Len(t, store.Products, 3)
	assert.Len(t, store.Categories, 3)

	// El producto hereda la categoría local creada a partir del catálogo.
	for _, p := range store.Products {
		assert.NotEmpty(t, p.CategoryID)
	}
}

func TestSyncProducts_IngredienteDesconocidoSeSalta(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	pos := posWithCatalog()
	// El storage reporta un ingrediente que el catálogo no conoce.
	pos.Leftovers[1] = append(pos.Leftovers[1], poster.Leftover{IngredientID: 999, Left: decimal.NewFromInt(1)})
	uc := newUseCase(store, pos)
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)
	res, err := uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, store.Products, 3)
}

func TestSyncProducts_FalloDeUnaSeccionNoCortaLasDemas(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	pos := posWithCatalog()
	pos.ErrLeftoversFor = map[int64]error{1: apptest.Unavailable("storage 1 caído")}
	uc := newUseCase(store, pos)
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)
	res, err := uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)

	// La Barra (storage 2) se aplicó; la Cocina quedó registrada como error.
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Cocina")
}

func TestSyncProducts_ReSyncNoPisaElProveedorAsignado(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	uc := newUseCase(store, posWithCatalog())
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)
	_, err = uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)

	// El staff asigna proveedor a una categoría sincronizada.
	store.Categories[0].SupplierID = "sup-local"

	_, err = uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)
	assert.Equal(t, "sup-local", store.Categories[0].SupplierID,
		"la asignación local debe sobrevivir al re-sync")
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapa 3: existencias (cero y aplicar)
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncLeftovers_SinProductosEstaFueraDeOrden(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	uc := newUseCase(store, posWithCatalog())
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)

	section := store.Sections[0]
	_, err = uc.SyncLeftovers(ctx, tenant, section.ID)
	require.ErrorIs(t, err, domain.ErrSyncOutOfOrder)
}

func TestSyncLeftovers_CeroYAplicar(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	pos := posWithCatalog()
	uc := newUseCase(store, pos)
	tenant := newTenant()

	_, err := uc.SyncSections(ctx, tenant)
	require.NoError(t, err)
	_, err = uc.SyncProducts(ctx, tenant, "")
	require.NoError(t, err)
	res, err := uc.SyncLeftovers(ctx, tenant, "")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)

	// El POS deja de reportar la harina: su fila queda en 0, no se borra.
	pos.Leftovers[1] = []poster.Leftover{
		{IngredientID: 10, Left: decimal.NewFromInt(8), Unit: "l"},
	}
	uc2 := newUseCase(store, pos) // caché nueva para leer upstream fresco
	_, err = uc2.SyncLeftovers(ctx, tenant, "")
	require.NoError(t, err)

	var flourQty, milkQty decimal.Decimal
	for _, lr := range store.Leftovers {
		for _, p := range store.Products {
			if p.ID != lr.Row.ProductID {
				continue
			}
			switch p.Name {
			case "Harina":
				flourQty = lr.Row.Quantity
			case "Leche":
				milkQty = lr.Row.Quantity
			}
		}
	}
	assert.True(t, flourQty.IsZero(), "lo no reportado queda en cero")
	assert.True(t, milkQty.Equal(decimal.NewFromInt(8)))
	assert.Len(t, store.Leftovers, 3, "las filas nunca se borran")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pasada completa y proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSyncAll_CorreLasEtapasEnOrden(t *testing.T) {
	store := apptest.NewStore()
	uc := newUseCase(store, posWithCatalog())

	report, err := uc.SyncAll(context.Background(), newTenant())
	require.NoError(t, err)
	require.NotNil(t, report.Sections)
	require.NotNil(t, report.Suppliers)
	require.NotNil(t, report.Products)
	require.NotNil(t, report.Leftovers)

	assert.Equal(t, 2, report.Sections.Created)
	assert.Equal(t, 1, report.Suppliers.Created)
	assert.Equal(t, 3, report.Products.Created)
	assert.Equal(t, 3, report.Leftovers.Updated)
}

func TestSyncSuppliers_CreaYActualiza(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	pos := posWithCatalog()
	uc := newUseCase(store, pos)

	res, err := uc.SyncSuppliers(ctx, newTenant())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	pos.Suppliers[0].Phone = "555-9999"
	uc2 := newUseCase(store, pos)
	res, err = uc2.SyncSuppliers(ctx, newTenant())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, "555-9999", store.Suppliers[0].Phone)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre tenants
// ──────────────────────────────────────────────────────────────────────────────

// Dos tenants sincronizan el mismo ingredient_id upstream (99) desde catálogos
// distintos sobre la misma base: cada uno obtiene su propia fila
// (tenant_id, external_id), sin cruzar nombres ni cantidades.
func TestSync_MismoExternalIDEnDosTenantsNoSeCruza(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()

	r1 := &entity.Tenant{ID: "r1", Name: "Rest Uno", POSToken: "tok-r1", Active: true}
	r2 := &entity.Tenant{ID: "r2", Name: "Rest Dos", POSToken: "tok-r2", Active: true}

	posR1 := &apptest.POS{
		Storages:    []poster.Storage{{StorageID: 1, Name: "Cocina"}},
		Ingredients: []poster.Ingredient{{IngredientID: 99, Name: "Leche", Unit: "l", CategoryID: 100, CategoryName: "Lácteos"}},
		Leftovers:   map[int64][]poster.Leftover{1: {{IngredientID: 99, Left: decimal.NewFromInt(5), Unit: "l"}}},
	}
	posR2 := &apptest.POS{
		Storages:    []poster.Storage{{StorageID: 1, Name: "Bodega"}},
		Ingredients: []poster.Ingredient{{IngredientID: 99, Name: "Harina", Unit: "kg", CategoryID: 200, CategoryName: "Secos"}},
		Leftovers:   map[int64][]poster.Leftover{1: {{IngredientID: 99, Left: decimal.NewFromInt(2), Unit: "kg"}}},
	}

	ucR1 := newUseCase(store, posR1)
	ucR2 := newUseCase(store, posR2)

	_, err := ucR1.SyncSections(ctx, r1)
	require.NoError(t, err)
	_, err = ucR1.SyncProducts(ctx, r1, "")
	require.NoError(t, err)
	_, err = ucR2.SyncSections(ctx, r2)
	require.NoError(t, err)
	_, err = ucR2.SyncProducts(ctx, r2, "")
	require.NoError(t, err)

	// Mismo external_id, dos filas: una por tenant, cada una con su nombre.
	require.Len(t, store.Products, 2)
	names := make(map[string]string)
	for _, p := range store.Products {
		assert.Equal(t, int64(99), p.ExternalID)
		names[p.TenantID] = p.Name
	}
	assert.Equal(t, "Leche", names["r1"])
	assert.Equal(t, "Harina", names["r2"])
	assert.NotEqual(t, store.Products[0].ID, store.Products[1].ID)
}
