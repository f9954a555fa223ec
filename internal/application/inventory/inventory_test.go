package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/application/apptest"
	"github.com/jhoicas/Despensa-api/internal/application/inventory"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

func newTenant() *entity.Tenant {
	return &entity.Tenant{ID: "t-1", Name: "La Esquina", POSToken: "tok", Active: true}
}

// seedStore arma una sección sincronizada con un producto POS, uno custom y el
// grafo categoría → proveedor para el enriquecimiento.
func seedStore() *apptest.Store {
	store := apptest.NewStore()
	store.Sections = []entity.Section{
		{ID: "sec-1", TenantID: "t-1", ExternalID: 1, Name: "Cocina", Emoji: "🍳", Active: true},
	}
	store.Suppliers = []entity.Supplier{
		{ID: "sup-1", TenantID: "t-1", ExternalID: 7, Name: "Distribuidora Sur", Active: true},
	}
	store.Categories = []entity.Category{
		{ID: "cat-1", TenantID: "t-1", ExternalID: 100, Name: "Lácteos", SupplierID: "sup-1", Active: true},
	}
	store.Products = []entity.Product{
		{ID: "prod-1", TenantID: "t-1", SectionID: "sec-1", ExternalID: 10, Name: "Leche", Unit: "l", CategoryID: "cat-1", Active: true},
	}
	store.Customs = []entity.CustomProduct{
		{Seq: 15, TenantID: "t-1", SectionID: "sec-1", Name: "Servilletas", Unit: "paq",
			MinQuantity: decimal.NewFromInt(2), Quantity: decimal.NewFromInt(6), Active: true},
	}
	return store
}

func newUseCase(store *apptest.Store, pos *apptest.POS) *inventory.UseCase {
	c := cache.NewWithStore(cache.NewMemoryStore(0), time.Minute)
	return inventory.NewUseCase(apptest.NewTxRunner(store), pos, c, logger.Nop())
}

func TestGetDepartmentInventory_CombinaPOSYCustom(t *testing.T) {
	pos := &apptest.POS{
		Leftovers: map[int64][]poster.Leftover{
			1: {{IngredientID: 10, Left: decimal.RequireFromString("3.5"), Unit: "l"}},
		},
	}
	uc := newUseCase(seedStore(), pos)

	view, err := uc.GetDepartmentInventory(context.Background(), newTenant(), "Cocina")
	require.NoError(t, err)
	require.False(t, view.Partial)
	require.Len(t, view.Items, 2)

	// Ordenados por nombre: Leche antes que Servilletas.
	milk, napkins := view.Items[0], view.Items[1]
	assert.Equal(t, "10", milk.ID)
	assert.Equal(t, inventory.SourcePOS, milk.Source)
	assert.True(t, milk.Quantity.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, "Lácteos", milk.Category)
	assert.Equal(t, "Distribuidora Sur", milk.Supplier)

	assert.Equal(t, "c15", napkins.ID, "los custom llevan prefijo de namespace")
	assert.Equal(t, inventory.SourceManual, napkins.Source)
	require.NotNil(t, napkins.MinQuantity)
	assert.True(t, napkins.MinQuantity.Equal(decimal.NewFromInt(2)))
}

func TestGetDepartmentInventory_UpstreamCaidoDegradaASoloCustom(t *testing.T) {
	pos := &apptest.POS{Err: apptest.Unavailable("timeout")}
	uc := newUseCase(seedStore(), pos)

	view, err := uc.GetDepartmentInventory(context.Background(), newTenant(), "Cocina")
	require.NoError(t, err, "el fallo upstream no es fatal para la vista")
	assert.True(t, view.Partial)
	assert.NotEmpty(t, view.PartialReason)

	require.Len(t, view.Items, 1)
	assert.Equal(t, inventory.SourceManual, view.Items[0].Source)
}

func TestGetDepartmentInventory_RellenaCategoriaYProveedor(t *testing.T) {
	store := seedStore()
	// Producto sin categoría y custom sin proveedor asignable.
	store.Products[0].CategoryID = ""
	pos := &apptest.POS{
		Leftovers: map[int64][]poster.Leftover{
			1: {{IngredientID: 10, Left: decimal.NewFromInt(1), Unit: "l"}},
		},
	}
	uc := newUseCase(store, pos)

	view, err := uc.GetDepartmentInventory(context.Background(), newTenant(), "Cocina")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	for _, it := range view.Items {
		assert.NotEmpty(t, it.Category)
		assert.NotEmpty(t, it.Supplier)
	}
	assert.Equal(t, inventory.NoCategory, view.Items[0].Category)
	assert.Equal(t, inventory.NoSupplier, view.Items[0].Supplier)
}

func TestGetDepartmentInventory_ProductoSinExistenciaReportaCero(t *testing.T) {
	// El POS responde pero no incluye al producto: cantidad 0, no se omite.
	pos := &apptest.POS{Leftovers: map[int64][]poster.Leftover{1: {}}}
	uc := newUseCase(seedStore(), pos)

	view, err := uc.GetDepartmentInventory(context.Background(), newTenant(), "Cocina")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.True(t, view.Items[0].Quantity.IsZero())
}

func TestGetDepartmentInventory_SeccionInexistente(t *testing.T) {
	uc := newUseCase(seedStore(), &apptest.POS{})

	_, err := uc.GetDepartmentInventory(context.Background(), newTenant(), "Terraza")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetDepartmentInventory_MemoizaLasExistencias(t *testing.T) {
	pos := &apptest.POS{
		Leftovers: map[int64][]poster.Leftover{
			1: {{IngredientID: 10, Left: decimal.NewFromInt(2), Unit: "l"}},
		},
	}
	uc := newUseCase(seedStore(), pos)

	ctx := context.Background()
	_, err := uc.GetDepartmentInventory(ctx, newTenant(), "Cocina")
	require.NoError(t, err)
	_, err = uc.GetDepartmentInventory(ctx, newTenant(), "Cocina")
	require.NoError(t, err)

	assert.Equal(t, 1, pos.Calls["getLeftovers:1"], "la segunda lectura sale de caché")
}
