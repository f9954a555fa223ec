package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/application/apptest"
	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

const tenantID = "t-1"

func TestSectionUseCase_CreateValidaYRechazaDuplicados(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	uc := usecase.NewSectionUseCase(apptest.NewTxRunner(store))

	_, err := uc.Create(ctx, tenantID, dto.CreateSectionRequest{Name: ""})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	section, err := uc.Create(ctx, tenantID, dto.CreateSectionRequest{Name: "Bodega", Emoji: "📦"})
	require.NoError(t, err)
	assert.False(t, section.Synced(), "una sección manual no tiene external_id")

	_, err = uc.Create(ctx, tenantID, dto.CreateSectionRequest{Name: "bodega"})
	require.ErrorIs(t, err, domain.ErrDuplicate, "el nombre es único sin distinguir mayúsculas")
}

func TestSectionUseCase_NoRenombraSeccionesSincronizadas(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	store.Sections = []entity.Section{
		{ID: "sec-1", TenantID: tenantID, ExternalID: 1, Name: "Cocina", Active: true},
	}
	uc := usecase.NewSectionUseCase(apptest.NewTxRunner(store))

	_, err := uc.Update(ctx, tenantID, "sec-1", dto.UpdateSectionRequest{Name: "Cocina Nueva"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// El emoji sí es editable localmente.
	section, err := uc.Update(ctx, tenantID, "sec-1", dto.UpdateSectionRequest{Emoji: "🔪"})
	require.NoError(t, err)
	assert.Equal(t, "🔪", section.Emoji)
}

func TestCategoryUseCase_AsignaProveedorExistente(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	store.Suppliers = []entity.Supplier{
		{ID: "sup-1", TenantID: tenantID, Name: "Distribuidora Sur", Active: true},
	}
	store.Categories = []entity.Category{
		{ID: "cat-1", TenantID: tenantID, ExternalID: 100, Name: "Lácteos", Active: true},
	}
	uc := usecase.NewCategoryUseCase(apptest.NewTxRunner(store))

	_, err := uc.Update(ctx, tenantID, "cat-1", dto.UpdateCategoryRequest{SupplierID: "sup-404"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	category, err := uc.Update(ctx, tenantID, "cat-1", dto.UpdateCategoryRequest{SupplierID: "sup-1"})
	require.NoError(t, err)
	assert.Equal(t, "sup-1", category.SupplierID)

	// Quitar la asignación también es válido.
	category, err = uc.Update(ctx, tenantID, "cat-1", dto.UpdateCategoryRequest{})
	require.NoError(t, err)
	assert.Empty(t, category.SupplierID)
}

func TestCustomProductUseCase_CreateValidaSeccionYCantidades(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	store.Sections = []entity.Section{
		{ID: "sec-1", TenantID: tenantID, Name: "Cocina", Active: true},
	}
	uc := usecase.NewCustomProductUseCase(apptest.NewTxRunner(store))

	_, err := uc.Create(ctx, tenantID, dto.CreateCustomProductRequest{
		SectionID: "sec-404", Name: "Servilletas", Unit: "paq",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, tenantID, dto.CreateCustomProductRequest{
		SectionID: "sec-1", Name: "Servilletas", Unit: "paq",
		Quantity: decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	product, err := uc.Create(ctx, tenantID, dto.CreateCustomProductRequest{
		SectionID: "sec-1", Name: "Servilletas", Unit: "paq",
		MinQuantity: decimal.NewFromInt(2), Quantity: decimal.NewFromInt(6),
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", product.DisplayID(), "el alta asigna el Seq y el id lleva prefijo")
}

func TestParseCustomID(t *testing.T) {
	seq, err := usecase.ParseCustomID("c15")
	require.NoError(t, err)
	assert.Equal(t, int64(15), seq)

	for _, bad := range []string{"15", "c", "cabc", "c-3", ""} {
		_, err := usecase.ParseCustomID(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
}

func TestCustomProductUseCase_UpdateYDeactivate(t *testing.T) {
	ctx := context.Background()
	store := apptest.NewStore()
	store.Sections = []entity.Section{
		{ID: "sec-1", TenantID: tenantID, Name: "Cocina", Active: true},
	}
	uc := usecase.NewCustomProductUseCase(apptest.NewTxRunner(store))

	product, err := uc.Create(ctx, tenantID, dto.CreateCustomProductRequest{
		SectionID: "sec-1", Name: "Velas", Unit: "u", Quantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, tenantID, product.DisplayID(), dto.UpdateCustomProductRequest{
		Name: "Velas largas", Unit: "u", Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Velas largas", updated.Name)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(4)))

	require.NoError(t, uc.Deactivate(ctx, tenantID, product.DisplayID()))
	list, err := uc.List(ctx, tenantID)
	require.NoError(t, err)
	assert.Empty(t, list, "los desactivados no aparecen en listados")
}
