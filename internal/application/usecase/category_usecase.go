package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// CategoryUseCase gestiona categorías y su asignación de proveedor, que es la
// pieza que decide el enrutamiento de pedidos al despachar.
type CategoryUseCase struct {
	tx TxRunner
}

// NewCategoryUseCase construye el caso de uso de categorías.
func NewCategoryUseCase(tx TxRunner) *CategoryUseCase {
	return &CategoryUseCase{tx: tx}
}

// Create da de alta una categoría manual, con proveedor opcional.
func (uc *CategoryUseCase) Create(ctx context.Context, tenantID string, in dto.CreateCategoryRequest) (*entity.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	category := &entity.Category{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Name:       in.Name,
		SupplierID: in.SupplierID,
		Active:     true,
	}
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		if err := uc.checkSupplier(ctx, repos, tenantID, in.SupplierID); err != nil {
			return err
		}
		return repos.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// List devuelve las categorías del tenant.
func (uc *CategoryUseCase) List(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		categories, err = repos.Categories.ListByTenant(ctx, tenantID, includeInactive)
		return err
	})
	return categories, err
}

// Update edita la categoría. La asignación de proveedor es local y sobrevive a
// los re-sync; supplier_id vacío la quita.
func (uc *CategoryUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateCategoryRequest) (*entity.Category, error) {
	var category *entity.Category
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		category, err = repos.Categories.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		if err := uc.checkSupplier(ctx, repos, tenantID, in.SupplierID); err != nil {
			return err
		}
		if in.Name != "" && category.Synced() && in.Name != category.Name {
			return fmt.Errorf("%w: el nombre de una categoría sincronizada lo define el POS", domain.ErrInvalidInput)
		}
		if in.Name != "" {
			category.Name = in.Name
		}
		category.SupplierID = in.SupplierID
		return repos.Categories.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Deactivate da de baja lógica una categoría.
func (uc *CategoryUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	return uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		category, err := repos.Categories.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		return repos.Categories.Deactivate(ctx, tenantID, id)
	})
}

func (uc *CategoryUseCase) checkSupplier(ctx context.Context, repos repository.Repos, tenantID, supplierID string) error {
	if supplierID == "" {
		return nil
	}
	supplier, err := repos.Suppliers.GetByID(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, supplierID)
	}
	return nil
}
