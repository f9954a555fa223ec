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

// SupplierUseCase gestiona los proveedores manuales del tenant.
type SupplierUseCase struct {
	tx TxRunner
}

// NewSupplierUseCase construye el caso de uso de proveedores.
func NewSupplierUseCase(tx TxRunner) *SupplierUseCase {
	return &SupplierUseCase{tx: tx}
}

// Create da de alta un proveedor manual (ExternalID = 0).
func (uc *SupplierUseCase) Create(ctx context.Context, tenantID string, in dto.CreateSupplierRequest) (*entity.Supplier, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	supplier := &entity.Supplier{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Address:  in.Address,
		Active:   true,
	}
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		return repos.Suppliers.Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// List devuelve los proveedores del tenant.
func (uc *SupplierUseCase) List(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Supplier, error) {
	var suppliers []*entity.Supplier
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		suppliers, err = repos.Suppliers.ListByTenant(ctx, tenantID, includeInactive)
		return err
	})
	return suppliers, err
}

// Update edita los datos de contacto.
func (uc *SupplierUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateSupplierRequest) (*entity.Supplier, error) {
	var supplier *entity.Supplier
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		supplier, err = repos.Suppliers.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
		}
		if in.Name != "" {
			supplier.Name = in.Name
		}
		if in.Phone != "" {
			supplier.Phone = in.Phone
		}
		if in.Address != "" {
			supplier.Address = in.Address
		}
		return repos.Suppliers.Update(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// Deactivate da de baja lógica un proveedor.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	return uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		supplier, err := repos.Suppliers.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
		}
		return repos.Suppliers.Deactivate(ctx, tenantID, id)
	})
}
