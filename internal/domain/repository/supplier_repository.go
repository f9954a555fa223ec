package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error)
	ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Deactivate(ctx context.Context, tenantID, id string) error
	UpsertSynced(ctx context.Context, supplier *entity.Supplier) (bool, error)
}
