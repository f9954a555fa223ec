package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
// Delete existe solo para la acción administrativa explícita; el flujo
// normal nunca borra pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	ListByTenant(ctx context.Context, tenantID, status string) ([]*entity.Order, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// SupplierOrderRepository define el puerto para pedidos consolidados por proveedor.
type SupplierOrderRepository interface {
	Create(ctx context.Context, order *entity.SupplierOrder) error
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.SupplierOrder, error)
}
