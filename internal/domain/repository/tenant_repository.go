package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant.
// Es la raíz del aislamiento: se consulta antes de fijar el tenant activo,
// por eso no está sujeto a las políticas RLS del resto de tablas.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
}
