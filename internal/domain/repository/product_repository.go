package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos
// sincronizados desde el POS. La clave de upsert es (tenant_id, external_id):
// el mismo external_id puede existir en otro tenant sin colisión.
type ProductRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetByExternalID(ctx context.Context, tenantID string, externalID int64) (*entity.Product, error)
	ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Product, error)
	Deactivate(ctx context.Context, tenantID, id string) error
	UpsertSynced(ctx context.Context, product *entity.Product) (bool, error)
}
