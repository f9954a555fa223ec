package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// CustomProductRepository define el puerto de persistencia para productos
// creados por el staff (desconocidos para el POS). Create asigna Seq.
type CustomProductRepository interface {
	Create(ctx context.Context, product *entity.CustomProduct) error
	GetBySeq(ctx context.Context, tenantID string, seq int64) (*entity.CustomProduct, error)
	ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.CustomProduct, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.CustomProduct, error)
	Update(ctx context.Context, product *entity.CustomProduct) error
	Deactivate(ctx context.Context, tenantID string, seq int64) error
}
