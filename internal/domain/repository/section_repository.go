package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// SectionRepository define el puerto de persistencia para Section (DIP).
// Toda operación lleva tenantID como predicado obligatorio.
type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Section, error)
	GetByExternalID(ctx context.Context, tenantID string, externalID int64) (*entity.Section, error)
	GetByName(ctx context.Context, tenantID, name string) (*entity.Section, error)
	ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	Deactivate(ctx context.Context, tenantID, id string) error
	// UpsertSynced inserta o actualiza por (tenant_id, external_id).
	// Devuelve true si la fila fue creada.
	UpsertSynced(ctx context.Context, section *entity.Section) (bool, error)
}
