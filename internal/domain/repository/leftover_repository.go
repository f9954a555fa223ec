package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// LeftoverRepository define el puerto de persistencia para existencias.
// La política del sync es "cero y aplicar": ZeroSection pone todas las filas
// de la sección en 0 y luego Upsert aplica las cantidades frescas; nunca DELETE.
type LeftoverRepository interface {
	ZeroSection(ctx context.Context, tenantID, sectionID string) error
	Upsert(ctx context.Context, tenantID string, leftover *entity.Leftover) error
	ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.Leftover, error)
}
