package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.LeftoverRepository = (*LeftoverRepo)(nil)

// LeftoverRepo implementación del puerto LeftoverRepository sobre PostgreSQL.
// Política "cero y aplicar": lo que el POS dejó de reportar queda en 0 con la
// fila intacta, nunca un positivo viejo ni un DELETE.
type LeftoverRepo struct {
	q Querier
}

// NewLeftoverRepository construye el adaptador de persistencia para existencias.
func NewLeftoverRepository(q Querier) *LeftoverRepo {
	return &LeftoverRepo{q: q}
}

// ZeroSection pone en cero todas las existencias de la sección antes de aplicar
// las cantidades frescas del sync.
func (r *LeftoverRepo) ZeroSection(ctx context.Context, tenantID, sectionID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE leftovers SET quantity = 0, synced_at = now() WHERE tenant_id = $1 AND section_id = $2`,
		tenantID, sectionID,
	)
	if err != nil {
		return fmt.Errorf("zero leftovers: %w", err)
	}
	return nil
}

// Upsert aplica la cantidad fresca para (section_id, product_id).
func (r *LeftoverRepo) Upsert(ctx context.Context, tenantID string, leftover *entity.Leftover) error {
	query := `
		INSERT INTO leftovers (tenant_id, section_id, product_id, quantity, synced_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (section_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, synced_at = EXCLUDED.synced_at`
	_, err := r.q.Exec(ctx, query,
		tenantID, leftover.SectionID, leftover.ProductID, leftover.Quantity, leftover.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert leftover: %w", err)
	}
	return nil
}

// ListBySection lista las existencias de una sección.
func (r *LeftoverRepo) ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.Leftover, error) {
	query := `
		SELECT section_id, product_id, quantity, synced_at
		FROM leftovers WHERE tenant_id = $1 AND section_id = $2`
	rows, err := r.q.Query(ctx, query, tenantID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list leftovers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Leftover
	for rows.Next() {
		var l entity.Leftover
		if err := rows.Scan(&l.SectionID, &l.ProductID, &l.Quantity, &l.SyncedAt); err != nil {
			return nil, fmt.Errorf("scan leftover: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
