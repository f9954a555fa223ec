package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// Solo el sync escribe aquí: nombre y unidad autoritativos vienen del POS.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos sincronizados.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, section_id, external_id, name, unit, COALESCE(category_id::text, ''), active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SectionID, &p.ExternalID, &p.Name, &p.Unit,
		&p.CategoryID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un producto del tenant por ID.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByExternalID resuelve un ingredient_id del POS dentro del tenant.
func (r *ProductRepo) GetByExternalID(ctx context.Context, tenantID string, externalID int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND external_id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, tenantID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by external id: %w", err)
	}
	return p, nil
}

// ListBySection lista productos activos de una sección, por nombre.
func (r *ProductRepo) ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE tenant_id = $1 AND section_id = $2 AND active ORDER BY name`
	return r.list(ctx, query, tenantID, sectionID)
}

// ListByTenant lista todos los productos activos del tenant (catálogo para enrutamiento).
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND active ORDER BY external_id`
	return r.list(ctx, query, tenantID)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Deactivate baja lógica (los pedidos históricos siguen referenciando el producto).
func (r *ProductRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

// UpsertSynced inserta o actualiza por (tenant_id, external_id). La ausencia de
// un producto en el snapshot de stock NO lo borra ni desactiva: la ausencia no
// es evidencia de eliminación upstream.
func (r *ProductRepo) UpsertSynced(ctx context.Context, product *entity.Product) (bool, error) {
	query := `
		INSERT INTO products (id, tenant_id, section_id, external_id, name, unit, category_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, TRUE, $8, $8)
		ON CONFLICT (tenant_id, external_id) DO UPDATE
		SET section_id = EXCLUDED.section_id, name = EXCLUDED.name, unit = EXCLUDED.unit,
		    category_id = EXCLUDED.category_id, active = TRUE, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query,
		product.ID, product.TenantID, product.SectionID, product.ExternalID,
		product.Name, product.Unit, product.CategoryID, product.UpdatedAt,
	).Scan(&product.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert product: %w", err)
	}
	return created, nil
}
