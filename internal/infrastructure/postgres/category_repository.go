package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
// supplier_id es UUID NULL en la tabla; en la entidad, cadena vacía.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, tenant_id, external_id, name, COALESCE(supplier_id::text, ''), active, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.TenantID, &c.ExternalID, &c.Name, &c.SupplierID, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría creada a mano.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, tenant_id, external_id, name, supplier_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.TenantID, category.ExternalID, category.Name, category.SupplierID,
		category.Active, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría del tenant por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE tenant_id = $1 AND id = $2`
	c, err := scanCategory(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// ListByTenant lista categorías del tenant.
func (r *CategoryRepo) ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE tenant_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza nombre y asignación de proveedor (enrutamiento de pedidos).
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $3, supplier_id = NULLIF($4, '')::uuid, active = $5, updated_at = $6
		 WHERE tenant_id = $1 AND id = $2`,
		category.TenantID, category.ID, category.Name, category.SupplierID, category.Active, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Deactivate baja lógica.
func (r *CategoryRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE categories SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return nil
}

// UpsertSynced inserta o actualiza por (tenant_id, external_id). No pisa la
// asignación manual de proveedor: solo el nombre viene del POS.
func (r *CategoryRepo) UpsertSynced(ctx context.Context, category *entity.Category) (bool, error) {
	query := `
		INSERT INTO categories (id, tenant_id, external_id, name, supplier_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULL, TRUE, $5, $5)
		ON CONFLICT (tenant_id, external_id) WHERE external_id <> 0 DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query,
		category.ID, category.TenantID, category.ExternalID, category.Name, category.UpdatedAt,
	).Scan(&category.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert category: %w", err)
	}
	return created, nil
}
