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

var _ repository.CustomProductRepository = (*CustomProductRepo)(nil)

// CustomProductRepo implementación del puerto CustomProductRepository sobre PostgreSQL.
type CustomProductRepo struct {
	q Querier
}

// NewCustomProductRepository construye el adaptador de persistencia para productos custom.
func NewCustomProductRepository(q Querier) *CustomProductRepo {
	return &CustomProductRepo{q: q}
}

const customProductColumns = `seq, tenant_id, section_id, COALESCE(category_id::text, ''), name, unit, min_quantity, quantity, active, created_at, updated_at`

func scanCustomProduct(row pgx.Row) (*entity.CustomProduct, error) {
	var p entity.CustomProduct
	err := row.Scan(&p.Seq, &p.TenantID, &p.SectionID, &p.CategoryID, &p.Name, &p.Unit,
		&p.MinQuantity, &p.Quantity, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto custom; la secuencia la asigna la base (RETURNING seq).
func (r *CustomProductRepo) Create(ctx context.Context, product *entity.CustomProduct) error {
	query := `
		INSERT INTO custom_products (tenant_id, section_id, category_id, name, unit, min_quantity, quantity, active, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		product.TenantID, product.SectionID, product.CategoryID, product.Name, product.Unit,
		product.MinQuantity, product.Quantity, product.Active, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert custom product: %w", err)
	}
	return nil
}

// GetBySeq obtiene un producto custom del tenant por su secuencia local.
func (r *CustomProductRepo) GetBySeq(ctx context.Context, tenantID string, seq int64) (*entity.CustomProduct, error) {
	query := `SELECT ` + customProductColumns + ` FROM custom_products WHERE tenant_id = $1 AND seq = $2`
	p, err := scanCustomProduct(r.q.QueryRow(ctx, query, tenantID, seq))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom product: %w", err)
	}
	return p, nil
}

// ListBySection lista productos custom activos de una sección.
func (r *CustomProductRepo) ListBySection(ctx context.Context, tenantID, sectionID string) ([]*entity.CustomProduct, error) {
	query := `SELECT ` + customProductColumns + ` FROM custom_products
		WHERE tenant_id = $1 AND section_id = $2 AND active ORDER BY name`
	return r.list(ctx, query, tenantID, sectionID)
}

// ListByTenant lista todos los productos custom activos del tenant.
func (r *CustomProductRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.CustomProduct, error) {
	query := `SELECT ` + customProductColumns + ` FROM custom_products WHERE tenant_id = $1 AND active ORDER BY seq`
	return r.list(ctx, query, tenantID)
}

func (r *CustomProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CustomProduct, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list custom products: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomProduct
	for rows.Next() {
		p, err := scanCustomProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables por el staff.
func (r *CustomProductRepo) Update(ctx context.Context, product *entity.CustomProduct) error {
	_, err := r.q.Exec(ctx,
		`UPDATE custom_products
		 SET section_id = $3, category_id = NULLIF($4, '')::uuid, name = $5, unit = $6,
		     min_quantity = $7, quantity = $8, active = $9, updated_at = $10
		 WHERE tenant_id = $1 AND seq = $2`,
		product.TenantID, product.Seq, product.SectionID, product.CategoryID, product.Name,
		product.Unit, product.MinQuantity, product.Quantity, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update custom product: %w", err)
	}
	return nil
}

// Deactivate baja lógica.
func (r *CustomProductRepo) Deactivate(ctx context.Context, tenantID string, seq int64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE custom_products SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND seq = $2`,
		tenantID, seq,
	)
	if err != nil {
		return fmt.Errorf("deactivate custom product: %w", err)
	}
	return nil
}
