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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, tenant_id, external_id, name, phone, address, active, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.TenantID, &s.ExternalID, &s.Name, &s.Phone, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un proveedor creado a mano (ExternalID = 0).
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, tenant_id, external_id, name, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		supplier.ID, supplier.TenantID, supplier.ExternalID, supplier.Name, supplier.Phone,
		supplier.Address, supplier.Active, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor del tenant por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE tenant_id = $1 AND id = $2`
	s, err := scanSupplier(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// ListByTenant lista proveedores del tenant.
func (r *SupplierRepo) ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE tenant_id = $1`
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza datos de contacto.
func (r *SupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	_, err := r.q.Exec(ctx,
		`UPDATE suppliers SET name = $3, phone = $4, address = $5, active = $6, updated_at = $7
		 WHERE tenant_id = $1 AND id = $2`,
		supplier.TenantID, supplier.ID, supplier.Name, supplier.Phone, supplier.Address,
		supplier.Active, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// Deactivate baja lógica.
func (r *SupplierRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE suppliers SET active = FALSE, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("deactivate supplier: %w", err)
	}
	return nil
}

// UpsertSynced inserta o actualiza por (tenant_id, external_id).
func (r *SupplierRepo) UpsertSynced(ctx context.Context, supplier *entity.Supplier) (bool, error) {
	query := `
		INSERT INTO suppliers (id, tenant_id, external_id, name, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
		ON CONFLICT (tenant_id, external_id) WHERE external_id <> 0 DO UPDATE
		SET name = EXCLUDED.name, phone = EXCLUDED.phone, address = EXCLUDED.address,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0)`
	var created bool
	err := r.q.QueryRow(ctx, query,
		supplier.ID, supplier.TenantID, supplier.ExternalID, supplier.Name, supplier.Phone,
		supplier.Address, supplier.UpdatedAt,
	).Scan(&supplier.ID, &created)
	if err != nil {
		return false, fmt.Errorf("upsert supplier: %w", err)
	}
	return created, nil
}
