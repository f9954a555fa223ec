package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Items se guarda como JSONB embebido (lista ordenada, no relación aparte).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, tenant_id, section_id, status, items, total_items, total_quantity,
	modified, note, created_by_role, created_at, sent_at, delivered_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var items []byte
	err := row.Scan(&o.ID, &o.TenantID, &o.SectionID, &o.Status, &items, &o.TotalItems,
		&o.TotalQuantity, &o.Modified, &o.Note, &o.CreatedByRole, &o.CreatedAt,
		&o.SentAt, &o.DeliveredAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

// Create persiste un pedido nuevo (pending).
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	query := `
		INSERT INTO orders (id, tenant_id, section_id, status, items, total_items, total_quantity,
			modified, note, created_by_role, created_at, sent_at, delivered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.SectionID, order.Status, items, order.TotalItems,
		order.TotalQuantity, order.Modified, order.Note, order.CreatedByRole,
		order.CreatedAt, order.SentAt, order.DeliveredAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido del tenant por ID. Un id de otro tenant es
// indistinguible de uno inexistente (nil, nil).
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update persiste items, totales y estado de un pedido mutado por el ciclo de vida.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`UPDATE orders SET status = $3, items = $4, total_items = $5, total_quantity = $6,
			modified = $7, note = $8, sent_at = $9, delivered_at = $10, updated_at = $11
		 WHERE tenant_id = $1 AND id = $2`,
		order.TenantID, order.ID, order.Status, items, order.TotalItems, order.TotalQuantity,
		order.Modified, order.Note, order.SentAt, order.DeliveredAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListByTenant lista pedidos del tenant, opcionalmente filtrados por estado.
func (r *OrderRepo) ListByTenant(ctx context.Context, tenantID, status string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete borra un pedido. Solo la acción administrativa explícita llega aquí.
func (r *OrderRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ── Pedidos consolidados por proveedor ───────────────────────────────────────

var _ repository.SupplierOrderRepository = (*SupplierOrderRepo)(nil)

// SupplierOrderRepo implementación del puerto SupplierOrderRepository.
type SupplierOrderRepo struct {
	q Querier
}

// NewSupplierOrderRepository construye el adaptador para pedidos consolidados.
func NewSupplierOrderRepository(q Querier) *SupplierOrderRepo {
	return &SupplierOrderRepo{q: q}
}

// Create persiste un pedido consolidado creado por el despacho.
func (r *SupplierOrderRepo) Create(ctx context.Context, order *entity.SupplierOrder) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode supplier order items: %w", err)
	}
	query := `
		INSERT INTO supplier_orders (id, tenant_id, supplier_id, supplier_name, items, source_order_ids, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.SupplierID, order.SupplierName, items,
		order.SourceOrderIDs, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier order: %w", err)
	}
	return nil
}

// ListByTenant lista pedidos consolidados del tenant, más recientes primero.
func (r *SupplierOrderRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.SupplierOrder, error) {
	query := `
		SELECT id, tenant_id, COALESCE(supplier_id::text, ''), supplier_name, items, source_order_ids, created_at
		FROM supplier_orders WHERE tenant_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list supplier orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierOrder
	for rows.Next() {
		var o entity.SupplierOrder
		var items []byte
		if err := rows.Scan(&o.ID, &o.TenantID, &o.SupplierID, &o.SupplierName, &items,
			&o.SourceOrderIDs, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode supplier order items: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
