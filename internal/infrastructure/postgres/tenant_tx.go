package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con el tenant
// activo fijado vía set_config('app.tenant_id', ..., true). El GUC es local a la
// transacción, así que nunca se filtra a otra petición que reutilice la conexión
// del pool; las políticas RLS lo leen como segunda capa de aislamiento.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, fija el tenant, ejecuta fn con repos atados a la
// tx y hace Commit o Rollback. Todo camino de salida libera la conexión.
func (r *TxRunner) Run(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error {
	return r.run(ctx, tenantID, false, fn)
}

// RunLocked es Run con lock consultivo por tenant (pg_try_advisory_xact_lock):
// lo usan las etapas de sync para que dos invocaciones concurrentes sobre el
// mismo tenant no intercalen escrituras. El lock se libera con la transacción.
func (r *TxRunner) RunLocked(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error {
	return r.run(ctx, tenantID, true, fn)
}

func (r *TxRunner) run(ctx context.Context, tenantID string, locked bool, fn func(repos repository.Repos) error) error {
	if tenantID == "" {
		return domain.ErrTenantNotResolved
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT set_config('app.tenant_id', $1, true)`, tenantID); err != nil {
		return fmt.Errorf("set tenant: %w", err)
	}
	if locked {
		var got bool
		if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock(hashtext($1))`, tenantID).Scan(&got); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
		if !got {
			return domain.ErrSyncLocked
		}
	}

	if err := fn(bindRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// bindRepos ata todos los repositorios tenant-scoped a un mismo Querier (tx o pool).
func bindRepos(q Querier) repository.Repos {
	return repository.Repos{
		Sections:       NewSectionRepository(q),
		Categories:     NewCategoryRepository(q),
		Suppliers:      NewSupplierRepository(q),
		Products:       NewProductRepository(q),
		CustomProducts: NewCustomProductRepository(q),
		Leftovers:      NewLeftoverRepository(q),
		Orders:         NewOrderRepository(q),
		SupplierOrders: NewSupplierOrderRepository(q),
	}
}
