package order

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una transacción del
// tenant. El despacho depende de esto: agrupar, crear los pedidos por proveedor
// y marcar los origen como enviados es una sola transacción.
type TxRunner interface {
	Run(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error
}
