package sync

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una transacción del
// tenant. RunLocked además toma el lock consultivo por tenant: dos pasadas de
// sync concurrentes sobre el mismo tenant no intercalan escrituras.
type TxRunner interface {
	Run(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error
	RunLocked(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error
}
