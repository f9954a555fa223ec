package usecase

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una transacción del
// tenant (con app.tenant_id fijado para RLS).
type TxRunner interface {
	Run(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error
}
