package apptest

import (
	"context"
	"fmt"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
)

var _ poster.Provider = (*POS)(nil)

// POS es el doble del proveedor upstream. Los campos Err* inyectan fallos
// puntuales; Calls cuenta las invocaciones por método para verificar la
// memoización en caché.
type POS struct {
	Storages    []poster.Storage
	Ingredients []poster.Ingredient
	Leftovers   map[int64][]poster.Leftover
	Suppliers   []poster.Supplier

	Err             error           // falla todas las lecturas
	ErrLeftoversFor map[int64]error // falla solo un storage concreto

	Supplies  []poster.Supply
	SupplyID  int64
	SupplyErr error

	Calls map[string]int
}

func (p *POS) record(method string) {
	if p.Calls == nil {
		p.Calls = make(map[string]int)
	}
	p.Calls[method]++
}

func (p *POS) GetStorages(_ context.Context, _ string) ([]poster.Storage, error) {
	p.record("getStorages")
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Storages, nil
}

func (p *POS) GetIngredients(_ context.Context, _ string) ([]poster.Ingredient, error) {
	p.record("getIngredients")
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Ingredients, nil
}

func (p *POS) GetStorageLeftovers(_ context.Context, _ string, storageID int64) ([]poster.Leftover, error) {
	p.record(fmt.Sprintf("getLeftovers:%d", storageID))
	if p.Err != nil {
		return nil, p.Err
	}
	if err, ok := p.ErrLeftoversFor[storageID]; ok {
		return nil, err
	}
	return p.Leftovers[storageID], nil
}

func (p *POS) GetSuppliers(_ context.Context, _ string) ([]poster.Supplier, error) {
	p.record("getSuppliers")
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Suppliers, nil
}

func (p *POS) CreateSupply(_ context.Context, _ string, supply poster.Supply) (int64, error) {
	p.record("createSupply")
	if p.SupplyErr != nil {
		return 0, p.SupplyErr
	}
	p.Supplies = append(p.Supplies, supply)
	if p.SupplyID == 0 {
		return int64(len(p.Supplies)), nil
	}
	return p.SupplyID, nil
}

// Unavailable devuelve un error de upstream caído para inyectar en los dobles.
func Unavailable(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, msg)
}
