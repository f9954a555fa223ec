// Package apptest provee dobles en memoria de los puertos de persistencia y
// del proveedor POS para los tests de los casos de uso. El store no simula
// rollback: los tests verifican resultados de pasadas completas, no
// atomicidad transaccional (eso lo cubren las políticas de la base real).
package apptest

import (
	"context"
	"sync"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// Store guarda el estado compartido de todos los repositorios fake.
type Store struct {
	mu             sync.Mutex
	Sections       []entity.Section
	Categories     []entity.Category
	Suppliers      []entity.Supplier
	Products       []entity.Product
	Customs        []entity.CustomProduct
	Leftovers      []LeftoverRow
	Orders         []entity.Order
	SupplierOrders []entity.SupplierOrder
	nextSeq        int64
}

// LeftoverRow fija el tenant de cada existencia (la entidad no lo lleva porque
// en la base lo impone la sección).
type LeftoverRow struct {
	TenantID string
	Row      entity.Leftover
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{}
}

// Repos ata los repositorios fake al store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Sections:       &sectionRepo{s},
		Categories:     &categoryRepo{s},
		Suppliers:      &supplierRepo{s},
		Products:       &productRepo{s},
		CustomProducts: &customProductRepo{s},
		Leftovers:      &leftoverRepo{s},
		Orders:         &orderRepo{s},
		SupplierOrders: &supplierOrderRepo{s},
	}
}

// TxRunner ejecuta los callbacks directamente sobre el store. LockBusy simula
// el lock consultivo ocupado por otra pasada de sync.
type TxRunner struct {
	Store    *Store
	LockBusy bool
}

// NewTxRunner construye el runner fake sobre un store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{Store: store}
}

func (r *TxRunner) Run(_ context.Context, tenantID string, fn func(repos repository.Repos) error) error {
	if tenantID == "" {
		return domain.ErrTenantNotResolved
	}
	return fn(r.Store.Repos())
}

func (r *TxRunner) RunLocked(_ context.Context, tenantID string, fn func(repos repository.Repos) error) error {
	if tenantID == "" {
		return domain.ErrTenantNotResolved
	}
	if r.LockBusy {
		return domain.ErrSyncLocked
	}
	return fn(r.Store.Repos())
}

func copyItems(items []entity.OrderItem) []entity.OrderItem {
	if items == nil {
		return nil
	}
	out := make([]entity.OrderItem, len(items))
	copy(out, items)
	return out
}
