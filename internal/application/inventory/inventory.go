package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// La vista combinada junta en una sola lista los productos sincronizados del
// POS (cantidades en vivo, vía caché) y los productos custom del tenant. Si el
// POS no responde, la vista degrada a solo-custom con Partial y el motivo: un
// fallo upstream nunca deja al staff sin inventario.

// Etiquetas de relleno cuando el enlace no existe. Nunca se propaga vacío.
const (
	NoCategory = "sin categoría"
	NoSupplier = "sin proveedor"
)

// Origen de cada ítem de la vista.
const (
	SourcePOS    = "pos"
	SourceManual = "manual"
)

// TxRunner ejecuta lecturas con repos atados a una transacción del tenant.
type TxRunner interface {
	Run(ctx context.Context, tenantID string, fn func(repos repository.Repos) error) error
}

// Item es una línea de la vista combinada.
type Item struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Unit        string           `json:"unit"`
	Quantity    decimal.Decimal  `json:"quantity"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	Category    string           `json:"category"`
	Supplier    string           `json:"supplier"`
	Source      string           `json:"source"`
}

// DepartmentInventory es la vista de una sección.
type DepartmentInventory struct {
	Section       string `json:"section"`
	Emoji         string `json:"emoji,omitempty"`
	Items         []Item `json:"items"`
	Partial       bool   `json:"partial"`
	PartialReason string `json:"partial_reason,omitempty"`
}

// UseCase arma la vista combinada de inventario.
type UseCase struct {
	tx    TxRunner
	pos   poster.Provider
	cache *cache.TenantCache
	log   *logger.Logger
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(tx TxRunner, pos poster.Provider, c *cache.TenantCache, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, pos: pos, cache: c, log: log}
}

// GetDepartmentInventory devuelve el inventario combinado de una sección,
// resuelta por nombre (insensible a mayúsculas).
func (uc *UseCase) GetDepartmentInventory(ctx context.Context, tenant *entity.Tenant, department string) (*DepartmentInventory, error) {
	if department == "" {
		return nil, fmt.Errorf("%w: el nombre de la sección es obligatorio", domain.ErrInvalidInput)
	}

	var (
		section    *entity.Section
		products   []*entity.Product
		customs    []*entity.CustomProduct
		categories []*entity.Category
		suppliers  []*entity.Supplier
	)
	err := uc.tx.Run(ctx, tenant.ID, func(repos repository.Repos) error {
		var err error
		section, err = repos.Sections.GetByName(ctx, tenant.ID, department)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %q", domain.ErrNotFound, department)
		}
		if products, err = repos.Products.ListBySection(ctx, tenant.ID, section.ID); err != nil {
			return err
		}
		if customs, err = repos.CustomProducts.ListBySection(ctx, tenant.ID, section.ID); err != nil {
			return err
		}
		if categories, err = repos.Categories.ListByTenant(ctx, tenant.ID, true); err != nil {
			return err
		}
		suppliers, err = repos.Suppliers.ListByTenant(ctx, tenant.ID, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	categoryByID := make(map[string]*entity.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	supplierByID := make(map[string]*entity.Supplier, len(suppliers))
	for _, s := range suppliers {
		supplierByID[s.ID] = s
	}

	view := &DepartmentInventory{Section: section.Name, Emoji: section.Emoji}

	// Cantidades en vivo para lo sincronizado. El fallo degrada a solo-custom.
	if section.Synced() && len(products) > 0 {
		quantities, err := uc.liveQuantities(ctx, tenant, section.ExternalID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenant.ID).Str("section", section.Name).
				Msg("inventario: upstream no disponible, vista parcial solo-custom")
			view.Partial = true
			view.PartialReason = err.Error()
		} else {
			for _, p := range products {
				qty := quantities[p.ExternalID] // ausente = 0
				view.Items = append(view.Items, Item{
					ID:       fmt.Sprintf("%d", p.ExternalID),
					Name:     p.Name,
					Unit:     p.Unit,
					Quantity: qty,
					Category: uc.categoryName(categoryByID, p.CategoryID),
					Supplier: uc.supplierName(categoryByID, supplierByID, p.CategoryID),
					Source:   SourcePOS,
				})
			}
		}
	}

	for _, c := range customs {
		minQty := c.MinQuantity
		view.Items = append(view.Items, Item{
			ID:          c.DisplayID(),
			Name:        c.Name,
			Unit:        c.Unit,
			Quantity:    c.Quantity,
			MinQuantity: &minQty,
			Category:    uc.categoryName(categoryByID, c.CategoryID),
			Supplier:    uc.supplierName(categoryByID, supplierByID, c.CategoryID),
			Source:      SourceManual,
		})
	}

	sort.SliceStable(view.Items, func(i, j int) bool {
		return view.Items[i].Name < view.Items[j].Name
	})
	return view, nil
}

// liveQuantities lee las existencias upstream de un storage (memoizadas) y las
// indexa por ingredient_id.
func (uc *UseCase) liveQuantities(ctx context.Context, tenant *entity.Tenant, storageID int64) (map[int64]decimal.Decimal, error) {
	key := fmt.Sprintf("pos:leftovers:%d", storageID)
	var leftovers []poster.Leftover
	if raw, ok, err := uc.cache.Get(ctx, tenant.ID, key); err == nil && ok {
		if json.Unmarshal([]byte(raw), &leftovers) == nil {
			return indexLeftovers(leftovers), nil
		}
	}
	leftovers, err := uc.pos.GetStorageLeftovers(ctx, tenant.POSToken, storageID)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(leftovers); err == nil {
		_ = uc.cache.Set(ctx, tenant.ID, key, string(encoded), 45*time.Second)
	}
	return indexLeftovers(leftovers), nil
}

func indexLeftovers(leftovers []poster.Leftover) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(leftovers))
	for _, lo := range leftovers {
		out[lo.IngredientID] = lo.Left
	}
	return out
}

func (uc *UseCase) categoryName(categories map[string]*entity.Category, categoryID string) string {
	if c, ok := categories[categoryID]; ok && c.Name != "" {
		return c.Name
	}
	return NoCategory
}

// supplierName resuelve producto → categoría → proveedor asignado.
func (uc *UseCase) supplierName(categories map[string]*entity.Category, suppliers map[string]*entity.Supplier, categoryID string) string {
	c, ok := categories[categoryID]
	if !ok || c.SupplierID == "" {
		return NoSupplier
	}
	if s, ok := suppliers[c.SupplierID]; ok && s.Name != "" {
		return s.Name
	}
	return NoSupplier
}
