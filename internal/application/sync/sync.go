package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// El pipeline de sync corre en tres etapas ordenadas: secciones, productos y
// existencias. Cada etapa es idempotente (upsert por external_id) y re-ejecutable;
// el fallo de una sección se registra y el resto continúa. Las escrituras de cada
// sección van en una transacción con lock por tenant, así una corrida parcial
// nunca deja una sección a medio aplicar.

// Claves de caché para memoizar lecturas upstream dentro de una pasada y entre
// peticiones cercanas.
const (
	keyStorages    = "pos:storages"
	keyIngredients = "pos:ingredients"
	keySuppliers   = "pos:suppliers"

	// Las existencias cambian más rápido que el catálogo: TTL más corto.
	leftoversTTL = 45 * time.Second
)

func keyLeftovers(storageID int64) string {
	return fmt.Sprintf("pos:leftovers:%d", storageID)
}

// StageResult resume una etapa: filas creadas, actualizadas y saltadas, más los
// errores por sección que no abortaron la pasada.
type StageResult struct {
	Stage   string   `json:"stage"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Report agrega los resultados de una pasada completa.
type Report struct {
	Sections  *StageResult `json:"sections,omitempty"`
	Suppliers *StageResult `json:"suppliers,omitempty"`
	Products  *StageResult `json:"products,omitempty"`
	Leftovers *StageResult `json:"leftovers,omitempty"`
}

// UseCase orquesta la sincronización contra el POS upstream.
type UseCase struct {
	tx           TxRunner
	pos          poster.Provider
	cache        *cache.TenantCache
	log          *logger.Logger
	stageTimeout time.Duration
}

// NewUseCase construye el caso de uso de sync. stageTimeout acota cada
// transacción de etapa; 0 deja las etapas sin límite propio.
func NewUseCase(tx TxRunner, pos poster.Provider, c *cache.TenantCache, log *logger.Logger, stageTimeout time.Duration) *UseCase {
	return &UseCase{tx: tx, pos: pos, cache: c, log: log, stageTimeout: stageTimeout}
}

// stageCtx deriva el contexto de una transacción de etapa con el timeout
// configurado, para que una sección colgada no retenga el lock del tenant.
func (uc *UseCase) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.stageTimeout)
}

// cachedCall memoiza una lectura upstream en la caché del tenant (JSON).
// Un fallo de caché nunca rompe la pasada: se re-consulta upstream.
func cachedCall[T any](ctx context.Context, uc *UseCase, tenantID, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if raw, ok, err := uc.cache.Get(ctx, tenantID, key); err == nil && ok {
		var out T
		if json.Unmarshal([]byte(raw), &out) == nil {
			return out, nil
		}
	}
	out, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	if encoded, err := json.Marshal(out); err == nil {
		_ = uc.cache.Set(ctx, tenantID, key, string(encoded), ttl)
	}
	return out, nil
}

// SyncAll corre las etapas en orden. Un fallo duro (upstream caído en la
// primera lectura, lock ocupado) corta la pasada y devuelve lo acumulado.
func (uc *UseCase) SyncAll(ctx context.Context, tenant *entity.Tenant) (*Report, error) {
	report := &Report{}

	sections, err := uc.SyncSections(ctx, tenant)
	report.Sections = sections
	if err != nil {
		return report, err
	}
	suppliers, err := uc.SyncSuppliers(ctx, tenant)
	report.Suppliers = suppliers
	if err != nil {
		return report, err
	}
	products, err := uc.SyncProducts(ctx, tenant, "")
	report.Products = products
	if err != nil {
		return report, err
	}
	leftovers, err := uc.SyncLeftovers(ctx, tenant, "")
	report.Leftovers = leftovers
	return report, err
}

// SyncSections sincroniza los storages del POS como secciones locales.
func (uc *UseCase) SyncSections(ctx context.Context, tenant *entity.Tenant) (*StageResult, error) {
	res := &StageResult{Stage: "sections"}

	storages, err := cachedCall(ctx, uc, tenant.ID, keyStorages, 0, func() ([]poster.Storage, error) {
		return uc.pos.GetStorages(ctx, tenant.POSToken)
	})
	if err != nil {
		return nil, err
	}

	txCtx, cancel := uc.stageCtx(ctx)
	defer cancel()

	var created, updated, skipped int
	err = uc.tx.RunLocked(txCtx, tenant.ID, func(repos repository.Repos) error {
		created, updated, skipped = 0, 0, 0
		for _, st := range storages {
			if st.StorageID == 0 || st.Name == "" {
				skipped++
				continue
			}
			section := &entity.Section{
				ID:         uuid.NewString(),
				TenantID:   tenant.ID,
				ExternalID: st.StorageID,
				Name:       st.Name,
				Emoji:      st.Emoji,
				Active:     true,
			}
			isNew, err := repos.Sections.UpsertSynced(txCtx, section)
			if err != nil {
				return fmt.Errorf("upsert sección %q: %w", st.Name, err)
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Created, res.Updated, res.Skipped = created, updated, skipped

	uc.log.Info().Str("tenant_id", tenant.ID).
		Int("created", res.Created).Int("updated", res.Updated).Int("skipped", res.Skipped).
		Msg("sync de secciones aplicado")
	return res, nil
}

// SyncSuppliers sincroniza los proveedores del POS.
func (uc *UseCase) SyncSuppliers(ctx context.Context, tenant *entity.Tenant) (*StageResult, error) {
	res := &StageResult{Stage: "suppliers"}

	suppliers, err := cachedCall(ctx, uc, tenant.ID, keySuppliers, 0, func() ([]poster.Supplier, error) {
		return uc.pos.GetSuppliers(ctx, tenant.POSToken)
	})
	if err != nil {
		return nil, err
	}

	txCtx, cancel := uc.stageCtx(ctx)
	defer cancel()

	var created, updated, skipped int
	err = uc.tx.RunLocked(txCtx, tenant.ID, func(repos repository.Repos) error {
		created, updated, skipped = 0, 0, 0
		for _, sp := range suppliers {
			if sp.SupplierID == 0 || sp.Name == "" {
				skipped++
				continue
			}
			supplier := &entity.Supplier{
				ID:         uuid.NewString(),
				TenantID:   tenant.ID,
				ExternalID: sp.SupplierID,
				Name:       sp.Name,
				Phone:      sp.Phone,
				Address:    sp.Address,
				Active:     true,
			}
			isNew, err := repos.Suppliers.UpsertSynced(txCtx, supplier)
			if err != nil {
				return fmt.Errorf("upsert proveedor %q: %w", sp.Name, err)
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Created, res.Updated, res.Skipped = created, updated, skipped

	uc.log.Info().Str("tenant_id", tenant.ID).
		Int("created", res.Created).Int("updated", res.Updated).
		Msg("sync de proveedores aplicado")
	return res, nil
}

// SyncProducts sincroniza el catálogo de productos de una sección (o de todas
// las sincronizadas si sectionID es vacío). Solo entran al catálogo local los
// ingredientes que el storage de la sección referencia en sus existencias.
func (uc *UseCase) SyncProducts(ctx context.Context, tenant *entity.Tenant, sectionID string) (*StageResult, error) {
	res := &StageResult{Stage: "products"}

	sections, err := uc.targetSections(ctx, tenant.ID, sectionID)
	if err != nil {
		return nil, err
	}

	ingredients, err := cachedCall(ctx, uc, tenant.ID, keyIngredients, 0, func() ([]poster.Ingredient, error) {
		return uc.pos.GetIngredients(ctx, tenant.POSToken)
	})
	if err != nil {
		return nil, err
	}
	catalog := make(map[int64]poster.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		catalog[ing.IngredientID] = ing
	}

	for _, section := range sections {
		leftovers, err := uc.fetchLeftovers(ctx, tenant, section.ExternalID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenant.ID).Str("section", section.Name).
				Msg("sync de productos: sección omitida por fallo upstream")
			res.Errors = append(res.Errors, fmt.Sprintf("sección %q: %v", section.Name, err))
			continue
		}

		txCtx, cancel := uc.stageCtx(ctx)
		var created, updated, skipped int
		err = uc.tx.RunLocked(txCtx, tenant.ID, func(repos repository.Repos) error {
			created, updated, skipped = 0, 0, 0
			categoryIDs := make(map[int64]string)
			for _, lo := range leftovers {
				ing, ok := catalog[lo.IngredientID]
				if !ok {
					skipped++
					continue
				}
				categoryID, err := uc.ensureCategory(txCtx, repos, tenant.ID, ing, categoryIDs)
				if err != nil {
					return err
				}
				unit := lo.Unit
				if unit == "" {
					unit = ing.Unit
				}
				product := &entity.Product{
					ID:         uuid.NewString(),
					TenantID:   tenant.ID,
					SectionID:  section.ID,
					ExternalID: ing.IngredientID,
					Name:       ing.Name,
					Unit:       unit,
					CategoryID: categoryID,
					Active:     true,
				}
				isNew, err := repos.Products.UpsertSynced(txCtx, product)
				if err != nil {
					return fmt.Errorf("upsert producto %q: %w", ing.Name, err)
				}
				if isNew {
					created++
				} else {
					updated++
				}
			}
			return nil
		})
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrSyncLocked) {
				return nil, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("sección %q: %v", section.Name, err))
			continue
		}
		res.Created += created
		res.Updated += updated
		res.Skipped += skipped
	}

	uc.log.Info().Str("tenant_id", tenant.ID).
		Int("created", res.Created).Int("updated", res.Updated).Int("skipped", res.Skipped).
		Int("section_errors", len(res.Errors)).
		Msg("sync de productos aplicado")
	return res, nil
}

// ensureCategory garantiza la categoría local del ingrediente y devuelve su id
// (vacío si el ingrediente no trae categoría). Memoiza dentro de la transacción.
func (uc *UseCase) ensureCategory(ctx context.Context, repos repository.Repos, tenantID string, ing poster.Ingredient, seen map[int64]string) (string, error) {
	if ing.CategoryID == 0 {
		return "", nil
	}
	if id, ok := seen[ing.CategoryID]; ok {
		return id, nil
	}
	category := &entity.Category{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		ExternalID: ing.CategoryID,
		Name:       ing.CategoryName,
		Active:     true,
	}
	if _, err := repos.Categories.UpsertSynced(ctx, category); err != nil {
		return "", fmt.Errorf("upsert categoría %q: %w", ing.CategoryName, err)
	}
	seen[ing.CategoryID] = category.ID
	return category.ID, nil
}

// SyncLeftovers sincroniza las existencias de una sección (o de todas las
// sincronizadas). Política cero-y-aplicar: dentro de la transacción todas las
// filas de la sección se ponen en 0 y después se aplican las cantidades frescas;
// lo que el POS dejó de reportar queda en 0 sin borrar historial.
func (uc *UseCase) SyncLeftovers(ctx context.Context, tenant *entity.Tenant, sectionID string) (*StageResult, error) {
	res := &StageResult{Stage: "leftovers"}

	sections, err := uc.targetSections(ctx, tenant.ID, sectionID)
	if err != nil {
		return nil, err
	}
	single := sectionID != ""

	for _, section := range sections {
		leftovers, err := uc.fetchLeftovers(ctx, tenant, section.ExternalID)
		if err != nil {
			if single {
				return nil, err
			}
			uc.log.Warn().Err(err).Str("tenant_id", tenant.ID).Str("section", section.Name).
				Msg("sync de existencias: sección omitida por fallo upstream")
			res.Errors = append(res.Errors, fmt.Sprintf("sección %q: %v", section.Name, err))
			continue
		}

		txCtx, cancel := uc.stageCtx(ctx)
		var applied, skipped int
		now := time.Now()
		err = uc.tx.RunLocked(txCtx, tenant.ID, func(repos repository.Repos) error {
			applied, skipped = 0, 0
			products, err := repos.Products.ListBySection(txCtx, tenant.ID, section.ID)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				return fmt.Errorf("%w: la sección %q no tiene productos; ejecutá antes el sync de productos", domain.ErrSyncOutOfOrder, section.Name)
			}
			byExternal := make(map[int64]string, len(products))
			for _, p := range products {
				byExternal[p.ExternalID] = p.ID
			}

			if err := repos.Leftovers.ZeroSection(txCtx, tenant.ID, section.ID); err != nil {
				return fmt.Errorf("poner en cero la sección %q: %w", section.Name, err)
			}
			for _, lo := range leftovers {
				productID, ok := byExternal[lo.IngredientID]
				if !ok {
					skipped++
					continue
				}
				leftover := &entity.Leftover{
					SectionID: section.ID,
					ProductID: productID,
					Quantity:  lo.Left,
					SyncedAt:  now,
				}
				if err := repos.Leftovers.Upsert(txCtx, tenant.ID, leftover); err != nil {
					return fmt.Errorf("aplicar existencia del producto %d: %w", lo.IngredientID, err)
				}
				applied++
			}
			return nil
		})
		cancel()
		if err != nil {
			if single || errors.Is(err, domain.ErrSyncLocked) {
				return nil, err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("sección %q: %v", section.Name, err))
			continue
		}
		res.Updated += applied
		res.Skipped += skipped
	}

	uc.log.Info().Str("tenant_id", tenant.ID).
		Int("applied", res.Updated).Int("skipped", res.Skipped).
		Int("section_errors", len(res.Errors)).
		Msg("sync de existencias aplicado")
	return res, nil
}

// fetchLeftovers lee las existencias de un storage, memoizadas con TTL corto.
func (uc *UseCase) fetchLeftovers(ctx context.Context, tenant *entity.Tenant, storageID int64) ([]poster.Leftover, error) {
	return cachedCall(ctx, uc, tenant.ID, keyLeftovers(storageID), leftoversTTL, func() ([]poster.Leftover, error) {
		return uc.pos.GetStorageLeftovers(ctx, tenant.POSToken, storageID)
	})
}

// targetSections resuelve sobre qué secciones corre la etapa: una puntual (que
// debe existir y estar sincronizada) o todas las sincronizadas activas. Sin
// secciones sincronizadas la etapa está fuera de orden.
func (uc *UseCase) targetSections(ctx context.Context, tenantID, sectionID string) ([]*entity.Section, error) {
	var sections []*entity.Section
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		if sectionID != "" {
			section, err := repos.Sections.GetByID(ctx, tenantID, sectionID)
			if err != nil {
				return err
			}
			if section == nil {
				return fmt.Errorf("%w: sección %s", domain.ErrNotFound, sectionID)
			}
			if !section.Synced() {
				return fmt.Errorf("%w: la sección %q es manual y no se sincroniza", domain.ErrInvalidInput, section.Name)
			}
			sections = []*entity.Section{section}
			return nil
		}
		all, err := repos.Sections.ListByTenant(ctx, tenantID, false)
		if err != nil {
			return err
		}
		for _, s := range all {
			if s.Synced() {
				sections = append(sections, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no hay secciones sincronizadas; ejecutá antes el sync de secciones", domain.ErrSyncOutOfOrder)
	}
	return sections, nil
}
