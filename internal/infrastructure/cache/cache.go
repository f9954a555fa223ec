package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Despensa-api/pkg/config"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// La caché memoiza lecturas upstream caras (storages, ingredientes, leftovers)
// con TTL corto: las cifras de stock son sensibles al tiempo. Es desechable por
// contrato: la base de datos es la única fuente de verdad y todo miss se
// recupera re-consultando upstream.

// Store es el backend de caché. Redis cuando está disponible; si no, un store
// en proceso acotado con la misma semántica de TTL y borrado por prefijo.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, prefix string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const keyNamespace = "despensa"

// TenantCache antepone el tenant a toda clave para que un backend compartido
// nunca filtre datos entre tenants.
type TenantCache struct {
	store      Store
	defaultTTL time.Duration
}

// New construye la caché: intenta Redis y, si no responde, cae al store en
// memoria. Ambos backends son intercambiables para los callers.
func New(cfg config.CacheConfig, log *logger.Logger) *TenantCache {
	var store Store
	if cfg.RedisAddr != "" {
		rs, err := newRedisStore(cfg)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("caché: backend redis")
			store = rs
		} else {
			log.Warn().Err(err).Msg("caché: redis no disponible, fallback a memoria")
		}
	}
	if store == nil {
		store = newMemoryStore(cfg.MemoryMaxKeys)
	}
	return &TenantCache{store: store, defaultTTL: cfg.DefaultTTL}
}

// NewWithStore construye la caché sobre un backend explícito. Para tests.
func NewWithStore(store Store, defaultTTL time.Duration) *TenantCache {
	return &TenantCache{store: store, defaultTTL: defaultTTL}
}

// DefaultTTL devuelve el TTL por defecto configurado.
func (c *TenantCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

func (c *TenantCache) key(tenantID, key string) string {
	return keyNamespace + ":" + tenantID + ":" + key
}

// Get devuelve el valor y si existía.
func (c *TenantCache) Get(ctx context.Context, tenantID, key string) (string, bool, error) {
	return c.store.Get(ctx, c.key(tenantID, key))
}

// Set guarda el valor con TTL; ttl <= 0 usa el TTL por defecto.
func (c *TenantCache) Set(ctx context.Context, tenantID, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.store.Set(ctx, c.key(tenantID, key), value, ttl)
}

// Delete invalida una clave.
func (c *TenantCache) Delete(ctx context.Context, tenantID, key string) error {
	return c.store.Delete(ctx, c.key(tenantID, key))
}

// DeletePattern invalida todas las claves del tenant que empiecen por prefix.
// Prefix vacío invalida todo lo del tenant.
func (c *TenantCache) DeletePattern(ctx context.Context, tenantID, prefix string) error {
	return c.store.DeletePattern(ctx, c.key(tenantID, prefix))
}

// Keys lista las claves del tenant con un prefijo, sin el namespace interno.
// Para el endpoint de introspección.
func (c *TenantCache) Keys(ctx context.Context, tenantID, prefix string) ([]string, error) {
	full, err := c.store.Keys(ctx, c.key(tenantID, prefix))
	if err != nil {
		return nil, err
	}
	trim := c.key(tenantID, "")
	out := make([]string, 0, len(full))
	for _, k := range full {
		out = append(out, k[len(trim):])
	}
	return out, nil
}
