package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
)

func newMemoryCache(t *testing.T) *cache.TenantCache {
	t.Helper()
	return cache.NewWithStore(cache.NewMemoryStore(64), time.Minute)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento por tenant: la misma clave en dos tenants son entradas distintas,
// e invalidar el patrón de uno no toca al otro.
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantCache_ClavesAisladasPorTenant(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	require.NoError(t, c.Set(ctx, "r1", "storages", "cocina", 0))
	require.NoError(t, c.Set(ctx, "r2", "storages", "barra", 0))

	v1, ok1, err := c.Get(ctx, "r1", "storages")
	require.NoError(t, err)
	require.True(t, ok1)
	v2, ok2, err := c.Get(ctx, "r2", "storages")
	require.NoError(t, err)
	require.True(t, ok2)

	assert.Equal(t, "cocina", v1)
	assert.Equal(t, "barra", v2)
}

func TestTenantCache_DeletePatternNoCruzaTenants(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	require.NoError(t, c.Set(ctx, "r1", "pos:storages", "a", 0))
	require.NoError(t, c.Set(ctx, "r1", "pos:ingredients", "b", 0))
	require.NoError(t, c.Set(ctx, "r2", "pos:storages", "c", 0))

	require.NoError(t, c.DeletePattern(ctx, "r1", "pos:"))

	_, ok, _ := c.Get(ctx, "r1", "pos:storages")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "r1", "pos:ingredients")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "r2", "pos:storages")
	assert.True(t, ok, "las claves del otro tenant deben sobrevivir")
}

func TestTenantCache_TTLExpira(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	require.NoError(t, c.Set(ctx, "r1", "efimera", "x", 20*time.Millisecond))
	_, ok, _ := c.Get(ctx, "r1", "efimera")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok, _ = c.Get(ctx, "r1", "efimera")
	assert.False(t, ok, "pasado el TTL la clave desaparece")
}

func TestTenantCache_KeysListaSinNamespace(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	require.NoError(t, c.Set(ctx, "r1", "pos:storages", "a", 0))
	require.NoError(t, c.Set(ctx, "r1", "pos:leftovers:7", "b", 0))

	keys, err := c.Keys(ctx, "r1", "pos:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pos:storages", "pos:leftovers:7"}, keys)
}

// El fallback en memoria está acotado: llegar al límite expulsa una entrada
// en vez de crecer sin control.
func TestMemoryStore_CotaDeEntradas(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(4)

	for i := 0; i < 8; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), "v", time.Minute))
	}
	keys, err := store.Keys(ctx, "k")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(keys), 4)
}
