package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/Despensa-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Despensa-api/pkg/jwt"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testTenantID  = "00000000-0000-0000-0000-000000000001"
)

// fakeTenantRepo cuenta lecturas para verificar que la caché evita repetirlas.
type fakeTenantRepo struct {
	tenants map[string]*entity.Tenant
	gets    int
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.gets++
	return r.tenants[id], nil
}

func (r *fakeTenantRepo) Update(_ context.Context, tenant *entity.Tenant) error {
	r.tenants[tenant.ID] = tenant
	return nil
}

// buildTestApp arma una app Fiber con el middleware de tenant y un handler que
// devuelve lo resuelto.
func buildTestApp(repo *fakeTenantRepo) *fiber.App {
	app := fiber.New()
	app.Get("/whoami",
		apphttp.TenantMiddleware(apphttp.TenantDeps{
			Tenants:   repo,
			Cache:     cache.NewWithStore(cache.NewMemoryStore(0), time.Minute),
			JWTSecret: testJWTSecret,
			Log:       logger.Nop(),
		}),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"tenant_id": apphttp.GetTenantID(c),
				"role":      apphttp.GetRole(c),
				"name":      apphttp.GetTenant(c).Name,
			})
		},
	)
	return app
}

func activeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*entity.Tenant{
		testTenantID: {ID: testTenantID, Name: "La Esquina", POSToken: "tok", Active: true},
	}}
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución del tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantMiddleware_ResuelvePorJWT(t *testing.T) {
	repo := activeTenantRepo()
	app := buildTestApp(repo)

	token, err := pkgjwt.Generate(testJWTSecret, testTenantID, "admin", "despensa-test", 60)
	require.NoError(t, err)

	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "La Esquina", body["name"])
}

func TestTenantMiddleware_ResuelvePorHeader(t *testing.T) {
	app := buildTestApp(activeTenantRepo())

	resp := doRequest(t, app, map[string]string{"X-Tenant-ID": testTenantID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, "staff", body["role"], "sin rol explícito se asume staff")
}

func TestTenantMiddleware_SinIdentidadEs401(t *testing.T) {
	app := buildTestApp(activeTenantRepo())

	resp := doRequest(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTenantMiddleware_TokenInvalidoEs401(t *testing.T) {
	app := buildTestApp(activeTenantRepo())

	resp := doRequest(t, app, map[string]string{"Authorization": "Bearer basura"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTenantMiddleware_TenantDesconocidoEs401(t *testing.T) {
	app := buildTestApp(activeTenantRepo())

	resp := doRequest(t, app, map[string]string{"X-Tenant-ID": "99999999-0000-0000-0000-000000000000"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTenantMiddleware_TenantInactivoEs403(t *testing.T) {
	repo := &fakeTenantRepo{tenants: map[string]*entity.Tenant{
		testTenantID: {ID: testTenantID, Name: "Cerrado", Active: false},
	}}
	app := buildTestApp(repo)

	resp := doRequest(t, app, map[string]string{"X-Tenant-ID": testTenantID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTenantMiddleware_CacheaLaConfiguracion(t *testing.T) {
	repo := activeTenantRepo()
	app := buildTestApp(repo)

	for i := 0; i < 3; i++ {
		resp := doRequest(t, app, map[string]string{"X-Tenant-ID": testTenantID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 1, repo.gets, "las peticiones siguientes se sirven de caché")
}
