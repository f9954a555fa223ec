package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/infrastructure/cache"
	apphttp "github.com/jhoicas/Despensa-api/internal/interfaces/http"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// buildTenantApp registra las rutas /tenant con una caché compartida entre
// peticiones, para poder verificar la invalidación tras un update.
func buildTenantApp(repo *fakeTenantRepo) *fiber.App {
	tenantCache := cache.NewWithStore(cache.NewMemoryStore(0), time.Minute)
	app := fiber.New()
	mw := apphttp.TenantMiddleware(apphttp.TenantDeps{
		Tenants:   repo,
		Cache:     tenantCache,
		JWTSecret: testJWTSecret,
		Log:       logger.Nop(),
	})
	handler := apphttp.NewTenantHandler(repo, tenantCache)
	app.Get("/api/tenant", mw, handler.Get)
	app.Put("/api/tenant", mw, handler.Update)
	return app
}

func tenantRequest(t *testing.T, app *fiber.App, method, role, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, "/api/tenant", strings.NewReader(body))
	req.Header.Set("X-Tenant-ID", testTenantID)
	req.Header.Set("X-Role", role)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTenantHandler_DevuelveLaConfiguracionSinToken(t *testing.T) {
	app := buildTenantApp(activeTenantRepo())

	resp := tenantRequest(t, app, http.MethodGet, "staff", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "La Esquina", body["name"])
	assert.Equal(t, true, body["pos_token_set"])
	assert.NotContains(t, body, "pos_token", "el token nunca viaja en la respuesta")
}

func TestTenantHandler_UpdateExigeAdmin(t *testing.T) {
	app := buildTenantApp(activeTenantRepo())

	resp := tenantRequest(t, app, http.MethodPut, "staff", `{"name":"Otro"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTenantHandler_UpdateRotaTokenEInvalidaCache(t *testing.T) {
	repo := activeTenantRepo()
	app := buildTenantApp(repo)

	// Primera petición puebla la caché de configuración.
	resp := tenantRequest(t, app, http.MethodGet, "staff", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, repo.gets)

	resp = tenantRequest(t, app, http.MethodPut, "admin", `{"name":"La Esquina Norte","pos_token":"tok-nuevo"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "La Esquina Norte", body["name"])
	assert.Equal(t, "La Esquina Norte", repo.tenants[testTenantID].Name)
	assert.Equal(t, "tok-nuevo", repo.tenants[testTenantID].POSToken)

	// La caché quedó invalidada: la siguiente lectura vuelve a la base.
	gets := repo.gets
	resp = tenantRequest(t, app, http.MethodGet, "staff", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, repo.gets, gets, "tras el update la configuración se relee")
}

func TestTenantHandler_UpdateRechazaNombreVacio(t *testing.T) {
	app := buildTenantApp(activeTenantRepo())

	resp := tenantRequest(t, app, http.MethodPut, "admin", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
