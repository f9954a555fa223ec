package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Despensa-api/internal/domain"
)

// Provider define el puerto de salida hacia el POS upstream. La implementación
// concreta usa HTTP; para tests se inyecta un fake.
type Provider interface {
	GetStorages(ctx context.Context, token string) ([]Storage, error)
	GetIngredients(ctx context.Context, token string) ([]Ingredient, error)
	GetStorageLeftovers(ctx context.Context, token string, storageID int64) ([]Leftover, error)
	GetSuppliers(ctx context.Context, token string) ([]Supplier, error)
	// CreateSupply registra una entrada de mercancía y devuelve su id upstream.
	CreateSupply(ctx context.Context, token string, supply Supply) (int64, error)
}

var _ Provider = (*Client)(nil)

// Client implementa Provider sobre la API HTTP del POS.
// Usa net/http de la stdlib; cada respuesta viene en un sobre
// {"response": ...} o {"error": {"code": n, "message": "..."}}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente con el timeout de red configurado.
// El caller además debe acotar cada llamada con el ctx de la petición.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *apiError       `json:"error"`
}

// GetStorages lista los almacenes del tenant.
func (c *Client) GetStorages(ctx context.Context, token string) ([]Storage, error) {
	var out []Storage
	if err := c.call(ctx, http.MethodGet, "storage.getStorages", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIngredients lista el catálogo completo de ingredientes con categorías.
func (c *Client) GetIngredients(ctx context.Context, token string) ([]Ingredient, error) {
	var out []Ingredient
	if err := c.call(ctx, http.MethodGet, "menu.getIngredients", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStorageLeftovers lee las existencias actuales de un almacén.
func (c *Client) GetStorageLeftovers(ctx context.Context, token string, storageID int64) ([]Leftover, error) {
	params := url.Values{"storage_id": {strconv.FormatInt(storageID, 10)}}
	var out []Leftover
	if err := c.call(ctx, http.MethodGet, "storage.getStorageLeftovers", token, params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSuppliers lista los proveedores registrados en el POS.
func (c *Client) GetSuppliers(ctx context.Context, token string) ([]Supplier, error) {
	var out []Supplier
	if err := c.call(ctx, http.MethodGet, "storage.getSuppliers", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSupply registra la entrada de mercancía. El POS responde con el id del supply.
func (c *Client) CreateSupply(ctx context.Context, token string, supply Supply) (int64, error) {
	var out int64
	if err := c.call(ctx, http.MethodPost, "storage.createSupply", token, nil, supply, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// call ejecuta una llamada al POS y decodifica el sobre de respuesta.
// Fallo de red / 5xx => ErrUpstreamUnavailable; sobre de error => ErrUpstreamRejected.
// Ambos son recuperables para el caller (el sync continúa con datos parciales).
func (c *Client) call(ctx context.Context, method, apiMethod, token string, params url.Values, body, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", token)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, apiMethod, params.Encode())

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", apiMethod, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", apiMethod, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, apiMethod, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrUpstreamUnavailable, apiMethod, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s devolvió HTTP %d", domain.ErrUpstreamUnavailable, apiMethod, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: respuesta inesperada de %s: %v", domain.ErrUpstreamUnavailable, apiMethod, err)
	}
	if env.Error != nil {
		return fmt.Errorf("%w: %s: %s (código %d)", domain.ErrUpstreamRejected, apiMethod, env.Error.Message, env.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s devolvió HTTP %d", domain.ErrUpstreamUnavailable, apiMethod, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(env.Response, out); err != nil {
			return fmt.Errorf("decode %s: %w", apiMethod, err)
		}
	}
	return nil
}
